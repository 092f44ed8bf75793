package store

import (
	"context"
	"time"

	"github.com/ecofamily/famsync/internal/types"
)

// Store defines the interface contract for the family document store. One
// document per family code; writes replace the document wholesale.
type Store interface {
	Exists(ctx context.Context, code string) (bool, error)
	CreateFamily(ctx context.Context, code string, data types.SharedData) (*types.FamilyDocument, error)
	GetSharedData(ctx context.Context, code string) (*types.SharedData, error)
	PutSharedData(ctx context.Context, code string, data types.SharedData) error
	CountFamilies(ctx context.Context) (int64, error)
	CreatedAt(ctx context.Context, code string) (time.Time, error)
	Close() error
}
