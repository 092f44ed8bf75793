package famclient

import (
	"context"
	"errors"

	"github.com/ecofamily/famsync/internal/types"
)

var (
	// ErrNotFound means the family namespace does not exist remotely.
	ErrNotFound = errors.New("family not found")
	// ErrConflict means the family code is already claimed.
	ErrConflict = errors.New("family code already in use")
	// ErrTransport covers unreachable-remote and every unclassified remote
	// failure. It is never retried automatically.
	ErrTransport = errors.New("remote unreachable")
)

// Subscription is a standing listener on a family namespace, torn down on
// logout.
type Subscription interface {
	Unsubscribe()
}

// Gateway is the capability surface the sync layer depends on. The remote
// side is an opaque document store: whole-document reads and writes plus a
// change subscription, nothing finer-grained.
type Gateway interface {
	// Exists reports whether the namespace holds a document.
	Exists(ctx context.Context, code string) (bool, error)

	// CreateFamily claims the namespace and writes a fresh document.
	// Returns ErrConflict if the namespace is already claimed.
	CreateFamily(ctx context.Context, code string, data types.SharedData) error

	// ReadDocument returns the namespace's document, or ErrNotFound.
	ReadDocument(ctx context.Context, code string) (*types.SharedData, error)

	// WriteDocument replaces the namespace's document wholesale.
	WriteDocument(ctx context.Context, code string, data types.SharedData) error

	// Subscribe invokes onChange once with the current document and again
	// on every subsequent write to the namespace by any client, the
	// subscriber's own writes included.
	Subscribe(ctx context.Context, code string, onChange func(types.SharedData)) (Subscription, error)
}
