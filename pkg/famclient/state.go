package famclient

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ecofamily/famsync/internal/types"
)

// StateStore holds the client's working copy of the shared family document.
// Every local mutation writes the whole document to the remote; every remote
// push replaces the working copy wholesale. Last write wins, no field-level
// merging.
type StateStore struct {
	mu       sync.Mutex
	code     string
	gateway  Gateway
	data     types.SharedData
	onChange func(types.SharedData)
}

// NewStateStore creates a store seeded with the default document shape. The
// onChange callback fires after every replacement of the working copy, local
// and remote alike. It may be nil.
func NewStateStore(gateway Gateway, code string, onChange func(types.SharedData)) *StateStore {
	return &StateStore{
		code:     code,
		gateway:  gateway,
		data:     types.DefaultSharedData(),
		onChange: onChange,
	}
}

// InitializeFromRemote loads the family document. A missing document yields
// the default shape; a present one is backfilled for absent top-level keys.
func (s *StateStore) InitializeFromRemote(ctx context.Context) error {
	remote, err := s.gateway.ReadDocument(ctx, s.code)
	if errors.Is(err, ErrNotFound) {
		s.replace(types.DefaultSharedData())
		return nil
	}
	if err != nil {
		return err
	}
	s.replace(types.MergeWithDefaults(*remote))
	return nil
}

// ApplyRemotePush replaces the working copy with a pushed document. Pushes
// caused by this client's own writes arrive here too; applying them is
// harmless because the content is identical.
func (s *StateStore) ApplyRemotePush(doc types.SharedData) {
	s.replace(types.MergeWithDefaults(doc))
}

func (s *StateStore) replace(doc types.SharedData) {
	s.mu.Lock()
	s.data = doc
	snapshot := s.data.Clone()
	cb := s.onChange
	s.mu.Unlock()

	// Callback runs outside the lock so it can read the store freely.
	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a deep copy of the working document.
func (s *StateStore) Snapshot() types.SharedData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Mutate applies fn to the working copy and writes the result to the remote.
// The local copy keeps the mutation even when the remote write fails: there
// is no rollback, the next successful write or remote push reconverges the
// document.
func (s *StateStore) Mutate(ctx context.Context, fn func(*types.SharedData)) error {
	s.mu.Lock()
	fn(&s.data)
	doc := s.data.Clone()
	cb := s.onChange
	s.mu.Unlock()

	if cb != nil {
		cb(doc.Clone())
	}
	return s.gateway.WriteDocument(ctx, s.code, doc)
}

// AddActivity appends a calendar entry and saves.
func (s *StateStore) AddActivity(ctx context.Context, title string, personID int, date, clock, addedBy string) (types.Activity, error) {
	activity := types.Activity{
		ID:      types.NewItemID(),
		Title:   title,
		Person:  personID,
		Date:    date,
		Time:    clock,
		AddedBy: addedBy,
		Created: time.Now().UTC(),
	}
	err := s.Mutate(ctx, func(d *types.SharedData) {
		d.Activities = append(d.Activities, activity)
	})
	return activity, err
}

// AddMeal appends a planned dish and saves.
func (s *StateStore) AddMeal(ctx context.Context, dish string, portions int, date string) (types.Meal, error) {
	meal := types.Meal{
		ID:       types.NewItemID(),
		Dish:     dish,
		Portions: portions,
		Date:     date,
	}
	err := s.Mutate(ctx, func(d *types.SharedData) {
		d.Meals = append(d.Meals, meal)
	})
	return meal, err
}

// DeleteItem removes the entry with the given id from the named collection
// and saves. Deleting an absent id still writes; the operation is idempotent
// on content. An unknown collection fails before anything is touched.
func (s *StateStore) DeleteItem(ctx context.Context, collection, id string) error {
	var probe types.SharedData
	if err := probe.DeleteByID(collection, id); err != nil {
		return err
	}
	return s.Mutate(ctx, func(d *types.SharedData) {
		d.DeleteByID(collection, id)
	})
}
