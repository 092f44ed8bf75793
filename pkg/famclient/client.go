// Package famclient is the client library for a famsync server. It owns the
// locally persisted session, a working copy of the shared family document,
// and the standing subscription that keeps that copy fresh.
//
// Typical use:
//
//	client, err := famclient.New(famclient.Config{
//		RemoteURL: "http://localhost:8080",
//		StateDir:  "/home/jon/.famsync",
//		Family:    cfg.Family,
//	})
//	...
//	if client.Session() == nil {
//		client.JoinFamily(ctx, "ANDERSSON2026", 1)
//	}
//	client.Connect(ctx)
//	client.AddActivity(ctx, "Fotboll", 3, "2026-09-01", "")
package famclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecofamily/famsync/internal/config"
	"github.com/ecofamily/famsync/internal/types"
	"github.com/ecofamily/famsync/internal/validation"
)

// ErrNoSession means an operation that needs an identity was called while
// signed out.
var ErrNoSession = errors.New("no active session")

// ErrAlreadyConnected means Connect was called while a subscription is
// already running.
var ErrAlreadyConnected = errors.New("already connected")

// Config carries everything a Client needs. Nothing is global; two clients
// with different configs coexist in one process, which is how the multi-client
// tests run.
type Config struct {
	// RemoteURL is the famsync server base URL. Ignored when Gateway is set.
	RemoteURL string
	// StateDir holds the persisted session. Ignored when Storage is set.
	StateDir string
	// Family is the roster and the code/time defaults.
	Family config.FamilyConfig
	// Timeout bounds individual remote calls. Zero means a sensible default.
	Timeout time.Duration
	// OnChange, when set, fires with a snapshot after every replacement of
	// the working document, local and remote alike.
	OnChange func(types.SharedData)

	// Gateway and Storage override the HTTP gateway and file storage.
	// Tests inject in-memory implementations here.
	Gateway Gateway
	Storage LocalStorage
}

// Client is the top-level facade tying session, state and sync together.
type Client struct {
	cfg      Config
	gateway  Gateway
	sessions *SessionManager
	state    *StateStore
	syncer   *Syncer
}

// New wires up a client. It restores any persisted session but does not
// touch the network; call Connect for that.
func New(cfg Config) (*Client, error) {
	gateway := cfg.Gateway
	if gateway == nil {
		if cfg.RemoteURL == "" {
			return nil, errors.New("famclient: remote URL is required")
		}
		gateway = NewHTTPGateway(cfg.RemoteURL, cfg.Timeout)
	}

	storage := cfg.Storage
	if storage == nil {
		if cfg.StateDir == "" {
			return nil, errors.New("famclient: state directory is required")
		}
		fs, err := NewFileStorage(cfg.StateDir)
		if err != nil {
			return nil, fmt.Errorf("famclient: open state directory: %w", err)
		}
		storage = fs
	}

	c := &Client{
		cfg:      cfg,
		gateway:  gateway,
		sessions: NewSessionManager(storage, gateway, cfg.Family),
	}
	c.sessions.LoadSession()
	return c, nil
}

// Session returns the active session, or nil when signed out.
func (c *Client) Session() *types.Session {
	return c.sessions.Current()
}

// CreateFamily claims a new family namespace and signs in as personID.
func (c *Client) CreateFamily(ctx context.Context, code string, personID int) (*types.Session, error) {
	return c.sessions.CreateFamily(ctx, code, personID)
}

// JoinFamily signs in to an existing family namespace as personID.
func (c *Client) JoinFamily(ctx context.Context, code string, personID int) (*types.Session, error) {
	return c.sessions.JoinFamily(ctx, code, personID)
}

// Connect loads the shared document and starts the standing subscription.
// Requires an active session. Connecting again while the subscription is
// running is refused; a Connect that failed can be retried.
func (c *Client) Connect(ctx context.Context) error {
	session := c.sessions.Current()
	if session == nil {
		return ErrNoSession
	}
	if c.syncer != nil && c.syncer.State() != StateDisconnected {
		return ErrAlreadyConnected
	}
	c.state = NewStateStore(c.gateway, session.FamilyCode, c.cfg.OnChange)
	c.syncer = NewSyncer(c.gateway, c.state, session.FamilyCode)
	return c.syncer.Start(ctx)
}

// SyncState reports the connection lifecycle state.
func (c *Client) SyncState() SyncState {
	if c.syncer == nil {
		return StateDisconnected
	}
	return c.syncer.State()
}

// Data returns a snapshot of the working document.
func (c *Client) Data() (types.SharedData, error) {
	if c.state == nil {
		return types.SharedData{}, ErrNoSession
	}
	return c.state.Snapshot(), nil
}

// AddActivity adds a calendar entry. An empty clock falls back to the
// configured default activity time.
func (c *Client) AddActivity(ctx context.Context, title string, personID int, date, clock string) (types.Activity, error) {
	session := c.sessions.Current()
	if session == nil || c.state == nil {
		return types.Activity{}, ErrNoSession
	}
	if title == "" {
		return types.Activity{}, fmt.Errorf("title: an activity needs a title")
	}
	if _, ok := c.cfg.Family.PersonByID(personID); !ok {
		return types.Activity{}, ErrUnknownPerson
	}
	if verr := validation.ValidateDate("date", date); verr != nil {
		return types.Activity{}, fmt.Errorf("%s: %s", verr.Field, verr.Message)
	}
	if clock == "" {
		clock = c.cfg.Family.DefaultActivityTime
	}
	if verr := validation.ValidateClock("time", clock); verr != nil {
		return types.Activity{}, fmt.Errorf("%s: %s", verr.Field, verr.Message)
	}
	return c.state.AddActivity(ctx, title, personID, date, clock, session.User.Name)
}

// AddMeal plans a dish. Zero portions falls back to the configured default.
func (c *Client) AddMeal(ctx context.Context, dish string, portions int, date string) (types.Meal, error) {
	if c.sessions.Current() == nil || c.state == nil {
		return types.Meal{}, ErrNoSession
	}
	if dish == "" {
		return types.Meal{}, fmt.Errorf("dish: a meal needs a dish")
	}
	if verr := validation.ValidateDate("date", date); verr != nil {
		return types.Meal{}, fmt.Errorf("%s: %s", verr.Field, verr.Message)
	}
	if portions <= 0 {
		portions = c.cfg.Family.DefaultMealPortions
	}
	return c.state.AddMeal(ctx, dish, portions, date)
}

// DeleteItem removes one entry from a named collection.
func (c *Client) DeleteItem(ctx context.Context, collection, id string) error {
	if c.sessions.Current() == nil || c.state == nil {
		return ErrNoSession
	}
	return c.state.DeleteItem(ctx, collection, id)
}

// Logout asks confirm, then tears down the subscription and clears the
// persisted session. A declined confirmation leaves everything running.
// Callbacks already in flight when the subscription closes may still fire;
// renderers have to tolerate one late snapshot.
func (c *Client) Logout(confirm func() bool) error {
	if c.sessions.Current() == nil {
		return ErrNoSession
	}
	if confirm != nil && !confirm() {
		return nil
	}
	if c.syncer != nil {
		c.syncer.Stop()
	}
	c.state = nil
	c.syncer = nil
	return c.sessions.ClearSession()
}

// Close stops the subscription without touching the persisted session.
func (c *Client) Close() {
	if c.syncer != nil {
		c.syncer.Stop()
	}
}
