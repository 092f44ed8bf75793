package famclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ecofamily/famsync/internal/config"
	"github.com/ecofamily/famsync/internal/types"
	"github.com/ecofamily/famsync/internal/validation"
)

// ErrUnknownPerson means the chosen person id is not on the configured roster.
var ErrUnknownPerson = fmt.Errorf("person not on the family roster")

// SessionManager owns the locally persisted identity: which family namespace
// this device belongs to and which roster member is using it.
type SessionManager struct {
	storage LocalStorage
	gateway Gateway
	family  config.FamilyConfig
	current *types.Session
}

func NewSessionManager(storage LocalStorage, gateway Gateway, family config.FamilyConfig) *SessionManager {
	return &SessionManager{
		storage: storage,
		gateway: gateway,
		family:  family,
	}
}

// LoadSession restores a persisted session. A missing, partial or corrupt
// record all mean the same thing: no session. Corruption is never an error
// the caller has to handle, the user just signs in again.
func (m *SessionManager) LoadSession() *types.Session {
	code, ok := m.storage.Get(keyFamilyCode)
	if !ok || code == "" {
		return nil
	}
	raw, ok := m.storage.Get(keyCurrentUser)
	if !ok {
		return nil
	}
	var user types.Person
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil
	}
	m.current = &types.Session{FamilyCode: code, User: user}
	return m.current
}

// Current returns the active session, or nil when signed out.
func (m *SessionManager) Current() *types.Session {
	return m.current
}

func (m *SessionManager) saveSession(session types.Session) error {
	raw, err := json.Marshal(session.User)
	if err != nil {
		return err
	}
	if err := m.storage.Set(keyFamilyCode, session.FamilyCode); err != nil {
		return err
	}
	if err := m.storage.Set(keyCurrentUser, string(raw)); err != nil {
		return err
	}
	m.current = &session
	return nil
}

// ClearSession removes the persisted identity and forgets the in-memory one.
func (m *SessionManager) ClearSession() error {
	if err := m.storage.Remove(keyFamilyCode); err != nil {
		return err
	}
	if err := m.storage.Remove(keyCurrentUser); err != nil {
		return err
	}
	m.current = nil
	return nil
}

// CreateFamily claims a new family namespace and signs this device in as
// personID. The session is persisted before the remote create: if the create
// then fails the local session stays, pointing at a namespace that does not
// exist yet. A later create with the same code repairs it.
func (m *SessionManager) CreateFamily(ctx context.Context, code string, personID int) (*types.Session, error) {
	code = validation.NormalizeFamilyCode(code)
	if verr := validation.ValidateFamilyCode("code", code, m.family.MinCodeLength); verr != nil {
		return nil, fmt.Errorf("%s: %s", verr.Field, verr.Message)
	}

	user, ok := m.family.PersonByID(personID)
	if !ok {
		return nil, ErrUnknownPerson
	}

	exists, err := m.gateway.Exists(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	session := types.Session{FamilyCode: code, User: user}
	if err := m.saveSession(session); err != nil {
		return nil, err
	}

	if err := m.gateway.CreateFamily(ctx, code, types.DefaultSharedData()); err != nil {
		return m.current, err
	}
	return m.current, nil
}

// JoinFamily signs this device into an existing family namespace. It checks
// existence only and never touches the shared document.
func (m *SessionManager) JoinFamily(ctx context.Context, code string, personID int) (*types.Session, error) {
	code = validation.NormalizeFamilyCode(code)
	if code == "" {
		return nil, fmt.Errorf("code: family code is required")
	}

	user, ok := m.family.PersonByID(personID)
	if !ok {
		return nil, ErrUnknownPerson
	}

	exists, err := m.gateway.Exists(ctx, code)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	session := types.Session{FamilyCode: code, User: user}
	if err := m.saveSession(session); err != nil {
		return nil, err
	}
	return m.current, nil
}
