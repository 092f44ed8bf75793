package famclient

import (
	"context"
	"errors"
	"testing"

	"github.com/ecofamily/famsync/internal/config"
	"github.com/ecofamily/famsync/internal/types"
)

func testFamily() config.FamilyConfig {
	return config.FamilyConfig{
		Members: []types.Person{
			{ID: 1, Name: "Jon", ColorTag: "blue"},
			{ID: 2, Name: "Johanna", ColorTag: "pink"},
			{ID: 3, Name: "Linnéa", ColorTag: "purple"},
			{ID: 4, Name: "Rafael", ColorTag: "green"},
			{ID: 5, Name: "Alicia", ColorTag: "yellow"},
		},
		MinCodeLength:       6,
		DefaultActivityTime: "17:00",
		DefaultMealTime:     "19:00",
		DefaultMealPortions: 4,
	}
}

func newTestSessionManager() (*SessionManager, *MemoryStorage, *MemoryGateway) {
	storage := NewMemoryStorage()
	gw := NewMemoryGateway()
	return NewSessionManager(storage, gw, testFamily()), storage, gw
}

func TestCreateFamily_PersistsSessionAndCreatesRemote(t *testing.T) {
	m, _, gw := newTestSessionManager()
	ctx := context.Background()

	session, err := m.CreateFamily(ctx, "andersson2026", 1)
	if err != nil {
		t.Fatal(err)
	}
	if session.FamilyCode != "ANDERSSON2026" {
		t.Errorf("code not normalized: %q", session.FamilyCode)
	}
	if session.User.Name != "Jon" {
		t.Errorf("user = %+v", session.User)
	}

	exists, err := gw.Exists(ctx, "ANDERSSON2026")
	if err != nil || !exists {
		t.Errorf("remote namespace not created: exists=%v err=%v", exists, err)
	}

	// A fresh manager against the same storage restores the session.
	restored := NewSessionManager(m.storage, gw, testFamily()).LoadSession()
	if restored == nil || restored.FamilyCode != "ANDERSSON2026" || restored.User.ID != 1 {
		t.Errorf("restored session = %+v", restored)
	}
}

func TestCreateFamily_ShortCodeNeverTouchesRemote(t *testing.T) {
	m, storage, gw := newTestSessionManager()

	_, err := m.CreateFamily(context.Background(), "abc", 1)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := storage.Get(keyFamilyCode); ok {
		t.Error("session persisted despite invalid code")
	}
	if exists, _ := gw.Exists(context.Background(), "ABC"); exists {
		t.Error("remote namespace created despite invalid code")
	}
}

func TestCreateFamily_ExistingCodeConflicts(t *testing.T) {
	m, _, gw := newTestSessionManager()
	ctx := context.Background()

	if err := gw.CreateFamily(ctx, "ANDERSSON2026", types.DefaultSharedData()); err != nil {
		t.Fatal(err)
	}

	_, err := m.CreateFamily(ctx, "ANDERSSON2026", 2)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	if m.Current() != nil {
		t.Error("conflicting create must not sign in")
	}
}

func TestCreateFamily_UnknownPerson(t *testing.T) {
	m, _, _ := newTestSessionManager()

	_, err := m.CreateFamily(context.Background(), "ANDERSSON2026", 42)
	if !errors.Is(err, ErrUnknownPerson) {
		t.Errorf("err = %v, want ErrUnknownPerson", err)
	}
}

func TestJoinFamily_RequiresExistingFamily(t *testing.T) {
	m, _, _ := newTestSessionManager()

	_, err := m.JoinFamily(context.Background(), "NOBODY2026", 2)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestJoinFamily_DoesNotTouchDocument(t *testing.T) {
	m, _, gw := newTestSessionManager()
	ctx := context.Background()

	seeded := types.DefaultSharedData()
	seeded.Wishes = append(seeded.Wishes, types.ListItem{ID: "w1", Title: "Lego"})
	if err := gw.CreateFamily(ctx, "ANDERSSON2026", seeded); err != nil {
		t.Fatal(err)
	}

	session, err := m.JoinFamily(ctx, " andersson2026 ", 3)
	if err != nil {
		t.Fatal(err)
	}
	if session.User.Name != "Linnéa" {
		t.Errorf("user = %+v", session.User)
	}

	doc, err := gw.ReadDocument(ctx, "ANDERSSON2026")
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Wishes) != 1 || doc.Wishes[0].Title != "Lego" {
		t.Errorf("join must not rewrite the document: %+v", doc.Wishes)
	}
}

func TestLoadSession_PartialOrCorruptRecordMeansSignedOut(t *testing.T) {
	cases := []struct {
		name  string
		setup func(s *MemoryStorage)
	}{
		{"empty storage", func(s *MemoryStorage) {}},
		{"code without user", func(s *MemoryStorage) {
			s.Set(keyFamilyCode, "ANDERSSON2026")
		}},
		{"user without code", func(s *MemoryStorage) {
			s.Set(keyCurrentUser, `{"id":1,"name":"Jon"}`)
		}},
		{"corrupt user json", func(s *MemoryStorage) {
			s.Set(keyFamilyCode, "ANDERSSON2026")
			s.Set(keyCurrentUser, `{"id":`)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			tc.setup(storage)
			m := NewSessionManager(storage, NewMemoryGateway(), testFamily())
			if got := m.LoadSession(); got != nil {
				t.Errorf("LoadSession = %+v, want nil", got)
			}
		})
	}
}

func TestClearSession(t *testing.T) {
	m, storage, _ := newTestSessionManager()
	ctx := context.Background()

	if _, err := m.CreateFamily(ctx, "ANDERSSON2026", 1); err != nil {
		t.Fatal(err)
	}
	if err := m.ClearSession(); err != nil {
		t.Fatal(err)
	}
	if m.Current() != nil {
		t.Error("session still active after clear")
	}
	if _, ok := storage.Get(keyFamilyCode); ok {
		t.Error("family code still persisted after clear")
	}
	if _, ok := storage.Get(keyCurrentUser); ok {
		t.Error("user still persisted after clear")
	}
}
