package famclient

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/ecofamily/famsync/internal/types"
)

func newTestStateStore(t *testing.T) (*StateStore, *MemoryGateway) {
	t.Helper()
	gw := NewMemoryGateway()
	if err := gw.CreateFamily(context.Background(), "ANDERSSON2026", types.DefaultSharedData()); err != nil {
		t.Fatal(err)
	}
	return NewStateStore(gw, "ANDERSSON2026", nil), gw
}

func TestInitializeFromRemote_MissingDocumentYieldsDefaults(t *testing.T) {
	gw := NewMemoryGateway()
	s := NewStateStore(gw, "NOBODY2026", nil)

	if err := s.InitializeFromRemote(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := s.Snapshot()
	if !reflect.DeepEqual(got, types.DefaultSharedData()) {
		t.Errorf("snapshot = %+v, want defaults", got)
	}
}

func TestInitializeFromRemote_BackfillsAbsentKeys(t *testing.T) {
	gw := NewMemoryGateway()
	partial := types.SharedData{
		Activities: []types.Activity{{ID: "a1", Title: "Fotboll"}},
	}
	if err := gw.CreateFamily(context.Background(), "ANDERSSON2026", partial); err != nil {
		t.Fatal(err)
	}

	s := NewStateStore(gw, "ANDERSSON2026", nil)
	if err := s.InitializeFromRemote(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := s.Snapshot()
	if len(got.Activities) != 1 {
		t.Errorf("activities lost in merge: %+v", got.Activities)
	}
	if got.Meals == nil || got.Shopping == nil || got.Learning == nil {
		t.Error("absent collections should be backfilled")
	}
}

func TestInitializeFromRemote_PartialShoppingIsKeptAsIs(t *testing.T) {
	// The merge is shallow: a shopping object missing a sub-list is the
	// remote's value and is not repaired.
	var partial types.SharedData
	raw := `{"shopping":{"food":[{"id":"f1","name":"Mjölk"}],"basics":[]}}`
	if err := json.Unmarshal([]byte(raw), &partial); err != nil {
		t.Fatal(err)
	}

	gw := NewMemoryGateway()
	if err := gw.CreateFamily(context.Background(), "ANDERSSON2026", partial); err != nil {
		t.Fatal(err)
	}
	s := NewStateStore(gw, "ANDERSSON2026", nil)
	if err := s.InitializeFromRemote(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := s.Snapshot()
	if got.Shopping == nil || len(got.Shopping.Food) != 1 {
		t.Fatalf("shopping lists lost: %+v", got.Shopping)
	}
	if got.Shopping.Big != nil {
		t.Error("shallow merge must not repair a missing sub-list")
	}
}

func TestApplyRemotePush_IsIdempotent(t *testing.T) {
	s, _ := newTestStateStore(t)

	doc := types.DefaultSharedData()
	doc.Meals = append(doc.Meals, types.Meal{ID: "m1", Dish: "Tacos", Portions: 4, Date: "2026-09-04"})

	s.ApplyRemotePush(doc)
	first := s.Snapshot()
	s.ApplyRemotePush(doc)
	second := s.Snapshot()

	if !reflect.DeepEqual(first, second) {
		t.Error("applying the same push twice changed the document")
	}
}

func TestMutate_WritesWholeDocument(t *testing.T) {
	s, gw := newTestStateStore(t)
	ctx := context.Background()

	if _, err := s.AddActivity(ctx, "Fotboll", 3, "2026-09-01", "17:00", "Jon"); err != nil {
		t.Fatal(err)
	}

	remote, err := gw.ReadDocument(ctx, "ANDERSSON2026")
	if err != nil {
		t.Fatal(err)
	}
	if len(remote.Activities) != 1 || remote.Activities[0].Title != "Fotboll" {
		t.Errorf("remote document = %+v", remote.Activities)
	}
	if remote.Activities[0].ID == "" || remote.Activities[0].AddedBy != "Jon" {
		t.Errorf("activity fields = %+v", remote.Activities[0])
	}
}

func TestMutate_KeepsLocalChangeWhenWriteFails(t *testing.T) {
	s, gw := newTestStateStore(t)
	ctx := context.Background()

	gw.FailNextWrite(errors.New("network down"))
	_, err := s.AddMeal(ctx, "Pannkakor", 4, "2026-09-05")
	if err == nil {
		t.Fatal("expected write error")
	}

	// No rollback: the local copy diverges until the next save or push.
	local := s.Snapshot()
	if len(local.Meals) != 1 {
		t.Errorf("local meals = %+v, want the failed addition kept", local.Meals)
	}
	remote, _ := gw.ReadDocument(ctx, "ANDERSSON2026")
	if len(remote.Meals) != 0 {
		t.Errorf("remote meals = %+v, want untouched", remote.Meals)
	}

	// The next successful save carries the earlier mutation along.
	if _, err := s.AddMeal(ctx, "Tacos", 4, "2026-09-06"); err != nil {
		t.Fatal(err)
	}
	remote, _ = gw.ReadDocument(ctx, "ANDERSSON2026")
	if len(remote.Meals) != 2 {
		t.Errorf("remote meals after reconverging save = %+v", remote.Meals)
	}
}

func TestMutate_ConcurrentClientsLastWriteWins(t *testing.T) {
	// Two clients mutate from the same base without seeing each other's
	// write. Saves replace the document wholesale, so the later write's
	// full document stands and the earlier addition is lost until someone
	// re-adds it. Neither store is subscribed, which models the window
	// before the losing client's push arrives.
	gw := NewMemoryGateway()
	ctx := context.Background()
	if err := gw.CreateFamily(ctx, "ANDERSSON2026", types.DefaultSharedData()); err != nil {
		t.Fatal(err)
	}

	jon := NewStateStore(gw, "ANDERSSON2026", nil)
	johanna := NewStateStore(gw, "ANDERSSON2026", nil)
	if err := jon.InitializeFromRemote(ctx); err != nil {
		t.Fatal(err)
	}
	if err := johanna.InitializeFromRemote(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := jon.AddActivity(ctx, "Fotboll", 3, "2026-09-01", "17:00", "Jon"); err != nil {
		t.Fatal(err)
	}
	if _, err := johanna.AddMeal(ctx, "Tacos", 4, "2026-09-04"); err != nil {
		t.Fatal(err)
	}

	remote, err := gw.ReadDocument(ctx, "ANDERSSON2026")
	if err != nil {
		t.Fatal(err)
	}
	if len(remote.Meals) != 1 || remote.Meals[0].Dish != "Tacos" {
		t.Errorf("later write missing: %+v", remote.Meals)
	}
	if len(remote.Activities) != 0 {
		t.Errorf("earlier addition should be lost to the later whole-document write: %+v", remote.Activities)
	}
}

func TestDeleteItem(t *testing.T) {
	s, gw := newTestStateStore(t)
	ctx := context.Background()

	a, err := s.AddActivity(ctx, "Simskola", 5, "2026-09-02", "16:00", "Johanna")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteItem(ctx, types.CollectionActivities, a.ID); err != nil {
		t.Fatal(err)
	}

	remote, _ := gw.ReadDocument(ctx, "ANDERSSON2026")
	if len(remote.Activities) != 0 {
		t.Errorf("activity not deleted remotely: %+v", remote.Activities)
	}
}

func TestDeleteItem_UnknownCollectionDoesNotWrite(t *testing.T) {
	s, gw := newTestStateStore(t)
	ctx := context.Background()

	gw.FailNextWrite(errors.New("should never be reached"))
	err := s.DeleteItem(ctx, "settings", "x")
	if !errors.Is(err, types.ErrUnknownCollection) {
		t.Errorf("err = %v, want ErrUnknownCollection", err)
	}
}

func TestOnChange_FiresForLocalAndRemoteReplacements(t *testing.T) {
	gw := NewMemoryGateway()
	if err := gw.CreateFamily(context.Background(), "ANDERSSON2026", types.DefaultSharedData()); err != nil {
		t.Fatal(err)
	}

	var calls []int
	s := NewStateStore(gw, "ANDERSSON2026", func(d types.SharedData) {
		calls = append(calls, len(d.Activities))
	})

	if err := s.InitializeFromRemote(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddActivity(context.Background(), "Fotboll", 3, "2026-09-01", "17:00", "Jon"); err != nil {
		t.Fatal(err)
	}
	doc := s.Snapshot()
	s.ApplyRemotePush(doc)

	want := []int{0, 1, 1}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("onChange activity counts = %v, want %v", calls, want)
	}
}
