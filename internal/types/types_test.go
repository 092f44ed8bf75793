package types

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestDefaultSharedData_AllCollectionsPresent(t *testing.T) {
	d := DefaultSharedData()

	if d.Activities == nil || d.Meals == nil || d.Future == nil || d.Wishes == nil || d.Learning == nil {
		t.Fatal("expected every top-level list to be present and empty")
	}
	if d.Shopping == nil {
		t.Fatal("expected shopping to be present")
	}
	if d.Shopping.Food == nil || d.Shopping.Basics == nil || d.Shopping.Big == nil {
		t.Fatal("expected every shopping sub-list to be present and empty")
	}
}

func TestMergeWithDefaults_BackfillsAbsentKeys(t *testing.T) {
	// Remote document with only activities present.
	var remote SharedData
	if err := json.Unmarshal([]byte(`{"activities":[{"id":"a1","title":"Fotboll"}]}`), &remote); err != nil {
		t.Fatal(err)
	}

	merged := MergeWithDefaults(remote)

	if len(merged.Activities) != 1 || merged.Activities[0].Title != "Fotboll" {
		t.Errorf("remote value should win for present keys, got %+v", merged.Activities)
	}
	if merged.Meals == nil || merged.Future == nil || merged.Wishes == nil || merged.Learning == nil {
		t.Error("absent list keys should be backfilled with empty lists")
	}
	if merged.Shopping == nil || merged.Shopping.Big == nil {
		t.Error("absent shopping key should be backfilled with the full default")
	}
}

func TestMergeWithDefaults_DoesNotRepairPartialShopping(t *testing.T) {
	// Shopping is present but missing the big sub-list. The shallow merge
	// must keep the partial object as-is.
	var remote SharedData
	if err := json.Unmarshal([]byte(`{"shopping":{"food":[{"id":"f1","name":"Mjölk"}],"basics":[]}}`), &remote); err != nil {
		t.Fatal(err)
	}

	merged := MergeWithDefaults(remote)

	if merged.Shopping == nil {
		t.Fatal("present shopping object must survive the merge")
	}
	if len(merged.Shopping.Food) != 1 {
		t.Errorf("expected 1 food item, got %d", len(merged.Shopping.Food))
	}
	if merged.Shopping.Big != nil {
		t.Error("missing big sub-list must not be repaired by the shallow merge")
	}
}

func TestMergeWithDefaults_Idempotent(t *testing.T) {
	remote := SharedData{Activities: []Activity{{ID: "a1", Title: "Simskola"}}}

	once := MergeWithDefaults(remote)
	twice := MergeWithDefaults(once)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merge must be idempotent:\nonce:  %+v\ntwice: %+v", once, twice)
	}
}

func TestDeleteByID_RestoresPreAddState(t *testing.T) {
	d := DefaultSharedData()
	before := len(d.Activities)

	a := Activity{ID: NewItemID(), Title: "Fotboll", Person: 1, Date: "2026-03-02", Time: "17:00"}
	d.Activities = append(d.Activities, a)

	if err := d.DeleteByID(CollectionActivities, a.ID); err != nil {
		t.Fatal(err)
	}
	if len(d.Activities) != before {
		t.Errorf("expected %d activities after add+delete, got %d", before, len(d.Activities))
	}
}

func TestDeleteByID_KeepsOtherItems(t *testing.T) {
	d := DefaultSharedData()
	d.Meals = []Meal{
		{ID: "m1", Dish: "Tacos", Portions: 4, Date: "2026-03-06"},
		{ID: "m2", Dish: "Lasagne", Portions: 5, Date: "2026-03-07"},
	}

	if err := d.DeleteByID(CollectionMeals, "m1"); err != nil {
		t.Fatal(err)
	}
	if len(d.Meals) != 1 || d.Meals[0].ID != "m2" {
		t.Errorf("expected only m2 to remain, got %+v", d.Meals)
	}
}

func TestDeleteByID_UnknownCollection(t *testing.T) {
	d := DefaultSharedData()
	if err := d.DeleteByID("chores", "x"); err != ErrUnknownCollection {
		t.Errorf("expected ErrUnknownCollection, got %v", err)
	}
}

func TestDeleteByID_AbsentIDIsNoop(t *testing.T) {
	d := DefaultSharedData()
	d.Wishes = []ListItem{{ID: "w1", Title: "Lego"}}

	if err := d.DeleteByID(CollectionWishes, "nope"); err != nil {
		t.Fatal(err)
	}
	if len(d.Wishes) != 1 {
		t.Errorf("deleting an absent id must leave the collection unchanged, got %+v", d.Wishes)
	}
}

func TestClone_Independent(t *testing.T) {
	d := DefaultSharedData()
	d.Activities = append(d.Activities, Activity{ID: "a1", Title: "Ridning"})

	c := d.Clone()
	c.Activities[0].Title = "changed"
	c.Shopping.Food = append(c.Shopping.Food, ShoppingItem{ID: "f1", Name: "Bröd"})

	if d.Activities[0].Title != "Ridning" {
		t.Error("clone must not share activity backing arrays with the original")
	}
	if len(d.Shopping.Food) != 0 {
		t.Error("clone must not share shopping lists with the original")
	}
}

func TestNewItemID_Unique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewItemID()
		if len(id) != 26 {
			t.Fatalf("expected 26-char ULID, got %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
