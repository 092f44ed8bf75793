package types

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// Person is a static roster entry. The roster is defined at configuration
// time; people are never created or destroyed at runtime.
type Person struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ColorTag string `json:"color"`
}

// Session identifies the current user and the family namespace they belong
// to. It is persisted locally and survives process restarts.
type Session struct {
	FamilyCode string `json:"family_code"`
	User       Person `json:"user"`
}

// Activity is a calendar entry belonging to one person on one date.
type Activity struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Person  int       `json:"person"`
	Date    string    `json:"date"` // YYYY-MM-DD
	Time    string    `json:"time"` // HH:MM
	AddedBy string    `json:"addedBy"`
	Created time.Time `json:"created"`
}

// Meal is a planned dish on one date.
type Meal struct {
	ID       string `json:"id"`
	Dish     string `json:"dish"`
	Portions int    `json:"portions"`
	Date     string `json:"date"` // YYYY-MM-DD
}

// ListItem is a generic entry in the future/wishes/learning collections.
type ListItem struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	AddedBy string    `json:"addedBy,omitempty"`
	Created time.Time `json:"created"`
}

// ShoppingItem is an entry in one of the shopping sub-lists.
type ShoppingItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ShoppingLists groups the three shopping sub-lists. Shopping is held behind
// a pointer in SharedData so that an absent "shopping" key in a remote
// document stays distinguishable from a present-but-partial one: absence is
// backfilled from the default template, partial presence is kept as-is.
type ShoppingLists struct {
	Food   []ShoppingItem `json:"food"`
	Basics []ShoppingItem `json:"basics"`
	Big    []ShoppingItem `json:"big"`
}

// SharedData is the single shared document per family. It is replaced
// wholesale on every save and on every remote push; the storage layer never
// patches it partially.
type SharedData struct {
	Activities []Activity     `json:"activities"`
	Meals      []Meal         `json:"meals"`
	Future     []ListItem     `json:"future"`
	Wishes     []ListItem     `json:"wishes"`
	Shopping   *ShoppingLists `json:"shopping"`
	Learning   []ListItem     `json:"learning"`
}

// FamilyDocument is the remote document at families/{code}. After creation
// only the sharedData sub-resource is read or written.
type FamilyDocument struct {
	Created    time.Time  `json:"created"`
	SharedData SharedData `json:"sharedData"`
}

// DefaultSharedData returns the empty default document shape. Every
// collection is present and empty.
func DefaultSharedData() SharedData {
	return SharedData{
		Activities: []Activity{},
		Meals:      []Meal{},
		Future:     []ListItem{},
		Wishes:     []ListItem{},
		Shopping: &ShoppingLists{
			Food:   []ShoppingItem{},
			Basics: []ShoppingItem{},
			Big:    []ShoppingItem{},
		},
		Learning: []ListItem{},
	}
}

// MergeWithDefaults backfills absent top-level keys from the default
// template. The merge is shallow: the remote value wins per top-level key,
// and a present-but-incomplete nested object (for example a shopping object
// missing its big list) is not repaired.
func MergeWithDefaults(remote SharedData) SharedData {
	def := DefaultSharedData()
	merged := remote
	if merged.Activities == nil {
		merged.Activities = def.Activities
	}
	if merged.Meals == nil {
		merged.Meals = def.Meals
	}
	if merged.Future == nil {
		merged.Future = def.Future
	}
	if merged.Wishes == nil {
		merged.Wishes = def.Wishes
	}
	if merged.Shopping == nil {
		merged.Shopping = def.Shopping
	}
	if merged.Learning == nil {
		merged.Learning = def.Learning
	}
	return merged
}

// Clone returns a deep copy of the document, safe to hand to renderers while
// the original keeps mutating.
func (d SharedData) Clone() SharedData {
	out := d
	out.Activities = append([]Activity(nil), d.Activities...)
	out.Meals = append([]Meal(nil), d.Meals...)
	out.Future = append([]ListItem(nil), d.Future...)
	out.Wishes = append([]ListItem(nil), d.Wishes...)
	out.Learning = append([]ListItem(nil), d.Learning...)
	if d.Shopping != nil {
		s := ShoppingLists{
			Food:   append([]ShoppingItem(nil), d.Shopping.Food...),
			Basics: append([]ShoppingItem(nil), d.Shopping.Basics...),
			Big:    append([]ShoppingItem(nil), d.Shopping.Big...),
		}
		out.Shopping = &s
	}
	return out
}

// NewItemID generates a ULID for list items. ULIDs are time-ordered with a
// random component, matching the locally generated, not collision-proof id
// scheme the sync protocol assumes.
func NewItemID() string {
	return ulid.Make().String()
}
