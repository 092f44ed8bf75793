package types

import "errors"

// Deletable collection names, matching the JSON keys of SharedData.
const (
	CollectionActivities = "activities"
	CollectionMeals      = "meals"
	CollectionFuture     = "future"
	CollectionWishes     = "wishes"
	CollectionLearning   = "learning"
)

// ErrUnknownCollection is returned when a delete names a collection that is
// not part of the shared document.
var ErrUnknownCollection = errors.New("unknown collection")

// DeleteByID filters the named collection to exclude the item with the given
// id. Deleting an id that is not present leaves the collection unchanged and
// is not an error; the save that follows is what matters.
func (d *SharedData) DeleteByID(collection, id string) error {
	switch collection {
	case CollectionActivities:
		d.Activities = removeByID(d.Activities, id, func(a Activity) string { return a.ID })
	case CollectionMeals:
		d.Meals = removeByID(d.Meals, id, func(m Meal) string { return m.ID })
	case CollectionFuture:
		d.Future = removeByID(d.Future, id, func(i ListItem) string { return i.ID })
	case CollectionWishes:
		d.Wishes = removeByID(d.Wishes, id, func(i ListItem) string { return i.ID })
	case CollectionLearning:
		d.Learning = removeByID(d.Learning, id, func(i ListItem) string { return i.ID })
	default:
		return ErrUnknownCollection
	}
	return nil
}

func removeByID[T any](items []T, id string, idOf func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}
