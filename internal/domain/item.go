package domain

import "fmt"

// Item is the single resource managed by the service.
//
// ID is assigned by the storage layer on first save and never changes after that.
// Name is required at creation time. Description is optional and an empty
// string stands in for a missing value.
type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// NewItem builds an unsaved Item. The zero ID marks it as not yet persisted.
func NewItem(name, description string) Item {
	return Item{Name: name, Description: description}
}

// IsNew reports whether the item has not been assigned an ID yet.
func (i Item) IsNew() bool {
	return i.ID == 0
}

// WithID returns a copy of the item carrying the given ID.
func (i Item) WithID(id int64) Item {
	i.ID = id
	return i
}

// Equal compares every field, including the ID.
func (i Item) Equal(other Item) bool {
	return i.ID == other.ID &&
		i.Name == other.Name &&
		i.Description == other.Description
}

func (i Item) String() string {
	return fmt.Sprintf("Item{id=%d, name=%q, description=%q}", i.ID, i.Name, i.Description)
}
