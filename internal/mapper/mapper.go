// Package mapper converts between the item wire shapes and the domain entity.
package mapper

import "github.com/jbweber/homelab/items/internal/domain"

// ItemRequest is the body of create and update calls. Nil and empty fields
// mean "not provided".
type ItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ItemResponse is the read projection of an item.
type ItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ToEntity builds an unsaved item from the request, copying fields verbatim.
func ToEntity(req ItemRequest) domain.Item {
	return domain.NewItem(deref(req.Name), deref(req.Description))
}

// ToResponse projects an item onto the response shape.
func ToResponse(item domain.Item) ItemResponse {
	return ItemResponse{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
	}
}

// MergeForUpdate copies each request field onto item only when it is present
// and non-empty. Everything else keeps the item's current value.
func MergeForUpdate(item domain.Item, req ItemRequest) domain.Item {
	if present(req.Name) {
		item.Name = *req.Name
	}
	if present(req.Description) {
		item.Description = *req.Description
	}
	return item
}

func present(s *string) bool {
	return s != nil && *s != ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
