package app

import "booking_relay/internal/domain"

// ItemResolver turns a catalog id into the name used in notifications.
type ItemResolver struct {
	catalog *domain.Catalog
}

func NewItemResolver(c *domain.Catalog) *ItemResolver {
	return &ItemResolver{catalog: c}
}

// Resolve never fails: an unknown or absent id yields "Item #<id>" or
// "Item #unknown".
func (r *ItemResolver) Resolve(ref domain.ItemRef, kind domain.ActionType) string {
	if ref.IsZero() {
		return "Item #unknown"
	}
	if r != nil {
		if it, ok := r.catalog.Find(kind, ref); ok {
			if name := it.Name(domain.DefaultLang); name != "" {
				return name
			}
		}
	}
	return "Item #" + ref.String()
}
