package domain

// Category is a product category as shown in the navigation menus.
type Category struct {
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description"`
	Kind        CategoryKind `json:"kind"`
	Icon        string       `json:"icon"`
}

// CategoryRecord is the raw shape returned by the category listing endpoint.
// Unknown fields are ignored.
type CategoryRecord struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	Kind        string  `json:"kind,omitempty"`
}

// Normalize resolves presentation metadata once so every surface reads the
// same values.
func (r CategoryRecord) Normalize() Category {
	kind, ok := ParseCategoryKind(r.Kind)
	if !ok {
		kind = ClassifyCategory(r.Name)
	}

	description := ""
	if r.Description != nil {
		description = *r.Description
	}

	return Category{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: description,
		Kind:        kind,
		Icon:        kind.Icon(),
	}
}
