package route

import "branakids/navigation/internal/domain"

// Link targets rendered by the navigation surfaces.
const (
	Home     = "/"
	Products = "/products"
	Deals    = "/deals"
	Contact  = "/contact"
	FAQ      = "/faq"
	Wishlist = "/wishlist"
	Account  = "/admin"
)

const (
	categoryPrefix = "/category/"
	productPrefix  = "/products/"
)

// IsActive reports whether candidate is the current page. Matching is exact:
// "/products" is not active on "/products/42".
func IsActive(candidate, current string) bool {
	return candidate == current
}

// CategoryPath returns the link target for a category slug.
func CategoryPath(slug string) string {
	return categoryPrefix + slug
}

// ProductPath returns the link target for a product search hit.
func ProductPath(id string) string {
	return productPrefix + id
}

// Highlighter binds IsActive to one current path so every surface of a page
// derives active state from the same value.
type Highlighter struct {
	Current string
}

func NewHighlighter(current string) Highlighter {
	return Highlighter{Current: current}
}

func (h Highlighter) IsActive(path string) bool {
	return IsActive(path, h.Current)
}

// Link builds a link view model with its active flag resolved.
func (h Highlighter) Link(href, label string) domain.Link {
	return domain.Link{
		Href:   href,
		Label:  label,
		Active: h.IsActive(href),
	}
}

// CategoryLink builds the link for a category, carrying its normalized icon.
func (h Highlighter) CategoryLink(c domain.Category) domain.Link {
	link := h.Link(CategoryPath(c.Slug), c.Name)
	link.Description = c.Description
	link.Icon = c.Icon
	return link
}
