package domain

import "strings"

type CategoryKind string

func (c CategoryKind) String() string {
	return string(c)
}

const (
	CategoryKindBaby      CategoryKind = "baby"
	CategoryKindClothing  CategoryKind = "clothing"
	CategoryKindToys      CategoryKind = "toys"
	CategoryKindBooks     CategoryKind = "books"
	CategoryKindAccessory CategoryKind = "accessories"
	CategoryKindSpecial   CategoryKind = "special"
	CategoryKindOther     CategoryKind = "other"
)

// CategoryKinds lists the kinds in classification order.
var CategoryKinds = []CategoryKind{
	CategoryKindBaby,
	CategoryKindClothing,
	CategoryKindToys,
	CategoryKindBooks,
	CategoryKindAccessory,
	CategoryKindSpecial,
}

// Icon returns the icon identifier rendered next to categories of this kind.
func (c CategoryKind) Icon() string {
	switch c {
	case CategoryKindBaby:
		return "baby"
	case CategoryKindClothing:
		return "shirt"
	case CategoryKindToys:
		return "gamepad-2"
	case CategoryKindBooks:
		return "book-open"
	case CategoryKindAccessory:
		return "heart"
	case CategoryKindSpecial:
		return "star"
	default:
		return "sparkles"
	}
}

func (c CategoryKind) marker() string {
	switch c {
	case CategoryKindBaby:
		return "baby"
	case CategoryKindClothing:
		return "clothing"
	case CategoryKindToys:
		return "toy"
	case CategoryKindBooks:
		return "book"
	case CategoryKindAccessory:
		return "accessory"
	case CategoryKindSpecial:
		return "special"
	default:
		return ""
	}
}

// ParseCategoryKind maps a server supplied kind tag to a known kind.
func ParseCategoryKind(tag string) (CategoryKind, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, kind := range CategoryKinds {
		if tag == kind.String() {
			return kind, true
		}
	}
	return CategoryKindOther, false
}

// ClassifyCategory picks a kind from the category display name. The first
// kind whose marker appears in the name wins.
func ClassifyCategory(name string) CategoryKind {
	lower := strings.ToLower(name)
	for _, kind := range CategoryKinds {
		if strings.Contains(lower, kind.marker()) {
			return kind
		}
	}
	return CategoryKindOther
}
