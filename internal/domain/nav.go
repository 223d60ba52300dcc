package domain

// NavState is the transient per-page visibility state.
type NavState struct {
	MobileMenuOpen bool `json:"mobile_menu_open"`
	CartModalOpen  bool `json:"cart_modal_open"`
	Scrolled       bool `json:"scrolled"`
}

// Link is a rendered navigation link.
type Link struct {
	Href        string `json:"href"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Active      bool   `json:"active"`
}
