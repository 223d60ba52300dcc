// Package surface turns a shell snapshot into the view models and HTML of
// the header, the desktop mega-menu and the mobile panel. Surfaces only read
// the snapshot; every link's active flag comes from the same highlighter.
package surface

import (
	"fmt"

	"branakids/navigation/internal/domain"
	"branakids/navigation/internal/route"
	"branakids/navigation/internal/shell"
)

// Layout controls how many categories the desktop mega-menu shows.
type Layout struct {
	CategoryLimit int
	ColumnSize    int
}

// DefaultLayout shows eight categories in two columns of four.
var DefaultLayout = Layout{CategoryLimit: 8, ColumnSize: 4}

type ResultLink struct {
	Href      string
	Name      string
	Price     string
	Thumbnail string
}

type SearchBox struct {
	Value       string
	Results     []ResultLink
	ShowResults bool
	ShowClear   bool
}

type Header struct {
	Scrolled      bool
	CartCount     int
	WishlistCount int
	CartOpen      bool
	Home          domain.Link
	Contact       domain.Link
	Account       domain.Link
	Wishlist      domain.Link
	Search        SearchBox
}

type DesktopMenu struct {
	ShopColumns [][]domain.Link
	AllProducts domain.Link
	Deals       domain.Link
	Products    domain.Link
	Support     []domain.Link
	Search      SearchBox
}

type MobilePanel struct {
	Open       bool
	Home       domain.Link
	Categories []domain.Link
	Deals      domain.Link
	Products   domain.Link
	Support    []domain.Link
	Search     SearchBox
}

// View is everything rendered for one snapshot.
type View struct {
	Header  Header
	Desktop DesktopMenu
	Mobile  MobilePanel
}

// Build derives all surfaces from one snapshot.
func Build(snap shell.Snapshot, layout Layout) View {
	h := route.NewHighlighter(snap.Path)
	search := buildSearchBox(snap)

	return View{
		Header:  buildHeader(snap, h, search),
		Desktop: buildDesktop(snap, h, layout, search),
		Mobile:  buildMobile(snap, h, search),
	}
}

func buildSearchBox(snap shell.Snapshot) SearchBox {
	box := SearchBox{
		Value:     snap.Search.Query,
		ShowClear: snap.Search.Query != "",
	}

	for _, p := range snap.Search.Visible() {
		box.Results = append(box.Results, ResultLink{
			Href:      route.ProductPath(p.ID),
			Name:      p.Name,
			Price:     fmt.Sprintf("%.2f", p.Price),
			Thumbnail: p.ThumbnailRef,
		})
	}
	box.ShowResults = box.Value != "" && len(box.Results) > 0

	return box
}

func buildHeader(snap shell.Snapshot, h route.Highlighter, search SearchBox) Header {
	return Header{
		Scrolled:      snap.State.Scrolled,
		CartCount:     snap.CartCount,
		WishlistCount: snap.WishlistCount,
		CartOpen:      snap.State.CartModalOpen,
		Home:          h.Link(route.Home, "BRANA KIDS"),
		Contact:       h.Link(route.Contact, "Contact Us"),
		Account:       h.Link(route.Account, "Account"),
		Wishlist:      h.Link(route.Wishlist, "Wishlist"),
		Search:        search,
	}
}

func buildDesktop(snap shell.Snapshot, h route.Highlighter, layout Layout, search SearchBox) DesktopMenu {
	if layout.ColumnSize <= 0 {
		layout = DefaultLayout
	}

	shown := snap.Categories
	if layout.CategoryLimit > 0 && len(shown) > layout.CategoryLimit {
		shown = shown[:layout.CategoryLimit]
	}

	var columns [][]domain.Link
	for start := 0; start < len(shown); start += layout.ColumnSize {
		end := min(start+layout.ColumnSize, len(shown))
		column := make([]domain.Link, 0, end-start)
		for _, c := range shown[start:end] {
			column = append(column, h.CategoryLink(c))
		}
		columns = append(columns, column)
	}

	return DesktopMenu{
		ShopColumns: columns,
		AllProducts: h.Link(route.Products, "View all products"),
		Deals:       h.Link(route.Deals, "Deals"),
		Products:    h.Link(route.Products, "All Products"),
		Support: []domain.Link{
			supportLink(h, route.Contact, "Contact Us", "Get in touch with our team", "help-circle"),
			supportLink(h, route.FAQ, "FAQ & Support", "Find answers to common questions", "life-buoy"),
		},
		Search: search,
	}
}

func buildMobile(snap shell.Snapshot, h route.Highlighter, search SearchBox) MobilePanel {
	categories := make([]domain.Link, 0, len(snap.Categories))
	for _, c := range snap.Categories {
		categories = append(categories, h.CategoryLink(c))
	}

	home := h.Link(route.Home, "Home")
	home.Icon = "home"
	deals := h.Link(route.Deals, "Deals")
	deals.Icon = "tag"
	products := h.Link(route.Products, "All Products")
	products.Icon = "package"

	return MobilePanel{
		Open:       snap.State.MobileMenuOpen,
		Home:       home,
		Categories: categories,
		Deals:      deals,
		Products:   products,
		Support: []domain.Link{
			h.Link(route.Contact, "Contact Us"),
			h.Link(route.FAQ, "FAQ"),
		},
		Search: search,
	}
}

func supportLink(h route.Highlighter, href, label, description, icon string) domain.Link {
	link := h.Link(href, label)
	link.Description = description
	link.Icon = icon
	return link
}
