package surface

import (
	"bytes"
	"fmt"
	"testing"

	"branakids/navigation/internal/domain"
	"branakids/navigation/internal/search"
	"branakids/navigation/internal/shell"
	"branakids/navigation/internal/testutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, snap shell.Snapshot) *goquery.Document {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Build(snap, DefaultLayout)))
	return testutil.ParseHTML(t, buf.Bytes())
}

func categories(n int) []domain.Category {
	out := make([]domain.Category, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.CategoryRecord{
			Name: fmt.Sprintf("Category %d", i),
			Slug: fmt.Sprintf("cat-%d", i),
		}.Normalize())
	}
	return out
}

func TestDesktopShowsSingleCategory(t *testing.T) {
	baby := domain.CategoryRecord{Name: "Baby", Slug: "baby", Description: strPtr("Baby gear")}.Normalize()
	doc := render(t, shell.Snapshot{Path: "/", Categories: []domain.Category{baby}, CategoriesLoaded: true})

	links := doc.Find(`[data-nav="desktop"] a[data-category]`)
	require.Equal(t, 1, links.Length())
	require.Equal(t, "Baby", links.Find(".title").Text())
	require.Equal(t, []string{"/category/baby"}, testutil.Hrefs(links))
	require.True(t, links.Find("i").HasClass("icon-baby"))
}

func strPtr(s string) *string { return &s }

func TestDesktopLimitsCategoriesToTwoColumns(t *testing.T) {
	doc := render(t, shell.Snapshot{Path: "/", Categories: categories(10)})

	columns := doc.Find(`[data-nav="desktop"] .mega-menu ul.column`)
	require.Equal(t, 2, columns.Length())
	require.Equal(t, 4, columns.Eq(0).Find("a[data-category]").Length())
	require.Equal(t, 4, columns.Eq(1).Find("a[data-category]").Length())

	mobile := doc.Find(`[data-nav="mobile"] a[data-category]`)
	require.Equal(t, 10, mobile.Length())
	require.Equal(t, "/category/cat-10", testutil.Hrefs(mobile)[9])
}

func TestEmptyDirectoryRendersNoCategoryLinks(t *testing.T) {
	doc := render(t, shell.Snapshot{Path: "/", CategoriesLoaded: true})

	require.Equal(t, 0, doc.Find("a[data-category]").Length())
	require.Equal(t, 1, doc.Find(`[data-nav="desktop"] a[data-link="deals"]`).Length())
}

func TestActiveLinksMatchExactPath(t *testing.T) {
	doc := render(t, shell.Snapshot{Path: "/deals"})

	require.True(t, doc.Find(`[data-nav="desktop"] a[data-link="deals"]`).HasClass("active"))
	require.True(t, doc.Find(`[data-nav="mobile"] a[data-link="deals"]`).HasClass("active"))
	require.False(t, doc.Find(`[data-nav="desktop"] a[data-link="products"]`).HasClass("active"))
	require.False(t, doc.Find(`[data-nav="mobile"] a[data-link="home"]`).HasClass("active"))

	nested := render(t, shell.Snapshot{Path: "/deals/1"})
	require.False(t, nested.Find(`[data-nav="desktop"] a[data-link="deals"]`).HasClass("active"))
}

func TestActiveCategoryInBothSurfaces(t *testing.T) {
	doc := render(t, shell.Snapshot{Path: "/category/cat-2", Categories: categories(3)})

	require.Equal(t, []string{"Category 2"}, testutil.Texts(doc.Find(`[data-nav="desktop"] a[data-category].active .title`)))
	require.Equal(t, []string{"Category 2"}, testutil.Texts(doc.Find(`[data-nav="mobile"] a[data-category].active`)))
}

func TestBadgesHiddenWhenZero(t *testing.T) {
	doc := render(t, shell.Snapshot{Path: "/"})
	require.Equal(t, 0, doc.Find("[data-badge]").Length())

	doc = render(t, shell.Snapshot{Path: "/", CartCount: 3, WishlistCount: 2})
	require.Equal(t, "3", doc.Find(`[data-badge="cart"]`).Text())
	require.Equal(t, "2", doc.Find(`[data-badge="wishlist"]`).Text())
}

func TestSearchResultsOnlyForCurrentQuery(t *testing.T) {
	results := domain.SearchResultSet{Query: "bab", Products: []domain.Product{
		{ID: "p1", Name: "Baby bottle", Price: 9.5, ThumbnailRef: "/img/p1.jpg"},
	}}

	doc := render(t, shell.Snapshot{Path: "/", Search: search.Snapshot{Query: "bab", Results: results, Ready: true}})
	for _, scope := range []string{"desktop", "mobile", "mobile-bar"} {
		hits := doc.Find(fmt.Sprintf(`[data-search="%s"] a[data-result]`, scope))
		require.Equal(t, 1, hits.Length(), scope)
		require.Equal(t, "/products/p1", testutil.Hrefs(hits)[0])
		require.Equal(t, "9.50", hits.Find(".price").Text())
	}

	stale := render(t, shell.Snapshot{Path: "/", Search: search.Snapshot{Query: "babo", Results: results, Ready: true}})
	require.Equal(t, 0, stale.Find("a[data-result]").Length())
	require.Equal(t, "babo", stale.Find(`[data-search="desktop"] input`).AttrOr("value", ""))
}

func TestMobilePanelVisibility(t *testing.T) {
	closed := render(t, shell.Snapshot{Path: "/"})
	_, hidden := closed.Find(`[data-nav="mobile"]`).Attr("hidden")
	require.True(t, hidden)

	open := render(t, shell.Snapshot{Path: "/", State: domain.NavState{MobileMenuOpen: true, Scrolled: true}})
	_, hidden = open.Find(`[data-nav="mobile"]`).Attr("hidden")
	require.False(t, hidden)
	require.True(t, open.Find(`[data-nav="mobile"]`).HasClass("open"))
	require.True(t, open.Find(`[data-nav="header"]`).HasClass("scrolled"))
}

func TestSupportLinks(t *testing.T) {
	doc := render(t, shell.Snapshot{Path: "/faq"})

	desktop := doc.Find(`[data-nav="desktop"] a[data-support]`)
	require.Equal(t, []string{"/contact", "/faq"}, testutil.Hrefs(desktop))
	require.Equal(t, "Find answers to common questions", desktop.Eq(1).Find(".description").Text())
	require.True(t, desktop.Eq(1).HasClass("active"))

	mobile := doc.Find(`[data-nav="mobile"] a[data-support]`)
	require.Equal(t, []string{"Contact Us", "FAQ"}, testutil.Texts(mobile))
}

func TestRenderFragments(t *testing.T) {
	fragments, err := RenderFragments(Build(shell.Snapshot{Path: "/", Categories: categories(1)}, DefaultLayout))
	require.NoError(t, err)

	require.Contains(t, fragments.Header, `data-nav="header"`)
	require.Contains(t, fragments.Desktop, `href="/category/cat-1"`)
	require.Contains(t, fragments.Mobile, `data-nav="mobile"`)
}
