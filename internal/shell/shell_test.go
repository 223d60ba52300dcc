package shell

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"branakids/navigation/internal/domain"
	"branakids/navigation/internal/events"

	"github.com/stretchr/testify/require"
)

type stubCategories struct {
	calls   atomic.Int32
	records []domain.CategoryRecord
	err     error
}

func (s *stubCategories) ListCategories(ctx context.Context) ([]domain.CategoryRecord, error) {
	s.calls.Add(1)
	return s.records, s.err
}

type stubSearcher struct {
	mu      sync.Mutex
	queries []string
	results map[string][]domain.Product
}

func (s *stubSearcher) SearchProducts(ctx context.Context, query string, limit int) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, query)
	return s.results[query], nil
}

func (s *stubSearcher) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

type stubCart struct {
	items []domain.CartItem
	err   error
}

func (s *stubCart) CurrentItems(ctx context.Context) ([]domain.CartItem, error) {
	return s.items, s.err
}

type stubWishlist struct {
	count atomic.Int32
	err   error
}

func (s *stubWishlist) CurrentCount(ctx context.Context) (int, error) {
	return int(s.count.Load()), s.err
}

type fixture struct {
	shell      *Shell
	categories *stubCategories
	searcher   *stubSearcher
	cart       *stubCart
	wishlist   *stubWishlist
	scroll     *events.Bus
	storage    *events.Bus
}

func newFixture(t *testing.T, opts Options) *fixture {
	t.Helper()

	f := &fixture{
		categories: &stubCategories{records: []domain.CategoryRecord{
			{Name: "Baby", Slug: "baby"},
			{Name: "Clothing", Slug: "clothing"},
		}},
		searcher: &stubSearcher{results: map[string][]domain.Product{}},
		cart:     &stubCart{},
		wishlist: &stubWishlist{},
		scroll:   events.NewBus(),
		storage:  events.NewBus(),
	}
	f.shell = New(Deps{
		Categories: f.categories,
		Searcher:   f.searcher,
		Cart:       f.cart,
		Wishlist:   f.wishlist,
		Scroll:     f.scroll,
		Storage:    f.storage,
	}, opts)

	t.Cleanup(f.shell.Unmount)
	return f
}

func (f *fixture) mount(t *testing.T) {
	t.Helper()
	f.shell.Mount(t.Context())
	require.NoError(t, f.shell.WaitLoaded(t.Context()))
}

func TestMountLoadsCategoriesOnce(t *testing.T) {
	f := newFixture(t, Options{})
	f.mount(t)
	f.shell.Mount(t.Context())

	snap := f.shell.Snapshot(t.Context())
	require.True(t, snap.CategoriesLoaded)
	require.Len(t, snap.Categories, 2)
	require.Equal(t, "baby", snap.Categories[0].Slug)
	require.Equal(t, "clothing", snap.Categories[1].Slug)
	require.Equal(t, int32(1), f.categories.calls.Load())
}

func TestCategoryFailureRendersEmptyMenu(t *testing.T) {
	f := newFixture(t, Options{})
	f.categories.err = errors.New("HTTP error: 500 500 Internal Server Error")
	f.mount(t)

	snap := f.shell.Snapshot(t.Context())
	require.True(t, snap.CategoriesLoaded)
	require.Empty(t, snap.Categories)
}

func TestRemountRetriesCategories(t *testing.T) {
	f := newFixture(t, Options{})
	f.categories.err = errors.New("connection refused")
	f.mount(t)
	f.shell.Unmount()

	f.categories.err = nil
	f.mount(t)

	require.Equal(t, int32(2), f.categories.calls.Load())
	require.Len(t, f.shell.Snapshot(t.Context()).Categories, 2)
}

func TestMenusOpenIndependently(t *testing.T) {
	f := newFixture(t, Options{})
	f.mount(t)

	f.shell.OpenMobileMenu()
	f.shell.OpenCartModal()
	state := f.shell.State()
	require.True(t, state.MobileMenuOpen)
	require.True(t, state.CartModalOpen)

	f.shell.CloseCartModal()
	state = f.shell.State()
	require.True(t, state.MobileMenuOpen)
	require.False(t, state.CartModalOpen)

	f.shell.CloseMobileMenu()
	f.shell.OpenCartModal()
	state = f.shell.State()
	require.False(t, state.MobileMenuOpen)
	require.True(t, state.CartModalOpen)
}

func TestTransitionsAreIdempotent(t *testing.T) {
	f := newFixture(t, Options{})
	f.mount(t)

	var changes atomic.Int32
	f.shell.OnChange(func() { changes.Add(1) })

	f.shell.OpenMobileMenu()
	f.shell.OpenMobileMenu()
	f.shell.CloseCartModal()

	require.True(t, f.shell.State().MobileMenuOpen)
	require.Equal(t, int32(1), changes.Load())
}

func TestScrollThreshold(t *testing.T) {
	f := newFixture(t, Options{})
	f.mount(t)

	f.scroll.Publish(events.ScrollEvent{OffsetY: 10})
	require.False(t, f.shell.State().Scrolled)

	f.scroll.Publish(events.ScrollEvent{OffsetY: 10.5})
	require.True(t, f.shell.State().Scrolled)

	f.scroll.Publish(events.ScrollEvent{OffsetY: 0})
	require.False(t, f.shell.State().Scrolled)
}

func TestWishlistCountFollowsStorageChanges(t *testing.T) {
	f := newFixture(t, Options{WishlistKey: "branakids-wishlist:v1"})
	f.wishlist.count.Store(2)
	f.mount(t)
	require.Equal(t, 2, f.shell.WishlistCount())

	f.wishlist.count.Store(3)
	f.storage.Publish(events.StorageEvent{Key: "branakids-wishlist:v2"})
	require.Equal(t, 2, f.shell.WishlistCount())

	f.storage.Publish(events.StorageEvent{Key: "branakids-wishlist:v1"})
	require.Equal(t, 3, f.shell.WishlistCount())
}

func TestWishlistReadFailureCountsZero(t *testing.T) {
	f := newFixture(t, Options{})
	f.wishlist.count.Store(4)
	f.wishlist.err = errors.New("redis: connection refused")
	f.mount(t)

	require.Equal(t, 0, f.shell.WishlistCount())
}

func TestUnmountRemovesListeners(t *testing.T) {
	f := newFixture(t, Options{})
	f.mount(t)
	require.Equal(t, 1, f.scroll.Len(events.TypeScroll))
	require.Equal(t, 1, f.storage.Len(events.TypeStorage))

	f.shell.Unmount()

	require.Equal(t, 0, f.scroll.Len(events.TypeScroll))
	require.Equal(t, 0, f.storage.Len(events.TypeStorage))

	f.scroll.Publish(events.ScrollEvent{OffsetY: 500})
	require.False(t, f.shell.State().Scrolled)
}

func TestUnmountDiscardsCategories(t *testing.T) {
	f := newFixture(t, Options{})
	f.mount(t)
	require.Len(t, f.shell.Snapshot(t.Context()).Categories, 2)

	f.shell.Unmount()

	snap := f.shell.Snapshot(t.Context())
	require.Empty(t, snap.Categories)
	require.False(t, snap.CategoriesLoaded)
}

func TestCartCountIsRecomputed(t *testing.T) {
	f := newFixture(t, Options{})
	f.mount(t)

	f.cart.items = []domain.CartItem{{ProductID: "a", Quantity: 2}, {ProductID: "b", Quantity: 3}}
	require.Equal(t, 5, f.shell.Snapshot(t.Context()).CartCount)

	f.cart.items = append(f.cart.items, domain.CartItem{ProductID: "c", Quantity: 1})
	require.Equal(t, 6, f.shell.CartCount(t.Context()))

	f.cart.err = errors.New("db down")
	require.Equal(t, 0, f.shell.CartCount(t.Context()))
}

func TestSearchThroughShell(t *testing.T) {
	f := newFixture(t, Options{})
	f.searcher.results["bab"] = []domain.Product{{ID: "p1", Name: "Baby bottle"}}
	f.mount(t)

	f.shell.Query("b")
	require.Empty(t, f.searcher.Queries())

	f.shell.Query("bab")
	require.Eventually(t, func() bool {
		return len(f.shell.Snapshot(t.Context()).Search.Visible()) == 1
	}, time.Second, 5*time.Millisecond)

	f.shell.ClearSearch()
	snap := f.shell.Snapshot(t.Context())
	require.Equal(t, "", snap.Search.Query)
	require.Empty(t, snap.Search.Visible())
}

func TestSearchIgnoredWhileUnmounted(t *testing.T) {
	f := newFixture(t, Options{})

	f.shell.Query("teddy")

	require.Empty(t, f.searcher.Queries())
	require.Equal(t, "", f.shell.Snapshot(t.Context()).Search.Query)
}

func TestNavigateClosesMobileMenu(t *testing.T) {
	f := newFixture(t, Options{Path: "/"})
	f.mount(t)
	f.shell.OpenMobileMenu()
	f.shell.OpenCartModal()

	f.shell.Navigate("/deals")

	require.Equal(t, "/deals", f.shell.Path())
	state := f.shell.State()
	require.False(t, state.MobileMenuOpen)
	require.True(t, state.CartModalOpen)
}
