// Package shell composes the state of one mounted navigation bar: the
// category directory, the search coordinator, menu visibility, scroll state
// and the cart and wishlist counters.
package shell

import (
	"context"
	"sync"

	"branakids/navigation/internal/directory"
	"branakids/navigation/internal/domain"
	"branakids/navigation/internal/events"
	"branakids/navigation/internal/search"
	"branakids/navigation/internal/storage"

	log "github.com/sirupsen/logrus"
)

// DefaultScrollThreshold is the vertical offset past which the bar counts
// as scrolled.
const DefaultScrollThreshold = 10

// CartProvider exposes the visitor's cart items.
type CartProvider interface {
	CurrentItems(ctx context.Context) ([]domain.CartItem, error)
}

// Deps are the collaborators a shell reads from. None of them is owned by
// the shell.
type Deps struct {
	Categories directory.Lister
	Searcher   search.Searcher
	Cart       CartProvider
	Wishlist   storage.WishlistReader
	Scroll     events.Source
	Storage    events.Source
}

type Options struct {
	ScrollThreshold float64
	// WishlistKey limits wishlist recomputation to changes of this key.
	// When empty every storage change triggers a recount.
	WishlistKey string
	// Path is the page the shell is mounted on.
	Path string
}

// Snapshot is a read-only view of the shell for surfaces.
type Snapshot struct {
	Path             string            `json:"path"`
	State            domain.NavState   `json:"state"`
	Categories       []domain.Category `json:"categories"`
	CategoriesLoaded bool              `json:"categories_loaded"`
	Search           search.Snapshot   `json:"search"`
	CartCount        int               `json:"cart_count"`
	WishlistCount    int               `json:"wishlist_count"`
}

type Shell struct {
	deps Deps
	opts Options

	mu            sync.Mutex
	mounted       bool
	cancel        context.CancelFunc
	mountCtx      context.Context
	directory     *directory.Directory
	search        *search.Coordinator
	loaded        chan struct{}
	state         domain.NavState
	path          string
	wishlistCount int
	unsubscribers []func()

	notifyMu     sync.Mutex
	listeners    map[int]func()
	nextListener int
}

func New(deps Deps, opts Options) *Shell {
	if opts.ScrollThreshold <= 0 {
		opts.ScrollThreshold = DefaultScrollThreshold
	}
	if deps.Scroll == nil {
		deps.Scroll = events.NullSource{}
	}
	if deps.Storage == nil {
		deps.Storage = events.NullSource{}
	}

	loaded := make(chan struct{})
	close(loaded)

	// Searches only run while mounted.
	idle := search.NewCoordinator(context.Background(), deps.Searcher)
	idle.Close()

	return &Shell{
		deps:      deps,
		opts:      opts,
		path:      opts.Path,
		loaded:    loaded,
		search:    idle,
		directory: directory.New(deps.Categories),
		listeners: make(map[int]func()),
	}
}

// Mount starts the category load, reads the wishlist counter and subscribes
// to scroll and storage events. Mounting a mounted shell does nothing.
func (s *Shell) Mount(ctx context.Context) {
	s.mu.Lock()
	if s.mounted {
		s.mu.Unlock()
		return
	}

	mountCtx, cancel := context.WithCancel(ctx)
	s.mounted = true
	s.mountCtx = mountCtx
	s.cancel = cancel
	s.state = domain.NavState{}
	s.directory = directory.New(s.deps.Categories)
	s.search = search.NewCoordinator(mountCtx, s.deps.Searcher)
	s.loaded = make(chan struct{})

	dir, loaded, coordinator := s.directory, s.loaded, s.search
	s.unsubscribers = []func(){
		coordinator.Subscribe(func(search.Snapshot) { s.notify() }),
		s.deps.Scroll.Subscribe(events.TypeScroll, s.handleScroll),
		s.deps.Storage.Subscribe(events.TypeStorage, s.handleStorage),
	}
	s.mu.Unlock()

	s.refreshWishlist(mountCtx)

	go func() {
		defer close(loaded)
		dir.Load(mountCtx)
		s.notify()
	}()

	log.Debugf("🧭 Navigation shell mounted on %s", s.Path())
}

// Unmount removes every listener registered by Mount and drops the
// directory and search state of this mount.
func (s *Shell) Unmount() {
	s.mu.Lock()
	if !s.mounted {
		s.mu.Unlock()
		return
	}

	unsubscribers := s.unsubscribers
	s.unsubscribers = nil
	s.mounted = false
	s.directory = directory.New(s.deps.Categories)
	coordinator := s.search
	cancel := s.cancel
	s.mu.Unlock()

	for _, unsubscribe := range unsubscribers {
		unsubscribe()
	}
	coordinator.Close()
	cancel()

	log.Debugf("🧭 Navigation shell unmounted")
}

// WaitLoaded blocks until the category load of the current mount settles.
func (s *Shell) WaitLoaded(ctx context.Context) error {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()

	select {
	case <-loaded:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Shell) OpenMobileMenu() {
	s.update(func(state *domain.NavState) { state.MobileMenuOpen = true })
}

func (s *Shell) CloseMobileMenu() {
	s.update(func(state *domain.NavState) { state.MobileMenuOpen = false })
}

func (s *Shell) OpenCartModal() {
	s.update(func(state *domain.NavState) { state.CartModalOpen = true })
}

func (s *Shell) CloseCartModal() {
	s.update(func(state *domain.NavState) { state.CartModalOpen = false })
}

// Query forwards a keystroke to the search coordinator.
func (s *Shell) Query(raw string) {
	s.coordinator().OnQueryChange(raw)
}

// ClearSearch empties the search box, e.g. after a result was picked.
func (s *Shell) ClearSearch() {
	s.coordinator().Clear()
}

// Navigate records a route change. Following a link also closes the mobile
// panel.
func (s *Shell) Navigate(path string) {
	s.mu.Lock()
	changed := s.path != path || s.state.MobileMenuOpen
	s.path = path
	s.state.MobileMenuOpen = false
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

func (s *Shell) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

func (s *Shell) State() domain.NavState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// WishlistCount returns the last computed wishlist size.
func (s *Shell) WishlistCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wishlistCount
}

// CartCount sums item quantities from the cart provider. It is computed on
// every call.
func (s *Shell) CartCount(ctx context.Context) int {
	if s.deps.Cart == nil {
		return 0
	}

	items, err := s.deps.Cart.CurrentItems(ctx)
	if err != nil {
		log.Warnf("⚠️ Failed to read cart, showing empty badge: %v", err)
		return 0
	}
	return domain.TotalQuantity(items)
}

// Snapshot collects everything a surface needs for one render.
func (s *Shell) Snapshot(ctx context.Context) Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Path:             s.path,
		State:            s.state,
		Categories:       s.directory.Snapshot(),
		CategoriesLoaded: s.directory.Loaded(),
		WishlistCount:    s.wishlistCount,
	}
	coordinator := s.search
	s.mu.Unlock()

	snap.Search = coordinator.Snapshot()
	snap.CartCount = s.CartCount(ctx)
	return snap
}

// OnChange registers fn to be called after any state change.
func (s *Shell) OnChange(fn func()) (unsubscribe func()) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn

	return func() {
		s.notifyMu.Lock()
		defer s.notifyMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Shell) coordinator() *search.Coordinator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

func (s *Shell) update(apply func(*domain.NavState)) {
	s.mu.Lock()
	before := s.state
	apply(&s.state)
	changed := before != s.state
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

func (s *Shell) handleScroll(e events.Event) {
	scroll, ok := e.(events.ScrollEvent)
	if !ok {
		return
	}
	s.update(func(state *domain.NavState) {
		state.Scrolled = scroll.OffsetY > s.opts.ScrollThreshold
	})
}

func (s *Shell) handleStorage(e events.Event) {
	change, ok := e.(events.StorageEvent)
	if !ok {
		return
	}
	if s.opts.WishlistKey != "" && change.Key != s.opts.WishlistKey {
		return
	}

	s.mu.Lock()
	ctx := s.mountCtx
	s.mu.Unlock()

	s.refreshWishlist(ctx)
}

func (s *Shell) refreshWishlist(ctx context.Context) {
	count := 0
	if s.deps.Wishlist != nil {
		n, err := s.deps.Wishlist.CurrentCount(ctx)
		if err != nil {
			log.Warnf("⚠️ Failed to read wishlist: %v", err)
		} else {
			count = n
		}
	}

	s.mu.Lock()
	changed := s.wishlistCount != count
	s.wishlistCount = count
	s.mu.Unlock()

	if changed {
		s.notify()
	}
}

func (s *Shell) notify() {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	for _, fn := range s.listeners {
		fn()
	}
}
