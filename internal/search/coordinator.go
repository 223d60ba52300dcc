// Package search coordinates the incremental product search shared by the
// desktop and mobile search boxes.
//
// Every keystroke replaces the current query immediately. Queries longer than
// one character start a request; requests may overlap and are never
// cancelled when superseded. Instead each response is accepted only if the
// query that produced it is still the current query, so the visible results
// always belong to the latest input regardless of arrival order.
package search

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"branakids/navigation/internal/domain"

	log "github.com/sirupsen/logrus"
)

// ResultLimit caps the number of products requested per query.
const ResultLimit = 5

// MinQueryLength is the shortest trimmed query that triggers a request.
const MinQueryLength = 2

type Searcher interface {
	SearchProducts(ctx context.Context, query string, limit int) ([]domain.Product, error)
}

// Snapshot is a read-only copy of the coordinator state.
type Snapshot struct {
	Query   string                 `json:"query"`
	Results domain.SearchResultSet `json:"results"`
	Ready   bool                   `json:"ready"`
}

// Visible returns the products a surface may render. Results tagged with an
// older query are never visible.
func (s Snapshot) Visible() []domain.Product {
	if !s.Ready || s.Results.Query != s.Query {
		return nil
	}
	return s.Results.Products
}

type Coordinator struct {
	searcher Searcher
	ctx      context.Context
	cancel   context.CancelFunc

	mu      sync.Mutex
	query   string
	results domain.SearchResultSet
	ready   bool
	closed  bool

	notifyMu     sync.Mutex
	listeners    map[int]func(Snapshot)
	nextListener int

	inflight sync.WaitGroup
}

// NewCoordinator creates a coordinator whose requests live at most as long
// as ctx or until Close.
func NewCoordinator(ctx context.Context, searcher Searcher) *Coordinator {
	ctx, cancel := context.WithCancel(ctx)
	return &Coordinator{
		searcher:  searcher,
		ctx:       ctx,
		cancel:    cancel,
		listeners: make(map[int]func(Snapshot)),
	}
}

// OnQueryChange records raw as the current query and, when it is long
// enough, starts a search for it in the background.
func (c *Coordinator) OnQueryChange(raw string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.query = raw
	if utf8.RuneCountInString(strings.TrimSpace(raw)) < MinQueryLength {
		c.results = domain.SearchResultSet{}
		c.ready = false
		c.mu.Unlock()
		c.notify()
		return
	}

	c.inflight.Add(1)
	c.mu.Unlock()
	c.notify()

	go c.fetch(raw)
}

// Clear resets the query and results. Used after a result is picked or the
// search UI is dismissed.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.query = ""
	c.results = domain.SearchResultSet{}
	c.ready = false
	c.mu.Unlock()

	c.notify()
}

func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	products := make([]domain.Product, len(c.results.Products))
	copy(products, c.results.Products)

	return Snapshot{
		Query: c.query,
		Results: domain.SearchResultSet{
			Query:    c.results.Query,
			Products: products,
		},
		Ready: c.ready,
	}
}

// Subscribe registers fn to receive the latest snapshot after every state
// change. Deliveries are serialized; fn must not call back into
// OnQueryChange or Clear.
func (c *Coordinator) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	id := c.nextListener
	c.nextListener++
	c.listeners[id] = fn

	return func() {
		c.notifyMu.Lock()
		defer c.notifyMu.Unlock()
		delete(c.listeners, id)
	}
}

// Wait blocks until every request started so far has settled.
func (c *Coordinator) Wait() {
	c.inflight.Wait()
}

// Close ends the coordinator lifetime. Pending responses are dropped and
// later query changes are ignored.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
}

func (c *Coordinator) fetch(query string) {
	defer c.inflight.Done()

	products, err := c.searcher.SearchProducts(c.ctx, strings.TrimSpace(query), ResultLimit)
	if err != nil {
		log.Warnf("⚠️ Search for %q failed, showing no results: %v", query, err)
		products = nil
	}
	if products == nil {
		products = []domain.Product{}
	}

	c.mu.Lock()
	if c.closed || query != c.query {
		current := c.query
		c.mu.Unlock()
		log.Debugf("🗑️ Discarding stale results for %q (current query %q)", query, current)
		return
	}
	c.results = domain.SearchResultSet{
		Query:    query,
		Products: products,
	}
	c.ready = true
	c.mu.Unlock()

	c.notify()
}

func (c *Coordinator) notify() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	if len(c.listeners) == 0 {
		return
	}

	snap := c.Snapshot()
	for _, fn := range c.listeners {
		fn(snap)
	}
}
