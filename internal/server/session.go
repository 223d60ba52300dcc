package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"branakids/navigation/internal/domain"
	"branakids/navigation/internal/events"
	"branakids/navigation/internal/shell"
	"branakids/navigation/internal/surface"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client message types.
const (
	msgQuery           = "query"
	msgClear           = "clear"
	msgScroll          = "scroll"
	msgNavigate        = "navigate"
	msgOpenMobileMenu  = "open_mobile_menu"
	msgCloseMobileMenu = "close_mobile_menu"
	msgOpenCart        = "open_cart"
	msgCloseCart       = "close_cart"
	msgStorage         = "storage"
)

// clientMessage is the incoming websocket message format.
type clientMessage struct {
	Type   string  `json:"type"`
	Value  string  `json:"value"`
	Offset float64 `json:"offset"`
}

type renderState struct {
	domain.NavState
	Path          string `json:"path"`
	Query         string `json:"query"`
	CartCount     int    `json:"cart_count"`
	WishlistCount int    `json:"wishlist_count"`
}

// renderMessage carries freshly rendered surfaces.
type renderMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Header    string      `json:"header"`
	Desktop   string      `json:"desktop"`
	Mobile    string      `json:"mobile"`
	State     renderState `json:"state"`
}

type errorMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

type session struct {
	id      string
	conn    *websocket.Conn
	shell   *shell.Shell
	window  *events.Bus
	layout  surface.Layout
	storage Announcer
	// local reports storage changes to this session when there is no
	// shared announcer.
	local bool

	writeMu sync.Mutex
	renders chan struct{}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("⚠️ Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	params := paramsFromRequest(r)
	window := events.NewBus()

	sess := &session{
		id:      uuid.NewString(),
		conn:    conn,
		window:  window,
		shell:   s.newShell(params, window, window),
		layout:  s.layout,
		storage: s.deps.Announcer,
		local:   !s.sharedStorage(),
		renders: make(chan struct{}, 1),
	}

	log.Infof("🔌 Session %s opened on %s", sess.id, params.Path)
	sess.run(s.ctx)
	log.Infof("🔌 Session %s closed", sess.id)
}

func (s *session) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	unsubscribe := s.shell.OnChange(s.requestRender)
	s.shell.Mount(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.writeLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		<-ctx.Done()
		// Unblocks the read loop on shutdown.
		s.conn.Close()
	}()

	s.requestRender()
	s.readLoop(ctx)

	unsubscribe()
	s.shell.Unmount()
	cancel()
	wg.Wait()
}

func (s *session) readLoop(ctx context.Context) {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnf("⚠️ Session %s read failed: %v", s.id, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendError("invalid message format")
			continue
		}
		s.handle(ctx, msg)
	}
}

func (s *session) handle(ctx context.Context, msg clientMessage) {
	switch msg.Type {
	case msgQuery:
		s.shell.Query(msg.Value)
	case msgClear:
		s.shell.ClearSearch()
	case msgScroll:
		s.window.Publish(events.ScrollEvent{OffsetY: msg.Offset})
	case msgNavigate:
		if msg.Value == "" {
			s.sendError("navigate requires a path")
			return
		}
		s.shell.Navigate(msg.Value)
	case msgOpenMobileMenu:
		s.shell.OpenMobileMenu()
	case msgCloseMobileMenu:
		s.shell.CloseMobileMenu()
	case msgOpenCart:
		s.shell.OpenCartModal()
	case msgCloseCart:
		s.shell.CloseCartModal()
	case msgStorage:
		s.storageChanged(ctx, msg.Value)
	default:
		s.sendError("unknown message type: " + msg.Type)
	}
}

func (s *session) storageChanged(ctx context.Context, key string) {
	if s.local {
		s.window.Publish(events.StorageEvent{Key: key})
		return
	}
	if err := s.storage.Notify(ctx, key); err != nil {
		log.Warnf("⚠️ Session %s failed to announce storage change: %v", s.id, err)
		s.window.Publish(events.StorageEvent{Key: key})
	}
}

// requestRender schedules a render. Requests arriving while one is pending
// collapse into it.
func (s *session) requestRender() {
	select {
	case s.renders <- struct{}{}:
	default:
	}
}

func (s *session) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.renders:
			if err := s.render(ctx); err != nil {
				log.Warnf("⚠️ Session %s render failed: %v", s.id, err)
				return
			}
		}
	}
}

func (s *session) render(ctx context.Context) error {
	snap := s.shell.Snapshot(ctx)
	fragments, err := surface.RenderFragments(surface.Build(snap, s.layout))
	if err != nil {
		return err
	}

	return s.write(renderMessage{
		Type:      "render",
		SessionID: s.id,
		Header:    fragments.Header,
		Desktop:   fragments.Desktop,
		Mobile:    fragments.Mobile,
		State: renderState{
			NavState:      snap.State,
			Path:          snap.Path,
			Query:         snap.Search.Query,
			CartCount:     snap.CartCount,
			WishlistCount: snap.WishlistCount,
		},
	})
}

func (s *session) sendError(content string) {
	if err := s.write(errorMessage{Type: "error", SessionID: s.id, Content: content}); err != nil {
		log.Warnf("⚠️ Session %s failed to send error: %v", s.id, err)
	}
}

func (s *session) write(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(v)
}
