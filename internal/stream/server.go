// Package stream serves live scenes over websocket. Every connection gets
// its own Scene; the browser sends pointer, viewport, activation and tuning
// messages and receives one JSON frame per tick.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/neonscene/internal/config"
	"github.com/san-kum/neonscene/internal/engine"
	"github.com/san-kum/neonscene/internal/logging"
)

const (
	writeWait   = 5 * time.Second
	outboxDepth = 16
)

type Server struct {
	cfg      config.Config
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*session
}

func NewServer(cfg config.Config, log *zap.Logger) *Server {
	return &Server{
		cfg: cfg,
		log: logging.OrNop(log),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		sessions: make(map[string]*session),
	}
}

// Handler routes /ws to the session handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// ListenAndServe serves until ctx is done, then shuts down and closes every
// live session.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info("stream listening", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.closeAll()
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return err
}

// Sessions is the number of live connections.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) closeAll() {
	s.mu.Lock()
	live := make([]*session, 0, len(s.sessions))
	for _, ss := range s.sessions {
		live = append(live, ss)
	}
	s.mu.Unlock()
	for _, ss := range live {
		_ = ss.conn.Close()
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg
	if width, err := strconv.Atoi(r.URL.Query().Get("width")); err == nil {
		cfg.Compact = config.IsCompact(width)
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.Error(err))
		return
	}

	id := uuid.NewString()
	log := s.log.With(zap.String("session", id))

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	sc, err := engine.New(&cfg, rand.New(rand.NewSource(seed)), log)
	if err != nil {
		log.Error("scene build failed", zap.Error(err))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error()))
		_ = conn.Close()
		return
	}

	ss := newSession(id, conn, sc, log)
	s.mu.Lock()
	s.sessions[id] = ss
	s.mu.Unlock()
	log.Info("session opened", zap.String("remote", conn.RemoteAddr().String()), zap.Bool("compact", cfg.Compact))

	err = ss.run(r.Context(), cfg.FrameRate)

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	log.Info("session closed", zap.NamedError("cause", err))
}

type session struct {
	id   string
	conn *websocket.Conn
	sc   *engine.Scene
	log  *zap.Logger
	out  chan ServerMessage

	viewW, viewH float64
}

func newSession(id string, conn *websocket.Conn, sc *engine.Scene, log *zap.Logger) *session {
	ss := &session{
		id:   id,
		conn: conn,
		sc:   sc,
		log:  log,
		out:  make(chan ServerMessage, outboxDepth),
	}
	sc.OnActivate(func() { ss.send(ServerMessage{Type: TypeActivated}) })
	return ss
}

// send queues an event for the writer, dropping it when the outbox is full.
func (ss *session) send(m ServerMessage) {
	select {
	case ss.out <- m:
	default:
		ss.log.Debug("outbox full, event dropped", zap.String("type", m.Type))
	}
}

// run pumps frames until either side fails. Returning from run always
// closes the scene and the connection together.
func (ss *session) run(ctx context.Context, frameRate float64) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ss.readLoop() })
	g.Go(func() error { return ss.writeLoop(ctx, frameRate) })

	// unblock the reader once the writer stops
	go func() {
		<-ctx.Done()
		_ = ss.conn.Close()
	}()

	err := g.Wait()
	_ = ss.sc.Close()
	_ = ss.conn.Close()
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return nil
	}
	return err
}

func (ss *session) readLoop() error {
	for {
		_, data, err := ss.conn.ReadMessage()
		if err != nil {
			return err
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			ss.send(ServerMessage{Type: TypeError, Error: "malformed message: " + err.Error()})
			continue
		}
		ss.handle(msg)
	}
}

func (ss *session) handle(msg ClientMessage) {
	switch msg.Type {
	case TypeViewport:
		if msg.Width > 0 && msg.Height > 0 {
			ss.viewW, ss.viewH = msg.Width, msg.Height
			ss.sc.SetViewport(msg.Width, msg.Height)
		}
	case TypePointer:
		if ss.viewW > 0 && ss.viewH > 0 {
			ss.sc.Pointer().Move(msg.X, msg.Y, ss.viewW, ss.viewH)
		}
	case TypePointerNDC:
		ss.sc.Pointer().Set(msg.Pointer())
	case TypeActivate:
		ss.sc.Activate(ss.sc.Pointer().State())
	case TypeTune:
		if err := ss.sc.Tune(msg.Name, msg.Value); err != nil {
			ss.send(ServerMessage{Type: TypeError, Error: err.Error()})
		}
	default:
		ss.send(ServerMessage{Type: TypeError, Error: "unknown message type " + strconv.Quote(msg.Type)})
	}
}

func (ss *session) writeLoop(ctx context.Context, frameRate float64) error {
	clock := engine.NewClock(frameRate)
	ticker := time.NewTicker(time.Duration(clock.Dt() * float64(time.Second)))
	defer ticker.Stop()

	cfg := ss.sc.Config()
	if err := ss.write(ServerMessage{Type: TypeHello, Session: ss.id, Compact: cfg.Compact, FrameRate: cfg.FrameRate}); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			_ = ss.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return ctx.Err()
		case m := <-ss.out:
			if err := ss.write(m); err != nil {
				return err
			}
		case <-ticker.C:
			// the reader may tune the scene while this frame is encoded
			f := ss.sc.StepCopy(clock.Next())
			if f == nil {
				return nil
			}
			if err := ss.write(ServerMessage{Type: TypeFrame, Frame: f}); err != nil {
				return err
			}
		}
	}
}

func (ss *session) write(m ServerMessage) error {
	_ = ss.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return ss.conn.WriteJSON(m)
}
