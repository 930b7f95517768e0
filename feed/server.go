// Package feed streams a running world to external renderers over WebSocket.
package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/jakecoffman/rigid"
)

const (
	// maxTicksPerFrame bounds the catch-up work after a stall.
	maxTicksPerFrame = 5
	sendBuffer       = 8
	writeWait        = time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server owns the world once Run starts. HTTP handlers never touch the world; they only
// register clients that Run broadcasts to.
type Server struct {
	world    *rigid.World
	log      *zap.Logger
	interval time.Duration

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type Option func(*Server)

func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithFrameInterval sets how often frames are rendered and sent.
func WithFrameInterval(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.interval = d
		}
	}
}

func NewServer(world *rigid.World, opts ...Option) *Server {
	s := &Server{
		world:    world,
		log:      zap.NewNop(),
		interval: time.Second / 60,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.Stringer("world", world.ID()))
	return s
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.log.Info("client connected", zap.String("remote", conn.RemoteAddr().String()))

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop discards client messages; it exists to process control frames and notice closes.
func (s *Server) readLoop(c *client) {
	defer s.drop(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.drop(c)
			_ = c.conn.Close()
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	_ = c.conn.Close()
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	_, ok := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()
	if ok {
		close(c.send)
		s.log.Info("client disconnected", zap.String("remote", c.conn.RemoteAddr().String()))
	}
}

// Broadcast sends the frame to every client. Slow clients miss frames rather than stall the loop.
func (s *Server) Broadcast(frame Frame) error {
	msg, err := json.Marshal(frame)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
	return nil
}

// Run is the real time loop: it accumulates wall time, steps the world in fixed ticks and
// broadcasts an interpolated frame every interval until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	dt := s.world.Config().FixedDT
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.closeAll()

	s.log.Info("feed running", zap.Duration("interval", s.interval), zap.Float64("fixed_dt", dt))

	last := time.Now()
	var lag float64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			lag += now.Sub(last).Seconds()
			last = now
			if lag > maxTicksPerFrame*dt {
				lag = maxTicksPerFrame * dt
			}
			for lag >= dt {
				if err := s.world.Step(dt); err != nil {
					return err
				}
				lag -= dt
			}
			if err := s.Broadcast(BuildFrame(s.world, lag/dt)); err != nil {
				s.log.Error("broadcast failed", zap.Error(err))
			}
		}
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		s.drop(c)
	}
}
