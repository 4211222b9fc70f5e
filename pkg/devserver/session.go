package devserver

import (
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/weft-ui/weft/internal/werrors"
	"github.com/weft-ui/weft/pkg/element"
)

// clientFrame is a message from the browser.
type clientFrame struct {
	// Type is "attr" for attribute changes.
	Type string `json:"type"`

	// Name is the attribute name.
	Name string `json:"name,omitempty"`

	// Old is the attribute's previous value, as the client saw it.
	Old string `json:"old,omitempty"`

	// Value is the attribute's new value.
	Value string `json:"value,omitempty"`
}

// serverFrame is a message to the browser.
type serverFrame struct {
	// Type is "render" or "error".
	Type string `json:"type"`

	// HTML carries the replacement fragment for render frames.
	HTML string `json:"html,omitempty"`

	// Error carries the failure text for error frames.
	Error string `json:"error,omitempty"`
}

// session drives one element instance over one WebSocket connection.
// The connection's read loop is the platform thread for the instance:
// attribute changes, and therefore re-renders, happen on it.
type session struct {
	server *Server
	conn   *websocket.Conn
	def    *element.Definition

	inst   *element.Instance
	target *RenderTarget

	observed map[string]bool

	writeMu sync.Mutex
}

// newSession creates a session for one connection.
func newSession(server *Server, conn *websocket.Conn, def *element.Definition) *session {
	observed := make(map[string]bool)
	for _, name := range def.Observed() {
		observed[name] = true
	}
	return &session{
		server:   server,
		conn:     conn,
		def:      def,
		observed: observed,
	}
}

// CreateTarget implements element.Host for the session's instance.
func (s *session) CreateTarget(elementName string, instanceID uint64) element.Target {
	s.target = &RenderTarget{
		ElementName: elementName,
		InstanceID:  instanceID,
		onRender:    s.pushRender,
	}
	return s.target
}

// run constructs the instance, delivers the connected transition, and
// services the connection until it closes.
func (s *session) run() {
	defer s.conn.Close()

	if err := s.construct(); err != nil {
		s.server.logger.Printf("construct %q: %v", s.def.Name(), err)
		s.push(serverFrame{Type: "error", Error: err.Error()})
		return
	}

	// The platform's connected transition: the socket is live.
	s.inst.Connect()

	s.readLoop()

	// Connection gone: disconnected transition, then dispose.
	s.inst.Disconnect()
	s.inst.Destroy()
}

// construct builds the instance, converting construction panics
// (factory failures, first-render failures) into errors so a broken
// element takes down one session, not the server.
func (s *session) construct() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("constructing %q: %v", s.def.Name(), r)
		}
	}()

	opts := []element.InstanceOption{}
	for _, o := range s.server.observers {
		opts = append(opts, element.WithObserver(o))
	}
	if depth := s.server.cfg.Dev.MaxUpdateDepth; depth > 0 {
		opts = append(opts, element.WithMaxUpdateDepth(depth))
	}

	s.inst, err = element.NewInstance(s.def, s, s.server.renderer, opts...)
	return err
}

// readLoop consumes client frames until the connection closes.
func (s *session) readLoop() {
	for {
		var frame clientFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				s.server.logger.Printf("session %q: read: %v", s.def.Name(), err)
			}
			return
		}

		switch frame.Type {
		case "attr":
			s.applyAttr(frame)
		default:
			s.push(serverFrame{Type: "error", Error: werrors.New("E040").
				WithDetail("unknown frame type %q", frame.Type).Error()})
		}
	}
}

// applyAttr delivers one attribute change to the instance. A render
// failure surfaces out of the write as a panic; the session reports it
// to the client and keeps the connection open, since the platform is
// free to deliver further changes.
func (s *session) applyAttr(frame clientFrame) {
	if !s.observed[frame.Name] {
		s.push(serverFrame{Type: "error", Error: werrors.New("E041").
			WithDetail("attribute %q is not observed by %q", frame.Name, s.def.Name()).Error()})
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.server.logger.Printf("render %q: %v", s.def.Name(), r)
			s.push(serverFrame{Type: "error", Error: fmt.Sprint(r)})
		}
	}()

	s.inst.AttributeChanged(frame.Name, frame.Old, frame.Value)
}

// pushRender sends a replacement fragment to the client.
func (s *session) pushRender(html string) {
	s.push(serverFrame{Type: "render", HTML: html})
}

// push writes one frame. Writes are serialized; render pushes happen
// on the read loop but error frames can race with them.
func (s *session) push(frame serverFrame) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteJSON(frame); err != nil {
		s.server.logger.Printf("session %q: write: %v", s.def.Name(), err)
	}
}
