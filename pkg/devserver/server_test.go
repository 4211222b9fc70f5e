package devserver

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/weft-ui/weft/internal/werrors"
	"github.com/weft-ui/weft/pkg/element"
)

func counterDef(name string) *element.Definition {
	return element.Define(name, []string{"count"}, func(s *element.Setup) element.RenderFunc {
		props := s.Props()
		return func() any {
			v := props.Get("count")
			if v == nil {
				v = "none"
			}
			return "count: " + v.(string)
		}
	})
}

func TestRegistryDefineAndLookup(t *testing.T) {
	r := NewRegistry()

	def := counterDef("x-counter")
	if err := def.Register(r); err != nil {
		t.Fatalf("define: %v", err)
	}
	if r.Lookup("x-counter") != def {
		t.Error("lookup should return the registered definition")
	}
	if r.Lookup("x-missing") != nil {
		t.Error("lookup of unknown name should return nil")
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry()

	if err := counterDef("x-dup").Register(r); err != nil {
		t.Fatalf("first define: %v", err)
	}

	err := counterDef("x-dup").Register(r)
	if err == nil {
		t.Fatal("expected duplicate-definition error")
	}
	var we *werrors.Error
	if !errors.As(err, &we) || we.Code != "E020" {
		t.Errorf("expected E020, got %v", err)
	}
}

func TestRegistryRejectsEmptyName(t *testing.T) {
	r := NewRegistry()

	err := counterDef("").Register(r)
	var we *werrors.Error
	if !errors.As(err, &we) || we.Code != "E021" {
		t.Errorf("expected E021, got %v", err)
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"x-c", "x-a", "x-b"} {
		if err := counterDef(name).Register(r); err != nil {
			t.Fatalf("define %q: %v", name, err)
		}
	}

	names := r.Names()
	if len(names) != 3 || names[0] != "x-a" || names[1] != "x-b" || names[2] != "x-c" {
		t.Errorf("expected sorted names, got %v", names)
	}
}

func TestRenderHTML(t *testing.T) {
	tests := []struct {
		name string
		desc any
		want string
	}{
		{"nil", nil, ""},
		{"string escaped", "<b>hi</b>", "&lt;b&gt;hi&lt;/b&gt;"},
		{"htmler trusted", rawHTML("<b>hi</b>"), "<b>hi</b>"},
		{"int", 42, "42"},
		{"stringer escaped", stringer("a<b"), "a&lt;b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderHTML(tt.desc); got != tt.want {
				t.Errorf("RenderHTML(%v) = %q, want %q", tt.desc, got, tt.want)
			}
		})
	}
}

type rawHTML string

func (r rawHTML) HTML() string { return string(r) }

type stringer string

func (s stringer) String() string { return string(s) }

func newTestServer(t *testing.T, names ...string) (*Server, *httptest.Server) {
	t.Helper()

	reg := NewRegistry()
	for _, name := range names {
		if err := counterDef(name).Register(reg); err != nil {
			t.Fatalf("define %q: %v", name, err)
		}
	}

	srv := NewServer(reg)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return srv, ts
}

func TestIndexListsElements(t *testing.T) {
	_, ts := newTestServer(t, "x-one", "x-two")

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get index: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"x-one", "x-two"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("index should list %q, got:\n%s", want, body)
		}
	}
}

func TestElementPage(t *testing.T) {
	_, ts := newTestServer(t, "x-page")

	resp, err := http.Get(ts.URL + "/elements/x-page")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "weft-root") {
		t.Error("page should contain the render root")
	}
	if !strings.Contains(string(body), "count") {
		t.Error("page should list the observed attribute")
	}
}

func TestElementPageUnknownName(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/elements/x-ghost")
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestMetricsRoute(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics enabled by default, expected 200, got %d", resp.StatusCode)
	}
}

func dialWS(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) serverFrame {
	t.Helper()

	var frame serverFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func TestWebSocketSessionRendersAndUpdates(t *testing.T) {
	_, ts := newTestServer(t, "x-live")

	conn := dialWS(t, ts, "/ws/x-live")

	// Construction renders once, before any attribute arrives.
	frame := readFrame(t, conn)
	if frame.Type != "render" || !strings.Contains(frame.HTML, "count: none") {
		t.Fatalf("expected initial render frame, got %+v", frame)
	}

	// An observed attribute change re-renders.
	if err := conn.WriteJSON(clientFrame{Type: "attr", Name: "count", Value: "3"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	frame = readFrame(t, conn)
	if frame.Type != "render" || !strings.Contains(frame.HTML, "count: 3") {
		t.Fatalf("expected updated render frame, got %+v", frame)
	}
}

func TestWebSocketRejectsUnobservedAttribute(t *testing.T) {
	_, ts := newTestServer(t, "x-strict")

	conn := dialWS(t, ts, "/ws/x-strict")
	_ = readFrame(t, conn) // initial render

	if err := conn.WriteJSON(clientFrame{Type: "attr", Name: "rogue", Value: "1"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	frame := readFrame(t, conn)
	if frame.Type != "error" || !strings.Contains(frame.Error, "E041") {
		t.Fatalf("expected E041 error frame, got %+v", frame)
	}
}

func TestWebSocketRejectsUnknownFrameType(t *testing.T) {
	_, ts := newTestServer(t, "x-proto")

	conn := dialWS(t, ts, "/ws/x-proto")
	_ = readFrame(t, conn) // initial render

	if err := conn.WriteJSON(clientFrame{Type: "bogus"}); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	frame := readFrame(t, conn)
	if frame.Type != "error" || !strings.Contains(frame.Error, "E040") {
		t.Fatalf("expected E040 error frame, got %+v", frame)
	}
}

func TestWebSocketUnknownElement(t *testing.T) {
	_, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/x-ghost"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown element")
	}
	if resp != nil && resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}
