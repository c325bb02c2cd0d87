package stream

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/onsi/gomega"

	"github.com/san-kum/neonscene/internal/config"
	"github.com/san-kum/neonscene/internal/logging"
)

func startServer(t *testing.T) (*Server, string) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Seed = 5
	cfg.FrameRate = 120
	srv := NewServer(*cfg, logging.Nop())

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil reads messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) ServerMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var m ServerMessage
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("waiting for %s: %v", typ, err)
		}
		if m.Type == typ {
			return m
		}
	}
}

func TestSession_HelloAndFrames(t *testing.T) {
	g := NewWithT(t)
	srv, url := startServer(t)
	conn := dial(t, url+"?width=400")

	hello := readUntil(t, conn, TypeHello)
	g.Expect(hello.Session).NotTo(BeEmpty())
	g.Expect(hello.Compact).To(BeTrue())
	g.Expect(srv.Sessions()).To(Equal(1))

	first := readUntil(t, conn, TypeFrame)
	second := readUntil(t, conn, TypeFrame)
	g.Expect(first.Frame).NotTo(BeNil())
	g.Expect(second.Frame.Index).To(BeNumerically(">", first.Frame.Index))
	g.Expect(first.Frame.Particles).To(HaveLen(90))
}

func TestSession_PointerMoves(t *testing.T) {
	g := NewWithT(t)
	_, url := startServer(t)
	conn := dial(t, url)
	readUntil(t, conn, TypeHello)

	g.Expect(conn.WriteJSON(ClientMessage{Type: TypeViewport, Width: 800, Height: 600})).To(Succeed())
	g.Expect(conn.WriteJSON(ClientMessage{Type: TypePointer, X: 600, Y: 150})).To(Succeed())

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		f := readUntil(t, conn, TypeFrame).Frame
		if f.Pointer.X == 0.5 && f.Pointer.Y == 0.5 {
			return
		}
	}
	t.Fatal("expected a frame with the pointer at (0.5, 0.5)")
}

func TestSession_TuneErrors(t *testing.T) {
	g := NewWithT(t)
	_, url := startServer(t)
	conn := dial(t, url)
	readUntil(t, conn, TypeHello)

	g.Expect(conn.WriteJSON(ClientMessage{Type: TypeTune, Name: "vortex_strength", Value: 9})).To(Succeed())
	m := readUntil(t, conn, TypeError)
	g.Expect(m.Error).To(ContainSubstring("parameter out of valid bounds"))

	g.Expect(conn.WriteMessage(websocket.TextMessage, []byte("{"))).To(Succeed())
	m = readUntil(t, conn, TypeError)
	g.Expect(m.Error).To(ContainSubstring("malformed"))

	g.Expect(conn.WriteJSON(ClientMessage{Type: "warp"})).To(Succeed())
	m = readUntil(t, conn, TypeError)
	g.Expect(m.Error).To(ContainSubstring("unknown message type"))
}

func TestSession_TeardownOnDisconnect(t *testing.T) {
	srv, url := startServer(t)
	conn := dial(t, url)
	readUntil(t, conn, TypeHello)

	g := NewWithT(t)
	g.Expect(srv.Sessions()).To(Equal(1))
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	g.Eventually(srv.Sessions, 5*time.Second, 10*time.Millisecond).Should(BeZero())
}
