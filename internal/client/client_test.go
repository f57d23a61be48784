package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/webostools/tvbridge/internal/keystore"
	"github.com/webostools/tvbridge/internal/ssap"
)

type outFrame struct {
	ID      string                 `json:"id"`
	Type    string                 `json:"type"`
	URI     string                 `json:"uri"`
	Payload map[string]interface{} `json:"payload"`
}

type fakeTV struct {
	srv    *httptest.Server
	connCh chan *websocket.Conn
}

func newFakeTV(t *testing.T) *fakeTV {
	t.Helper()
	f := &fakeTV{connCh: make(chan *websocket.Conn, 4)}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		f.connCh <- c
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeTV) url() string { return "ws://" + f.srv.Listener.Addr().String() }

func (f *fakeTV) conn(t *testing.T) *websocket.Conn {
	t.Helper()
	select {
	case c := <-f.connCh:
		return c
	case <-time.After(2 * time.Second):
		t.Fatalf("no connection from client")
		return nil
	}
}

func readFrame(t *testing.T, c *websocket.Conn) outFrame {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var f outFrame
	if err := json.Unmarshal(data, &f); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	return f
}

func writeJSON(t *testing.T, c *websocket.Conn, v interface{}) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Write(ctx, websocket.MessageText, b); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func startClient(t *testing.T, url, addr string, store *keystore.Store) *Client {
	t.Helper()
	c := New(Options{
		Addr:           addr,
		URL:            url,
		ReconnectDelay: 20 * time.Millisecond,
		RequestTimeout: 500 * time.Millisecond,
		ReadyTimeout:   500 * time.Millisecond,
	}, store)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = c.Run(ctx) }()
	return c
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting: %s", msg)
}

func TestPairingHandshakePersistsKey(t *testing.T) {
	tv := newFakeTV(t)
	store := keystore.New(t.TempDir())
	c := startClient(t, tv.url(), "10.0.0.5", store)

	conn := tv.conn(t)
	reg := readFrame(t, conn)
	if reg.Type != ssap.TypeRegister {
		t.Fatalf("expected register frame, got %q", reg.Type)
	}
	if _, ok := reg.Payload["client-key"]; ok {
		t.Fatalf("first pairing must not carry a client key")
	}

	// Pairing prompt first, confirmation later.
	writeJSON(t, conn, map[string]interface{}{
		"id": reg.ID, "type": "response",
		"payload": map[string]string{"pairingType": "PROMPT"},
	})
	writeJSON(t, conn, map[string]interface{}{
		"id": reg.ID, "type": "registered",
		"payload": map[string]string{"client-key": "ABC123"},
	})

	waitFor(t, c.Registered, "client registered")
	key, found, err := store.Load("10.0.0.5")
	if err != nil || !found {
		t.Fatalf("expected stored key, found=%v err=%v", found, err)
	}
	if key != "ABC123" {
		t.Fatalf("stored key = %q, want ABC123", key)
	}
}

func TestRegisterIncludesStoredKey(t *testing.T) {
	tv := newFakeTV(t)
	store := keystore.New(t.TempDir())
	if err := store.Save("10.0.0.5", "OLDKEY"); err != nil {
		t.Fatalf("save: %v", err)
	}
	c := startClient(t, tv.url(), "10.0.0.5", store)

	conn := tv.conn(t)
	reg := readFrame(t, conn)
	if got := reg.Payload["client-key"]; got != "OLDKEY" {
		t.Fatalf("client-key = %v, want OLDKEY", got)
	}
	writeJSON(t, conn, map[string]interface{}{"id": reg.ID, "type": "registered"})
	waitFor(t, c.Registered, "client registered")
}

func register(t *testing.T, tv *fakeTV, c *Client) *websocket.Conn {
	t.Helper()
	conn := tv.conn(t)
	reg := readFrame(t, conn)
	writeJSON(t, conn, map[string]interface{}{
		"id": reg.ID, "type": "registered",
		"payload": map[string]string{"client-key": "KEY"},
	})
	waitFor(t, c.Registered, "client registered")
	return conn
}

func TestConcurrentRequestsResolveByID(t *testing.T) {
	tv := newFakeTV(t)
	c := startClient(t, tv.url(), "10.0.0.5", keystore.New(t.TempDir()))
	conn := register(t, tv, c)

	uris := []string{"test/one", "test/two"}
	results := make([]json.RawMessage, len(uris))
	errs := make([]error, len(uris))
	var wg sync.WaitGroup
	for i, uri := range uris {
		wg.Add(1)
		go func(i int, uri string) {
			defer wg.Done()
			results[i], errs[i] = c.Request(context.Background(), uri, nil)
		}(i, uri)
	}

	// Collect both requests, answer them in reverse order.
	frames := []outFrame{readFrame(t, conn), readFrame(t, conn)}
	for i := len(frames) - 1; i >= 0; i-- {
		writeJSON(t, conn, map[string]interface{}{
			"id": frames[i].ID, "type": "response",
			"payload": map[string]string{"uri": frames[i].URI},
		})
	}
	wg.Wait()

	for i, uri := range uris {
		if errs[i] != nil {
			t.Fatalf("request %s: %v", uri, errs[i])
		}
		var p struct {
			URI string `json:"uri"`
		}
		if err := json.Unmarshal(results[i], &p); err != nil {
			t.Fatalf("decode result: %v", err)
		}
		if p.URI != ssap.URI(uri) {
			t.Fatalf("request %s resolved with payload for %s", uri, p.URI)
		}
	}
}

func TestRequestTimeoutRemovesPending(t *testing.T) {
	tv := newFakeTV(t)
	c := startClient(t, tv.url(), "10.0.0.5", keystore.New(t.TempDir()))
	conn := register(t, tv, c)

	start := time.Now()
	_, err := c.Request(context.Background(), "test/slow", nil)
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if elapsed := time.Since(start); elapsed < 400*time.Millisecond {
		t.Fatalf("timed out too early: %v", elapsed)
	}
	if got := c.Status().Pending; got != 0 {
		t.Fatalf("pending = %d after timeout, want 0", got)
	}

	// A late response for the timed-out id must be a no-op.
	f := readFrame(t, conn)
	writeJSON(t, conn, map[string]interface{}{
		"id": f.ID, "type": "response",
		"payload": map[string]bool{"returnValue": true},
	})
	time.Sleep(100 * time.Millisecond)
	if got := c.Status().Pending; got != 0 {
		t.Fatalf("pending = %d after late response, want 0", got)
	}
}

func TestRequestBeforeRegistrationFailsNotReady(t *testing.T) {
	tv := newFakeTV(t)
	c := startClient(t, tv.url(), "10.0.0.5", keystore.New(t.TempDir()))
	conn := tv.conn(t)
	_ = readFrame(t, conn) // swallow register, never confirm

	_, err := c.Request(context.Background(), "test/early", nil)
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
}

func TestMalformedFramesAreIgnored(t *testing.T) {
	tv := newFakeTV(t)
	c := startClient(t, tv.url(), "10.0.0.5", keystore.New(t.TempDir()))

	conn := tv.conn(t)
	reg := readFrame(t, conn)
	ctx := context.Background()
	if err := conn.Write(ctx, websocket.MessageText, []byte("not json at all")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	writeJSON(t, conn, map[string]interface{}{"id": reg.ID, "type": "registered"})
	waitFor(t, c.Registered, "client registered despite garbage")

	go func() {
		f := readFrame(t, conn)
		writeJSON(t, conn, map[string]interface{}{
			"id": f.ID, "type": "response",
			"payload": map[string]bool{"returnValue": true},
		})
	}()
	if _, err := c.Request(ctx, "test/after", nil); err != nil {
		t.Fatalf("request after garbage: %v", err)
	}
}

func TestReconnectAfterConnectionLoss(t *testing.T) {
	tv := newFakeTV(t)
	c := startClient(t, tv.url(), "10.0.0.5", keystore.New(t.TempDir()))
	conn := register(t, tv, c)

	_ = conn.Close(websocket.StatusGoingAway, "tv going to sleep")
	waitFor(t, func() bool { return !c.Registered() }, "client saw the loss")

	conn2 := tv.conn(t)
	reg := readFrame(t, conn2)
	if reg.Type != ssap.TypeRegister {
		t.Fatalf("expected fresh handshake after reconnect, got %q", reg.Type)
	}
	if got := reg.Payload["client-key"]; got != "KEY" {
		t.Fatalf("reconnect handshake client-key = %v, want KEY", got)
	}
	writeJSON(t, conn2, map[string]interface{}{"id": reg.ID, "type": "registered"})
	waitFor(t, c.Registered, "client registered again")
}

func TestDeviceErrorFrameFailsRequest(t *testing.T) {
	tv := newFakeTV(t)
	c := startClient(t, tv.url(), "10.0.0.5", keystore.New(t.TempDir()))
	conn := register(t, tv, c)

	go func() {
		f := readFrame(t, conn)
		writeJSON(t, conn, map[string]interface{}{
			"id": f.ID, "type": "error", "error": "404 no such service",
		})
	}()
	_, err := c.Request(context.Background(), "test/missing", nil)
	if err == nil || errors.Is(err, ErrTimeout) {
		t.Fatalf("err = %v, want device error", err)
	}
}
