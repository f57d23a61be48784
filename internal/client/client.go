package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/webostools/tvbridge/internal/keystore"
	"github.com/webostools/tvbridge/internal/logx"
	"github.com/webostools/tvbridge/internal/metrics"
	"github.com/webostools/tvbridge/internal/ssap"
)

// State of the session to the TV. Registered implies Connected.
type State int

const (
	StateDisconnected State = iota
	StateConnected
	StateRegistered
)

func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateRegistered:
		return "registered"
	default:
		return "disconnected"
	}
}

// Options configures a Client. Zero values fall back to defaults suited
// to a TV on the local network.
type Options struct {
	Addr        string // device address, also the credential key
	Port        int
	TLS         bool
	TLSInsecure bool // accept self-signed device certificates
	URL         string // overrides Addr/Port/TLS when set

	ReconnectDelay time.Duration // fixed, no backoff
	RequestTimeout time.Duration
	ReadyTimeout   time.Duration
}

func (o *Options) defaults() {
	if o.Port == 0 {
		if o.TLS {
			o.Port = 3001
		} else {
			o.Port = 3000
		}
	}
	if o.ReconnectDelay <= 0 {
		o.ReconnectDelay = time.Second
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = 5 * time.Second
	}
	if o.ReadyTimeout <= 0 {
		o.ReadyTimeout = 5 * time.Second
	}
}

// connState holds the write side of one live connection.
type connState struct {
	ctx    context.Context
	sendCh chan []byte
}

// Client maintains one persistent session to a webOS TV: the socket, the
// pairing handshake and the request/response correlation over it.
type Client struct {
	opts  Options
	store *keystore.Store

	mu      sync.Mutex
	state   State
	conn    *connState
	ready   chan struct{} // closed on reaching Registered, replaced on loss
	pending map[string]chan ssap.InboundFrame

	lastLossLog time.Time
}

const lossLogWindow = 2500 * time.Millisecond

// New builds a Client. Run must be called to establish the session.
func New(opts Options, store *keystore.Store) *Client {
	opts.defaults()
	return &Client{
		opts:    opts,
		store:   store,
		ready:   make(chan struct{}),
		pending: make(map[string]chan ssap.InboundFrame),
	}
}

// Run dials the TV and serves the session until ctx is cancelled,
// redialing after a fixed delay whenever the connection is lost.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.connectAndServe(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logLoss(err)
		metrics.IncReconnects()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.opts.ReconnectDelay):
		}
	}
}

// logLoss reports a connection loss at most once per window to keep
// flapping links from flooding the log.
func (c *Client) logLoss(err error) {
	c.mu.Lock()
	now := time.Now()
	suppress := now.Sub(c.lastLossLog) < lossLogWindow
	if !suppress {
		c.lastLossLog = now
	}
	c.mu.Unlock()
	if suppress {
		return
	}
	logx.Log.Warn().Err(err).Dur("retry_in", c.opts.ReconnectDelay).Msg("tv connection lost; retrying")
}

func (c *Client) url() string {
	if c.opts.URL != "" {
		return c.opts.URL
	}
	scheme := "ws"
	if c.opts.TLS {
		scheme = "wss"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, c.opts.Addr, c.opts.Port)
}

func (c *Client) dialOptions() *websocket.DialOptions {
	if !c.opts.TLS || !c.opts.TLSInsecure {
		return nil
	}
	// TVs ship self-signed certificates; skipping verification is an
	// explicit operator choice, not a silent default.
	return &websocket.DialOptions{
		HTTPClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
	}
}

func (c *Client) connectAndServe(ctx context.Context) error {
	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ws, _, err := websocket.Dial(connCtx, c.url(), c.dialOptions())
	if err != nil {
		return err
	}
	defer func() {
		_ = ws.Close(websocket.StatusInternalError, "closing")
	}()

	logx.Log.Info().Str("tv", c.opts.Addr).Msg("connected to tv")

	conn := &connState{ctx: connCtx, sendCh: make(chan []byte, 16)}
	go func() {
		for {
			select {
			case <-connCtx.Done():
				return
			case msg := <-conn.sendCh:
				if err := ws.Write(connCtx, websocket.MessageText, msg); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	c.setConnected(conn)
	defer c.setDisconnected()

	reg, err := c.sendRegister(conn)
	if err != nil {
		return err
	}

	for {
		_, data, err := ws.Read(connCtx)
		if err != nil {
			return err
		}
		var f ssap.InboundFrame
		if err := json.Unmarshal(data, &f); err != nil {
			logx.Log.Debug().Err(err).Msg("discarding unparsable frame")
			continue
		}
		if done, err := c.handleFrame(reg, f); err != nil {
			return err
		} else if done {
			reg = ""
		}
	}
}

// sendRegister starts the pairing handshake and returns its correlation
// id. A persisted credential is included when one exists for the device
// address.
func (c *Client) sendRegister(conn *connState) (string, error) {
	key, found, err := c.store.Load(c.opts.Addr)
	if err != nil {
		return "", err
	}
	if !found {
		logx.Log.Info().Str("tv", c.opts.Addr).Msg("no client key stored; tv will prompt for pairing")
	}
	id := newID()
	b, err := json.Marshal(ssap.OutboundFrame{
		ID:      id,
		Type:    ssap.TypeRegister,
		Payload: ssap.RegisterPayload(key),
	})
	if err != nil {
		return "", err
	}
	select {
	case conn.sendCh <- b:
		return id, nil
	case <-conn.ctx.Done():
		return "", conn.ctx.Err()
	}
}

// handleFrame routes one inbound frame. regID is the handshake id, empty
// once registration completed; done reports that this frame finished the
// handshake. Frames that match nothing are dropped.
func (c *Client) handleFrame(regID string, f ssap.InboundFrame) (bool, error) {
	switch f.Type {
	case ssap.TypeRegistered:
		var p struct {
			ClientKey string `json:"client-key"`
		}
		if len(f.Payload) > 0 {
			if err := json.Unmarshal(f.Payload, &p); err != nil {
				logx.Log.Debug().Err(err).Msg("registered frame without readable payload")
			}
		}
		if p.ClientKey != "" {
			if err := c.persistKey(p.ClientKey); err != nil {
				return false, err
			}
		}
		c.setRegistered()
		logx.Log.Info().Str("tv", c.opts.Addr).Msg("registered with tv")
		return true, nil
	case ssap.TypeResponse:
		if regID != "" && f.ID == regID {
			// Pairing prompt is on screen; a registered frame follows
			// whenever the operator confirms.
			logx.Log.Info().Str("tv", c.opts.Addr).Msg("awaiting pairing confirmation on tv")
			return false, nil
		}
		c.resolve(f)
		return false, nil
	case ssap.TypeError:
		if regID != "" && f.ID == regID {
			logx.Log.Warn().Str("reason", f.Error).Msg("tv rejected registration")
			return false, nil
		}
		c.resolve(f)
		return false, nil
	default:
		return false, nil
	}
}

func (c *Client) persistKey(key string) error {
	stored, _, err := c.store.Load(c.opts.Addr)
	if err == nil && stored == key {
		return nil
	}
	if err := c.store.Save(c.opts.Addr, key); err != nil {
		return err
	}
	logx.Log.Info().Str("tv", c.opts.Addr).Msg("client key persisted")
	return nil
}

func (c *Client) setConnected(conn *connState) {
	c.mu.Lock()
	c.state = StateConnected
	c.conn = conn
	c.mu.Unlock()
	metrics.SetConnectionState(int(StateConnected))
}

func (c *Client) setRegistered() {
	c.mu.Lock()
	if c.state != StateRegistered {
		c.state = StateRegistered
		close(c.ready)
	}
	c.mu.Unlock()
	metrics.SetConnectionState(int(StateRegistered))
}

// setDisconnected resets the session and fails every in-flight request;
// each pending channel has capacity 1 so delivery never blocks.
func (c *Client) setDisconnected() {
	c.mu.Lock()
	if c.state == StateRegistered {
		c.ready = make(chan struct{})
	}
	c.state = StateDisconnected
	c.conn = nil
	for id, ch := range c.pending {
		delete(c.pending, id)
		ch <- ssap.InboundFrame{ID: id, Type: ssap.TypeError, Error: "connection closed"}
	}
	c.mu.Unlock()
	metrics.SetConnectionState(int(StateDisconnected))
}

// State returns the current session state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Registered reports whether commands can currently be sent.
func (c *Client) Registered() bool { return c.State() == StateRegistered }

// Snapshot describes the session for the status endpoint.
type Snapshot struct {
	State   string `json:"state"`
	Device  string `json:"device"`
	Pending int    `json:"pending_requests"`
}

// Status returns a point-in-time view of the session.
func (c *Client) Status() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:   c.state.String(),
		Device:  c.opts.Addr,
		Pending: len(c.pending),
	}
}
