package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/webostools/tvbridge/internal/metrics"
	"github.com/webostools/tvbridge/internal/ssap"
)

func newID() string { return uuid.NewString() }

// Request sends a command frame and waits for the response carrying the
// same correlation id. It blocks until the session is Registered, up to
// the ready timeout, then races the response against the request
// timeout. Responses arrive in any order; only the id matters.
func (c *Client) Request(ctx context.Context, uri string, payload interface{}) (json.RawMessage, error) {
	if err := c.waitReady(ctx); err != nil {
		return nil, err
	}

	id := newID()
	ch := make(chan ssap.InboundFrame, 1)

	c.mu.Lock()
	conn := c.conn
	if c.state != StateRegistered || conn == nil {
		c.mu.Unlock()
		return nil, ErrNotReady
	}
	c.pending[id] = ch
	c.mu.Unlock()

	b, err := json.Marshal(ssap.OutboundFrame{
		ID:      id,
		Type:    ssap.TypeRequest,
		URI:     ssap.URI(uri),
		Payload: payload,
	})
	if err != nil {
		c.removePending(id)
		return nil, err
	}

	start := time.Now()
	timer := time.NewTimer(c.opts.RequestTimeout)
	defer timer.Stop()

	select {
	case conn.sendCh <- b:
	case <-conn.ctx.Done():
		c.removePending(id)
		return nil, ErrClosed
	case <-ctx.Done():
		c.removePending(id)
		return nil, ctx.Err()
	case <-timer.C:
		c.removePending(id)
		return nil, ErrTimeout
	}

	select {
	case f := <-ch:
		metrics.ObserveRequest(ssap.URI(uri), f.Type != ssap.TypeError, time.Since(start))
		if f.Type == ssap.TypeError {
			if f.Error == "connection closed" {
				return nil, ErrClosed
			}
			return nil, fmt.Errorf("tv error: %s", f.Error)
		}
		return f.Payload, nil
	case <-timer.C:
		c.removePending(id)
		metrics.ObserveRequest(ssap.URI(uri), false, time.Since(start))
		return nil, ErrTimeout
	case <-ctx.Done():
		c.removePending(id)
		return nil, ctx.Err()
	}
}

// waitReady blocks until the session reaches Registered or the ready
// timeout elapses. The registration state machine closes the ready
// channel on success; the channel is replaced on connection loss, so the
// wait re-arms until the deadline.
func (c *Client) waitReady(ctx context.Context) error {
	deadline := time.NewTimer(c.opts.ReadyTimeout)
	defer deadline.Stop()
	for {
		c.mu.Lock()
		if c.state == StateRegistered {
			c.mu.Unlock()
			return nil
		}
		ready := c.ready
		c.mu.Unlock()

		select {
		case <-ready:
		case <-deadline.C:
			return ErrNotReady
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// resolve delivers an inbound frame to the matching pending request.
// Exactly one of resolve and removePending wins for a given id; the
// loser finds no entry and does nothing. Unmatched frames are dropped.
func (c *Client) resolve(f ssap.InboundFrame) {
	if f.ID == "" {
		return
	}
	c.mu.Lock()
	ch, ok := c.pending[f.ID]
	if ok {
		delete(c.pending, f.ID)
	}
	c.mu.Unlock()
	if ok {
		ch <- f
	}
}

func (c *Client) removePending(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}
