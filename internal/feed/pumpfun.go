package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"memescout-go/internal/token"
)

const (
	defaultCollectWindow  = 3 * time.Second
	defaultMaxEvents      = 64
	pumpfunHandshakeLimit = 10 * time.Second
)

// Pumpfun subscribes to a pump.fun-style websocket stream and collects the
// new-token events that arrive inside a bounded window. The window expiring
// is the normal end of a fetch, not a failure.
type Pumpfun struct {
	wsURL         string
	collectWindow time.Duration
	maxEvents     int
	log           zerolog.Logger
}

type pumpfunEvent struct {
	Type   string `json:"txType"`
	Mint   string `json:"mint"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// NewPumpfun constructs the websocket adapter.
func NewPumpfun(wsURL string, collectWindowMs, maxEvents int, log zerolog.Logger) *Pumpfun {
	window := defaultCollectWindow
	if collectWindowMs > 0 {
		window = time.Duration(collectWindowMs) * time.Millisecond
	}
	if maxEvents <= 0 {
		maxEvents = defaultMaxEvents
	}
	return &Pumpfun{wsURL: wsURL, collectWindow: window, maxEvents: maxEvents, log: log}
}

// Name returns the provenance tag this adapter stamps on candidates.
func (p *Pumpfun) Name() token.Source { return token.SourcePumpfun }

// Fetch dials the stream, subscribes to token creation events, and returns
// whatever arrived before the collect window closed.
func (p *Pumpfun) Fetch(ctx context.Context) ([]token.Candidate, error) {
	dialer := websocket.Dialer{HandshakeTimeout: pumpfunHandshakeLimit}
	conn, _, err := dialer.DialContext(ctx, p.wsURL, nil)
	if err != nil {
		return nil, transientErr(p.Name(), fmt.Errorf("dial: %w", err))
	}
	defer conn.Close()

	sub := map[string]string{"method": "subscribeNewToken"}
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(sub); err != nil {
		return nil, transientErr(p.Name(), fmt.Errorf("subscribe: %w", err))
	}

	deadline := time.Now().Add(p.collectWindow)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	conn.SetReadLimit(1 << 20)

	out := make([]token.Candidate, 0, p.maxEvents)
	for len(out) < p.maxEvents {
		if ctx.Err() != nil {
			return nil, transientErr(p.Name(), ctx.Err())
		}
		conn.SetReadDeadline(deadline)
		_, message, err := conn.ReadMessage()
		if err != nil {
			// Window expiry surfaces as a read timeout; the batch so far
			// is the fetch result.
			if isDeadlineExceeded(err) {
				return out, nil
			}
			if len(out) > 0 {
				p.log.Warn().Err(err).Msg("pumpfun stream closed mid-window, keeping partial batch")
				return out, nil
			}
			return nil, transientErr(p.Name(), fmt.Errorf("read: %w", err))
		}

		var event pumpfunEvent
		if err := json.Unmarshal(message, &event); err != nil {
			p.log.Warn().Err(err).Msg("failed to decode pumpfun message")
			continue
		}
		if event.Type != "" && event.Type != "create" {
			continue
		}
		cand := token.Candidate{
			Sources:      []token.Source{p.Name()},
			Name:         event.Name,
			Symbol:       event.Symbol,
			Contract:     event.Mint,
			DiscoveredAt: time.Now().UTC(),
		}
		if err := cand.Normalize(); err != nil {
			continue
		}
		out = append(out, cand)
	}
	return out, nil
}

func isDeadlineExceeded(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded)
}
