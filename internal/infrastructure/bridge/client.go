package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Payload holds the typed fields of a successful bridge response, with the
// "ok" flag already stripped.
type Payload map[string]any

// Args holds the named arguments of a bridge call.
type Args map[string]any

// Client talks to the host surface over a unix domain socket using the
// POST /rpc/{method} -> {ok, ...payload} convention.
//
// Availability is re-probed on every call rather than cached: the host may
// attach after the client has already started.
type Client struct {
	socketPath string
	httpClient *http.Client
	logger     zerolog.Logger
}

// New creates a bridge client for the socket at socketPath. The socket does
// not need to exist yet.
func New(socketPath string, logger zerolog.Logger) *Client {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
	}
	return &Client{
		socketPath: socketPath,
		httpClient: &http.Client{Transport: transport},
		logger:     logger.With().Str("component", "bridge").Logger(),
	}
}

// Available reports whether a host surface currently exists. It is a
// synchronous, side-effect-free probe and never returns an error.
func (c *Client) Available() bool {
	info, err := os.Stat(c.socketPath)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSocket != 0
}

// Call invokes a host method with named arguments. A nil args map is sent as
// an empty object.
func (c *Client) Call(ctx context.Context, method string, args Args) (Payload, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}
	if args == nil {
		args = Args{}
	}

	body, err := json.Marshal(args)
	if err != nil {
		return nil, &CallError{Method: method, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://bridge/rpc/"+method, bytes.NewReader(body))
	if err != nil {
		return nil, &CallError{Method: method, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CallError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	ok, exists := raw["ok"].(bool)
	if !exists {
		return nil, fmt.Errorf("%w: missing ok flag", ErrInvalidResponse)
	}
	if !ok {
		code, _ := raw["error"].(string)
		return nil, &CallError{Method: method, Code: code}
	}

	delete(raw, "ok")
	return Payload(raw), nil
}

// WaitReady polls the host ping method with exponential backoff until it
// answers or the timeout lapses.
func (c *Client) WaitReady(ctx context.Context, timeout time.Duration) bool {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 50 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = timeout

	err := backoff.Retry(func() error {
		if _, err := c.Call(ctx, "ping", nil); err != nil {
			return err
		}
		return nil
	}, backoff.WithContext(b, ctx))

	return err == nil
}

// Watch polls availability in the background and invokes onAvailable each
// time detection flips from unavailable to available. It returns immediately;
// the watcher stops when ctx is cancelled.
func (c *Client) Watch(ctx context.Context, interval time.Duration, onAvailable func()) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		last := c.Available()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				now := c.Available()
				if now && !last {
					c.logger.Info().Str("socket", c.socketPath).Msg("bridge became available")
					onAvailable()
				}
				last = now
			}
		}
	}()
}
