package famclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ecofamily/famsync/internal/types"
)

// HTTPGateway talks to a famsync server over HTTP, with websockets for the
// change subscription.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	dialer  *websocket.Dialer
}

// NewHTTPGateway creates a gateway against the given base URL
// (e.g. http://localhost:8080).
func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		dialer: &websocket.Dialer{
			HandshakeTimeout: timeout,
		},
	}
}

func (g *HTTPGateway) familyURL(code, suffix string) string {
	return g.baseURL + "/api/v1/families/" + code + suffix
}

// Exists reports whether the namespace holds a document.
func (g *HTTPGateway) Exists(ctx context.Context, code string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.familyURL(code, ""), nil)
	if err != nil {
		return false, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer drain(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("%w: existence check returned %d", ErrTransport, resp.StatusCode)
	}
}

// CreateFamily claims the namespace and writes a fresh document.
func (g *HTTPGateway) CreateFamily(ctx context.Context, code string, data types.SharedData) error {
	// The server seeds the default document itself; the data argument is
	// written explicitly afterwards only when it differs from the default.
	body, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/v1/families", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer drain(resp.Body)

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		return ErrConflict
	default:
		return fmt.Errorf("%w: create returned %d", ErrTransport, resp.StatusCode)
	}
}

// ReadDocument returns the namespace's document, or ErrNotFound.
func (g *HTTPGateway) ReadDocument(ctx context.Context, code string) (*types.SharedData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.familyURL(code, "/data"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer drain(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		var data types.SharedData
		if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
			return nil, fmt.Errorf("%w: decode document: %v", ErrTransport, err)
		}
		return &data, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("%w: read returned %d", ErrTransport, resp.StatusCode)
	}
}

// WriteDocument replaces the namespace's document wholesale.
func (g *HTTPGateway) WriteDocument(ctx context.Context, code string, data types.SharedData) error {
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.familyURL(code, "/data"), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer drain(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("%w: write returned %d", ErrTransport, resp.StatusCode)
	}
}

// Subscribe opens a websocket and pumps pushed documents into onChange until
// the subscription is torn down or the connection drops.
func (g *HTTPGateway) Subscribe(ctx context.Context, code string, onChange func(types.SharedData)) (Subscription, error) {
	wsURL := g.familyURL(code, "/subscribe")
	switch {
	case strings.HasPrefix(wsURL, "https"):
		wsURL = "wss" + strings.TrimPrefix(wsURL, "https")
	case strings.HasPrefix(wsURL, "http"):
		wsURL = "ws" + strings.TrimPrefix(wsURL, "http")
	}

	conn, resp, err := g.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if resp != nil {
			drain(resp.Body)
			if resp.StatusCode == http.StatusNotFound {
				return nil, ErrNotFound
			}
		}
		return nil, fmt.Errorf("%w: subscribe: %v", ErrTransport, err)
	}

	sub := &wsSubscription{conn: conn}
	go sub.pump(code, onChange)
	return sub, nil
}

type wsSubscription struct {
	conn *websocket.Conn
	once sync.Once
}

func (s *wsSubscription) pump(code string, onChange func(types.SharedData)) {
	for {
		var doc types.SharedData
		if err := s.conn.ReadJSON(&doc); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("subscription closed", "code", code, "error", err)
			}
			return
		}
		onChange(doc)
	}
}

// Unsubscribe closes the websocket; the pump goroutine exits on the next
// read. Safe to call more than once.
func (s *wsSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		s.conn.Close()
	})
}

func drain(body io.ReadCloser) {
	io.Copy(io.Discard, body)
	body.Close()
}
