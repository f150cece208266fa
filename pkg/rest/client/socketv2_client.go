package client

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/inbucket/mhclient/pkg/rest/model"
)

// Watch streams messages as MailHog receives them, using the v2 websocket.  The returned channel
// is closed when ctx is cancelled or the socket closes.  Quoted-printable bodies are decoded.
func (c *Client) Watch(ctx context.Context) (<-chan *model.Message, error) {
	u := c.baseURL.JoinPath("/v2/websocket")
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("websocket for %q: %w", u, err)
	}

	slog := c.logger.With().Str("proto", "WebSocket").Str("remote", conn.RemoteAddr().String()).
		Logger()
	slog.Debug().Msg("Watching for messages")

	messages := make(chan *model.Message)
	done := make(chan struct{})

	// Unblock the reader when the caller is done.
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		_ = conn.Close()
	}()

	go func() {
		defer close(messages)
		defer close(done)
		for {
			msg := &model.Message{}
			if err := conn.ReadJSON(msg); err != nil {
				if ctx.Err() == nil && websocket.IsUnexpectedCloseError(
					err,
					websocket.CloseNormalClosure,
					websocket.CloseGoingAway,
					websocket.CloseNoStatusReceived,
				) {
					slog.Warn().Err(err).Msg("Socket error")
				} else {
					slog.Debug().Msg("Closing socket")
				}
				return
			}
			decodeBody(msg)
			select {
			case messages <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return messages, nil
}
