// Package client provides a REST client for MailHog, with helpers for end-to-end tests that need
// to inspect captured email.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/inbucket/mhclient/pkg/rest/model"
	"github.com/inbucket/mhclient/pkg/stringutil"
	"github.com/rs/zerolog"
)

// ErrNoBaseURL is returned by New when no MailHog API URL has been configured.
var ErrNoBaseURL = errors.New(
	"mailhog base URL is empty; expected a URL to its API endpoint, e.g. http://localhost:8025/api")

// Client accesses the MailHog REST API
type Client struct {
	restClient
	logger   zerolog.Logger
	reporter Reporter
}

// New creates a new REST API client given the base URL of the MailHog API, ex:
// "http://localhost:8025/api"
func New(baseURL string, opts ...func(*ClientOptions)) (*Client, error) {
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	options := getDefaultClientOptions()
	for _, opt := range opts {
		opt(options)
	}

	logger := options.getLogger()
	reporter := options.reporter
	if reporter == nil {
		reporter = &logReporter{logger: logger}
	}

	c := &Client{
		restClient: restClient{
			client: &http.Client{
				Transport: options.transport,
				Timeout:   options.timeout,
			},
			baseURL: parsedURL,
		},
		logger:   logger,
		reporter: reporter,
	}
	return c, nil
}

// DeleteAllEmails deletes every message held by MailHog.
func (c *Client) DeleteAllEmails(ctx context.Context) error {
	c.logger.Debug().Msg("Deleting all messages")
	return c.doExpect(ctx, "DELETE", "/v1/messages")
}

// DeleteEmail deletes a single message given its ID.
func (c *Client) DeleteEmail(ctx context.Context, id string) error {
	c.logger.Debug().Str("id", id).Msg("Deleting message")
	return c.doExpect(ctx, "DELETE", messageURI(id))
}

// GetEmail returns a single message given its ID.  Quoted-printable bodies are decoded.
func (c *Client) GetEmail(ctx context.Context, id string) (*model.Message, error) {
	// MailHog serves this endpoint as text, so the body is decoded here rather than trusting
	// the response content type.
	uri := messageURI(id)
	body, err := c.doText(ctx, "GET", uri, "text/json")
	if err != nil {
		return nil, err
	}
	message := &model.Message{}
	if err := json.Unmarshal(body, message); err != nil {
		return nil, fmt.Errorf("GET for %q, decoding JSON: %w", uri, err)
	}
	decodeBody(message)
	return message, nil
}

// DownloadEmail returns the raw RFC 5322 source of a message given its ID.
func (c *Client) DownloadEmail(ctx context.Context, id string) (*bytes.Buffer, error) {
	body, err := c.doText(ctx, "GET", messageURI(id)+"/download", "")
	if err != nil {
		return nil, err
	}
	return bytes.NewBuffer(body), nil
}

func messageURI(id string) string {
	return "/v1/messages/" + url.PathEscape(id)
}

// decodeBody decodes a quoted-printable message body in place.
func decodeBody(m *model.Message) {
	if m.Content == nil || m.Content.Body == "" || !m.IsQuotedPrintable() {
		return
	}
	m.Content.Body = stringutil.DecodeQuotedPrintable(m.Content.Body)
}
