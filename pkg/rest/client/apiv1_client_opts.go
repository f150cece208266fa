package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ClientOptions is a struct that holds the options for the client
type ClientOptions struct {
	transport http.RoundTripper
	timeout   time.Duration
	logger    *zerolog.Logger
	reporter  Reporter
}

// getDefaultClientOptions returns the default options for the client
func getDefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		timeout: 30 * time.Second,
	}
}

// WithClientOptsTransport returns a function that sets the transport object
func WithClientOptsTransport(transport http.RoundTripper) func(*ClientOptions) {
	return func(options *ClientOptions) {
		options.transport = transport
	}
}

// WithClientOptsTimeout returns a function that sets the HTTP request timeout.  Zero disables
// the timeout.
func WithClientOptsTimeout(timeout time.Duration) func(*ClientOptions) {
	return func(options *ClientOptions) {
		options.timeout = timeout
	}
}

// WithClientOptsLogger returns a function that sets the logger used by the client.  Defaults to
// the global zerolog logger.
func WithClientOptsLogger(logger zerolog.Logger) func(*ClientOptions) {
	return func(options *ClientOptions) {
		options.logger = &logger
	}
}

// WithClientOptsReporter returns a function that sets where assertion failures are reported,
// typically a *testing.T.  Defaults to logging a warning.
func WithClientOptsReporter(reporter Reporter) func(*ClientOptions) {
	return func(options *ClientOptions) {
		options.reporter = reporter
	}
}

func (o *ClientOptions) getLogger() zerolog.Logger {
	l := log.Logger
	if o.logger != nil {
		l = *o.logger
	}
	return l.With().Str("module", "mailhog").Logger()
}
