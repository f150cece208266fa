package client

import (
	"context"
	"fmt"

	"github.com/inbucket/mhclient/pkg/otp"
	"github.com/inbucket/mhclient/pkg/rest/model"
	"github.com/rs/zerolog"
)

// Reporter receives expected-absence failures: no matching email, no code in the body, or an
// inbox count that does not compare as expected.  *testing.T satisfies Reporter.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// logReporter is the default Reporter, it logs failures as warnings.
type logReporter struct {
	logger zerolog.Logger
}

func (r *logReporter) Errorf(format string, args ...interface{}) {
	r.logger.Warn().Str("phase", "assert").Msgf(format, args...)
}

// Comparison is how AssertInboxCount compares the inbox count to the expected value.
type Comparison int

// Supported comparisons, Equals is the zero value.
const (
	Equals Comparison = iota
	AtLeast
	AtMost
)

// ParseComparison accepts the names atLeast, atMost and equals, along with the longer
// greaterThanOrEqual, lessThanOrEqual and equal.  An empty name is Equals.
func ParseComparison(name string) (Comparison, error) {
	switch name {
	case "", "equals", "equal":
		return Equals, nil
	case "atLeast", "greaterThanOrEqual":
		return AtLeast, nil
	case "atMost", "lessThanOrEqual":
		return AtMost, nil
	}
	return Equals, fmt.Errorf("comparison %q not one of: atLeast, atMost, equals", name)
}

func (c Comparison) String() string {
	switch c {
	case AtLeast:
		return "atLeast"
	case AtMost:
		return "atMost"
	default:
		return "equals"
	}
}

// Evaluate reports whether actual compares to expected.
func (c Comparison) Evaluate(actual, expected int) bool {
	switch c {
	case AtLeast:
		return actual >= expected
	case AtMost:
		return actual <= expected
	default:
		return actual == expected
	}
}

// GetOneTimeCode finds the most recent message matching opts, extracts the one-time code from its
// body, and deletes the message so the code can only be retrieved once.  Zero fields of opts
// default to those of OTPQuery.  When no message matches, or the message has no code, the
// failure is sent to the Reporter and "" is returned with a nil error.  Other messages in the
// batch are left in place.
func (c *Client) GetOneTimeCode(ctx context.Context, opts FindOptions) (string, error) {
	opts = opts.withDefaults(OTPQuery(""))
	items, err := c.FindEmails(ctx, opts)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		c.reporter.Errorf("No emails found matching that query.")
		return "", nil
	}

	latest := model.MostRecent(items)
	code, ok := otp.Extract(latest.Body())
	if !ok {
		c.reporter.Errorf("No code found in email (%s).", otp.Attribute)
		return "", nil
	}

	if err := c.DeleteEmail(ctx, latest.ID); err != nil {
		return "", err
	}
	c.logger.Debug().Str("id", latest.ID).Msg("Retrieved one-time code")
	return code, nil
}

// AssertInboxCount compares the number of messages containing query against expected, reporting
// a failure to the Reporter when the comparison does not hold.
func (c *Client) AssertInboxCount(
	ctx context.Context, query string, cmp Comparison, expected int,
) (bool, error) {
	count, err := c.InboxCount(ctx, query)
	if err != nil {
		return false, err
	}
	if !cmp.Evaluate(count, expected) {
		c.reporter.Errorf("Looking for MailHog messages containing %q: %v %d, found %d",
			query, cmp, expected, count)
		return false, nil
	}
	return true, nil
}
