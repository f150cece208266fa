package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"testing"
	"time"

	"github.com/inbucket/mhclient/pkg/rest/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReporter records assertion failures.
type fakeReporter struct {
	failures []string
}

func (r *fakeReporter) Errorf(format string, args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func searchJSON(t *testing.T, items ...*model.Message) string {
	t.Helper()
	if items == nil {
		items = []*model.Message{}
	}
	b, err := json.Marshal(&model.SearchResult{Total: len(items), Count: len(items), Items: items})
	require.NoError(t, err)
	return string(b)
}

func otpMessage(id, date, body string) *model.Message {
	return &model.Message{
		ID:   id,
		From: &model.Path{Mailbox: "noreply", Domain: "example.com"},
		To:   []*model.Path{{Mailbox: "user", Domain: "example.com"}},
		Content: &model.Content{
			Headers: mail.Header{"Subject": {"Your code"}, "Date": {date}},
			Body:    body,
		},
		Created: time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC),
	}
}

func newMockClient(t *testing.T, mth *mockHTTPClient) (*Client, *fakeReporter) {
	t.Helper()
	reporter := &fakeReporter{}
	c, err := New(baseURLStr, WithClientOptsReporter(reporter))
	require.NoError(t, err)
	c.client = mth
	return c, reporter
}

func TestClientFindEmails(t *testing.T) {
	msg := otpMessage("id1", "Wed, 01 May 2024 12:00:00 +0000", "a=\r\nb")
	msg.Content.Headers["Content-Transfer-Encoding"] = []string{"quoted-printable"}
	mth := &mockHTTPClient{body: searchJSON(t, msg)}
	c, _ := newMockClient(t, mth)

	// Method under test
	items, err := c.FindEmails(context.Background(), Query("user@example.com"))
	require.NoError(t, err)

	assert.Equal(t, "GET", mth.req.Method)
	assert.Equal(t,
		baseURLStr+"/v2/search?kind=containing&limit=10&query=user%40example.com&start=0",
		mth.req.URL.String())
	assert.Equal(t, "application/json", mth.req.Header.Get("Accept"))

	require.Len(t, items, 1)
	assert.Equal(t, "id1", items[0].ID)
	assert.Equal(t, "ab", items[0].Body())
}

func TestClientFindEmailsOptions(t *testing.T) {
	mth := &mockHTTPClient{body: searchJSON(t)}
	c, _ := newMockClient(t, mth)

	_, err := c.FindEmails(context.Background(), FindOptions{
		Kind:  model.KindFrom,
		Query: "noreply",
		Limit: 5,
		Start: 10,
	})
	require.NoError(t, err)
	assert.Equal(t,
		baseURLStr+"/v2/search?kind=from&limit=5&query=noreply&start=10",
		mth.req.URL.String())

	// Zero fields take the find defaults.
	_, err = c.FindEmails(context.Background(), FindOptions{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t,
		baseURLStr+"/v2/search?kind=containing&limit=10&query=x&start=0",
		mth.req.URL.String())
}

func TestClientFindEmailsNoMatches(t *testing.T) {
	for _, body := range []string{`{"total":0,"count":0,"start":0,"items":[]}`, `{"total":0}`} {
		mth := &mockHTTPClient{body: body}
		c, _ := newMockClient(t, mth)

		items, err := c.FindEmails(context.Background(), Query("nobody@example.com"))
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	}
}

func TestClientFindEmailsFails(t *testing.T) {
	mth := &mockHTTPClient{statusCode: 500}
	c, _ := newMockClient(t, mth)

	items, err := c.FindEmails(context.Background(), Query("x"))
	assert.Nil(t, items)
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
}

func TestClientFindMostRecentEmail(t *testing.T) {
	mth := &mockHTTPClient{body: searchJSON(t,
		otpMessage("old", "Wed, 01 May 2024 12:00:00 +0000", ""),
		otpMessage("new", "Wed, 01 May 2024 12:05:00 +0000", ""),
		otpMessage("mid", "Wed, 01 May 2024 12:02:00 +0000", ""),
	)}
	c, _ := newMockClient(t, mth)

	msg, err := c.FindMostRecentEmail(context.Background(), Query("user"))
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "new", msg.ID)

	mth.body = searchJSON(t)
	msg, err = c.FindMostRecentEmail(context.Background(), Query("user"))
	require.NoError(t, err)
	assert.Nil(t, msg)
}

func TestClientGetOneTimeCode(t *testing.T) {
	mth := &mockHTTPClient{bodies: []string{
		searchJSON(t,
			otpMessage("id1", "Wed, 01 May 2024 12:00:00 +0000",
				`<code data-otp="one-time-code">111111</code>`),
			otpMessage("id2", "Wed, 01 May 2024 12:10:00 +0000",
				`<code data-otp="one-time-code">482913</code>`),
			otpMessage("id3", "Wed, 01 May 2024 12:05:00 +0000",
				`<code data-otp="one-time-code">333333</code>`),
		),
		"",
	}}
	c, reporter := newMockClient(t, mth)

	// Method under test
	code, err := c.GetOneTimeCode(context.Background(), OTPQuery("user@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "482913", code)
	assert.Empty(t, reporter.failures)

	require.Len(t, mth.reqs, 2)
	assert.Equal(t, "GET", mth.reqs[0].Method)
	assert.Equal(t,
		baseURLStr+"/v2/search?kind=to&limit=20&query=user%40example.com&start=0",
		mth.reqs[0].URL.String())
	assert.Equal(t, "DELETE", mth.reqs[1].Method)
	assert.Equal(t, baseURLStr+"/v1/messages/id2", mth.reqs[1].URL.String())
}

func TestClientGetOneTimeCodeDefaults(t *testing.T) {
	mth := &mockHTTPClient{body: searchJSON(t)}
	c, _ := newMockClient(t, mth)

	// Caller fields override the one-time code defaults one by one.
	_, err := c.GetOneTimeCode(context.Background(), FindOptions{Query: "x", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t,
		baseURLStr+"/v2/search?kind=to&limit=3&query=x&start=0",
		mth.req.URL.String())

	_, err = c.GetOneTimeCode(context.Background(), FindOptions{Kind: model.KindContaining, Query: "x"})
	require.NoError(t, err)
	assert.Equal(t,
		baseURLStr+"/v2/search?kind=containing&limit=20&query=x&start=0",
		mth.req.URL.String())
}

func TestClientGetOneTimeCodeQuotedPrintable(t *testing.T) {
	msg := otpMessage("id1", "Wed, 01 May 2024 12:00:00 +0000",
		"<p>Code:</p>\r\n<code data-otp=3D\"one-time-code\">4829=\r\n13</code>")
	msg.Content.Headers["Content-Transfer-Encoding"] = []string{"quoted-printable"}
	mth := &mockHTTPClient{bodies: []string{searchJSON(t, msg), ""}}
	c, reporter := newMockClient(t, mth)

	code, err := c.GetOneTimeCode(context.Background(), OTPQuery("user@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "482913", code)
	assert.Empty(t, reporter.failures)
}

func TestClientGetOneTimeCodeNoEmails(t *testing.T) {
	mth := &mockHTTPClient{body: searchJSON(t)}
	c, reporter := newMockClient(t, mth)

	code, err := c.GetOneTimeCode(context.Background(), OTPQuery("nobody@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "", code)
	assert.Equal(t, []string{"No emails found matching that query."}, reporter.failures)

	// Nothing deleted.
	assert.Len(t, mth.reqs, 1)
}

func TestClientGetOneTimeCodeNoCode(t *testing.T) {
	mth := &mockHTTPClient{body: searchJSON(t,
		otpMessage("id1", "Wed, 01 May 2024 12:00:00 +0000", "<p>Welcome aboard</p>"),
	)}
	c, reporter := newMockClient(t, mth)

	code, err := c.GetOneTimeCode(context.Background(), OTPQuery("user@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "", code)
	require.Len(t, reporter.failures, 1)
	assert.Contains(t, reporter.failures[0], `data-otp="one-time-code"`)

	// The message is kept when no code was found.
	assert.Len(t, mth.reqs, 1)
}

func TestClientGetOneTimeCodeDeleteFails(t *testing.T) {
	mth := &mockHTTPClient{body: searchJSON(t,
		otpMessage("id1", "Wed, 01 May 2024 12:00:00 +0000",
			`<code data-otp="one-time-code">123</code>`),
	)}
	c, _ := newMockClient(t, mth)

	// Search succeeds, then the status flips for the delete.
	calls := 0
	c.client = httpClientFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		if calls == 2 {
			mth.statusCode = 500
		}
		return mth.Do(req)
	})

	code, err := c.GetOneTimeCode(context.Background(), OTPQuery("user@example.com"))
	assert.Equal(t, "", code)
	var serr *StatusError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "DELETE", serr.Method)
}

func TestClientInboxCount(t *testing.T) {
	mth := &mockHTTPClient{body: `{"total": 3, "count": 0, "start": 0, "items": []}`}
	c, _ := newMockClient(t, mth)

	count, err := c.InboxCount(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, baseURLStr+"/v2/messages?limit=0", mth.req.URL.String())

	count, err = c.InboxCount(context.Background(), "Welcome")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t,
		baseURLStr+"/v2/search?kind=containing&limit=0&query=Welcome",
		mth.req.URL.String())
}

func TestClientAssertInboxCount(t *testing.T) {
	tests := []struct {
		cmp      Comparison
		expected int
		want     bool
	}{
		{cmp: AtLeast, expected: 2, want: true},
		{cmp: AtLeast, expected: 3, want: true},
		{cmp: AtLeast, expected: 4, want: false},
		{cmp: AtMost, expected: 2, want: false},
		{cmp: AtMost, expected: 3, want: true},
		{cmp: Equals, expected: 3, want: true},
		{cmp: Equals, expected: 2, want: false},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprintf("%v %d", tc.cmp, tc.expected), func(t *testing.T) {
			mth := &mockHTTPClient{body: `{"total": 3}`}
			c, reporter := newMockClient(t, mth)

			got, err := c.AssertInboxCount(context.Background(), "", tc.cmp, tc.expected)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			if tc.want {
				assert.Empty(t, reporter.failures)
			} else {
				assert.Len(t, reporter.failures, 1)
			}
		})
	}
}

func TestClientAssertInboxCountFails(t *testing.T) {
	mth := &mockHTTPClient{statusCode: 502}
	c, reporter := newMockClient(t, mth)

	ok, err := c.AssertInboxCount(context.Background(), "x", AtLeast, 1)
	assert.False(t, ok)
	assert.Error(t, err)
	assert.Empty(t, reporter.failures)
}

func TestParseComparison(t *testing.T) {
	tests := map[string]Comparison{
		"":                   Equals,
		"equals":             Equals,
		"equal":              Equals,
		"atLeast":            AtLeast,
		"greaterThanOrEqual": AtLeast,
		"atMost":             AtMost,
		"lessThanOrEqual":    AtMost,
	}
	for name, want := range tests {
		got, err := ParseComparison(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseComparison("more")
	assert.Error(t, err)
}
