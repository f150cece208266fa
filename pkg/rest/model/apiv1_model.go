// Package model holds the JSON shapes returned by the MailHog REST API.
package model

import (
	"net/mail"
	"strings"
	"time"
)

// Path is a MailHog envelope address.
type Path struct {
	Relays  []string `json:"Relays"`
	Mailbox string   `json:"Mailbox"`
	Domain  string   `json:"Domain"`
	Params  string   `json:"Params"`
}

// Address renders the path as mailbox@domain.
func (p *Path) Address() string {
	if p == nil {
		return ""
	}
	if p.Domain == "" {
		return p.Mailbox
	}
	return p.Mailbox + "@" + p.Domain
}

// Content contains the parsed headers and the body of a message or MIME part.
type Content struct {
	Headers mail.Header `json:"Headers"`
	Body    string      `json:"Body"`
	Size    int         `json:"Size"`
	MIME    *MIMEBody   `json:"MIME"`
}

// Header returns the first value of the named header, or "" if absent.  The name is matched
// exactly, MailHog does not canonicalize header names.
func (c *Content) Header(name string) string {
	if c == nil {
		return ""
	}
	if v := c.Headers[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// MIMEBody holds the parts of a multipart message.
type MIMEBody struct {
	Parts []*Content `json:"Parts"`
}

// Raw is the SMTP transaction as MailHog received it.
type Raw struct {
	From string   `json:"From"`
	To   []string `json:"To"`
	Data string   `json:"Data"`
	Helo string   `json:"Helo"`
}

// Message is a single message captured by MailHog.
type Message struct {
	ID      string    `json:"ID"`
	From    *Path     `json:"From"`
	To      []*Path   `json:"To"`
	Content *Content  `json:"Content"`
	Created time.Time `json:"Created"`
	MIME    *MIMEBody `json:"MIME"`
	Raw     *Raw      `json:"Raw"`
}

// Subject returns the first Subject header value.
func (m *Message) Subject() string {
	return m.Content.Header("Subject")
}

// Body returns the message body, or "" if the message has no content.
func (m *Message) Body() string {
	if m.Content == nil {
		return ""
	}
	return m.Content.Body
}

// IsQuotedPrintable reports whether any Content-Transfer-Encoding value mentions
// quoted-printable.
func (m *Message) IsQuotedPrintable() bool {
	if m.Content == nil {
		return false
	}
	for _, v := range m.Content.Headers["Content-Transfer-Encoding"] {
		if strings.Contains(v, "quoted-printable") {
			return true
		}
	}
	return false
}

// SortTime is the time used to order messages: the first Date header when present and
// non-empty, otherwise the time MailHog received the message.  The Date header is preferred
// because relay delays make Created unreliable for messages sent close together.  A Date header
// that cannot be parsed yields the zero time.
func (m *Message) SortTime() time.Time {
	if date := m.Content.Header("Date"); date != "" {
		return parseDate(date)
	}
	return m.Created
}

func parseDate(value string) time.Time {
	if t, err := mail.ParseDate(value); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t
	}
	return time.Time{}
}
