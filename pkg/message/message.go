// Package message contains message handling logic.
package message

import (
	"errors"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/inbucket/mhclient/pkg/rest/model"
	"github.com/inbucket/mhclient/pkg/stringutil"
	"github.com/jhillyerd/enmime/v2"
)

// ErrNoSource is returned when a MailHog message was fetched without its raw source.
var ErrNoSource = errors.New("message has no raw source")

// Attachment describes an attached file.
type Attachment struct {
	FileName    string
	ContentType string
	Size        int
}

// Message holds a parsed message source.
type Message struct {
	From        string
	To          []string
	Date        time.Time
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
	Envelope    *enmime.Envelope
}

// Read parses a raw RFC 5322 message, decoding transfer encodings and charsets.
func Read(r io.Reader) (*Message, error) {
	env, err := enmime.ReadEnvelope(r)
	if err != nil {
		return nil, err
	}
	m := &Message{
		Subject:  env.GetHeader("Subject"),
		Text:     env.Text,
		HTML:     env.HTML,
		Envelope: env,
	}
	if from, err := env.AddressList("From"); err == nil && len(from) > 0 {
		m.From = from[0].String()
	}
	if to, err := env.AddressList("To"); err == nil {
		m.To = stringutil.StringAddressList(to)
	}
	if date, err := mail.ParseDate(env.GetHeader("Date")); err == nil {
		m.Date = date
	}
	for _, p := range env.Attachments {
		m.Attachments = append(m.Attachments, Attachment{
			FileName:    p.FileName,
			ContentType: p.ContentType,
			Size:        len(p.Content),
		})
	}
	return m, nil
}

// FromMailHog parses the raw source MailHog captured for msg.
func FromMailHog(msg *model.Message) (*Message, error) {
	if msg.Raw == nil || msg.Raw.Data == "" {
		return nil, ErrNoSource
	}
	return Read(strings.NewReader(msg.Raw.Data))
}
