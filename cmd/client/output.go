package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/inbucket/mhclient/pkg/rest/model"
	"github.com/inbucket/mhclient/pkg/sanitize"
)

// outputFunc renders messages to w.
type outputFunc func(w io.Writer, messages []*model.Message) error

var outputFuncs = map[string]outputFunc{
	"id":      outputID,
	"json":    outputJSON,
	"summary": outputSummary,
	"text":    outputText,
}

func outputID(w io.Writer, messages []*model.Message) error {
	for _, m := range messages {
		if _, err := fmt.Fprintln(w, m.ID); err != nil {
			return err
		}
	}
	return nil
}

func outputJSON(w io.Writer, messages []*model.Message) error {
	jsonEncoder := json.NewEncoder(w)
	jsonEncoder.SetEscapeHTML(false)
	jsonEncoder.SetIndent("", "  ")
	return jsonEncoder.Encode(messages)
}

func outputSummary(w io.Writer, messages []*model.Message) error {
	for i, m := range messages {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := writeSummary(w, m); err != nil {
			return err
		}
	}
	return nil
}

// outputText writes each message summary followed by its body, with HTML markup stripped.
func outputText(w io.Writer, messages []*model.Message) error {
	for i, m := range messages {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := writeSummary(w, m); err != nil {
			return err
		}
		body := m.Body()
		if strings.Contains(m.Content.Header("Content-Type"), "html") {
			text, err := sanitize.Text(body)
			if err != nil {
				return err
			}
			body = text
		}
		if _, err := fmt.Fprintf(w, "\n%s\n", body); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(w io.Writer, m *model.Message) error {
	to := make([]string, len(m.To))
	for i, p := range m.To {
		to[i] = p.Address()
	}
	size := 0
	if m.Content != nil {
		size = m.Content.Size
	}
	_, err := fmt.Fprintf(w, "ID: %v\nFrom: %v\nTo: %v\nSubject: %v\nDate: %v\nSize: %v\n",
		m.ID, m.From.Address(), strings.Join(to, ", "), m.Subject(),
		m.SortTime().UTC().Format(time.RFC3339), size)
	return err
}
