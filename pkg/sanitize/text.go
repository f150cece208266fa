// Package sanitize renders HTML message bodies for display in a terminal.
package sanitize

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

var (
	policy = bluemonday.StrictPolicy()

	// Elements that end a line of text.
	blockElements = map[string]bool{
		"address": true, "blockquote": true, "br": true, "div": true, "dt": true, "dd": true,
		"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "hr": true,
		"li": true, "p": true, "pre": true, "table": true, "tr": true,
	}
)

// Text strips all markup from input, leaving one line per block element.
func Text(input string) (string, error) {
	b := &bytes.Buffer{}
	if err := lineBreakFilter(b, strings.NewReader(input)); err != nil {
		return "", err
	}
	return tidyLines(html.UnescapeString(policy.Sanitize(b.String()))), nil
}

// lineBreakFilter copies r to w, adding a newline after each tag that ends a block.
func lineBreakFilter(w io.Writer, r io.Reader) error {
	bw := bufio.NewWriter(w)
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			err := z.Err()
			if err == io.EOF {
				return bw.Flush()
			}
			return err
		}
		if _, err := bw.Write(z.Raw()); err != nil {
			return err
		}
		switch tt {
		case html.EndTagToken, html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if !blockElements[string(name)] {
				continue
			}
			// Start tags only break for void elements.
			if tt == html.StartTagToken && string(name) != "br" && string(name) != "hr" {
				continue
			}
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
}

// tidyLines trims each line and collapses runs of blank lines.
func tidyLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, l)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
