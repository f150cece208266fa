// Package stringutil contains text helpers shared by the client and the command line tool.
package stringutil

import (
	"net/mail"
	"regexp"
	"strconv"
)

var (
	// Trailing spaces and tabs are added by transport agents and are never content.
	qpTrailingSpace = regexp.MustCompile(`[\t ]+(\r\n|\r|\n|$)`)
	// A trailing = joins the line with the next one.  CR and LF alone are accepted as well as
	// CRLF.
	qpSoftBreak = regexp.MustCompile(`=(\r\n|\r|\n|$)`)
	// =XX escapes, lowercase hex digits are accepted.
	qpEscape = regexp.MustCompile(`=[0-9A-Fa-f]{2}`)
)

// DecodeQuotedPrintable decodes a quoted-printable (RFC 2045 section 6.7) body.  Each =XX escape
// becomes the character with code point XX, so the result is always valid UTF-8 text: =E9
// decodes to "é" rather than the single byte 0xE9.  Text without = escapes is returned
// unchanged apart from trailing whitespace on each line.
func DecodeQuotedPrintable(content string) string {
	content = qpTrailingSpace.ReplaceAllString(content, "$1")
	content = qpSoftBreak.ReplaceAllString(content, "")
	return qpEscape.ReplaceAllStringFunc(content, func(esc string) string {
		cp, err := strconv.ParseUint(esc[1:], 16, 8)
		if err != nil {
			// Unreachable, the pattern only matches two hex digits.
			return esc
		}
		return string(rune(cp))
	})
}

// StringAddressList converts a list of addresses to a list of strings
func StringAddressList(addrs []*mail.Address) []string {
	s := make([]string, len(addrs))
	for i, a := range addrs {
		if a != nil {
			s[i] = a.String()
		}
	}
	return s
}
