// Package otp extracts one-time codes from email bodies.
//
// Codes are expected in an element marked with data-otp="one-time-code", for example:
//
//	<code data-otp="one-time-code">123456</code>
//
// Matching is a fixed regular expression over the raw body, not an HTML parse: the attribute
// must appear exactly as above and be the last attribute of its element, and the code must be
// the element's only content.
package otp

import "regexp"

// Attribute is the marker attribute a code element must carry.
const Attribute = `data-otp="one-time-code"`

var pattern = regexp.MustCompile(`data-otp="one-time-code"\s*>(\d+)<`)

// Extract returns the first one-time code found in body.
func Extract(body string) (code string, ok bool) {
	m := pattern.FindStringSubmatch(body)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}
