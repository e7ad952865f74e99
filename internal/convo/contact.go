package convo

import (
	"regexp"
	"strings"
)

// phonePattern accepts an optional plus followed by at least seven
// consecutive digits anywhere in the text.
var phonePattern = regexp.MustCompile(`\+?[0-9]{7,}`)

// looksLikeEmail reports whether the text contains an '@' with a '.'
// somewhere after it. Deliberately loose; leads are verified by a human.
func looksLikeEmail(text string) bool {
	at := strings.Index(text, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(text[at+1:], ".")
}

func looksLikePhone(text string) bool {
	return phonePattern.MatchString(text)
}

// looksLikeContact tests the raw (not lower-cased) text against the email
// and phone patterns.
func looksLikeContact(text string) bool {
	return looksLikeEmail(text) || looksLikePhone(text)
}
