// Package slug normalizes labels into file-safe slugs and splits upstream
// document identifiers of the form "<topic-key>@<suffix>.md".
package slug

import (
	"regexp"
	"strings"
)

// DocExt is the extension of upstream content documents.
const DocExt = ".md"

var (
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s\p{Z}\v\x{85}\x1c-\x1f-]`)
	separatorRe  = regexp.MustCompile(`[\s\p{Z}\v\x{85}\x1c-\x1f_]+`)
	dashesRe     = regexp.MustCompile(`-+`)
	identifierRe = regexp.MustCompile(`^(.+)@(.+)\.md$`)
)

// Make converts text to a lowercase, hyphen-separated slug.
// Letters and digits of any script are kept; punctuation is dropped.
func Make(text string) string {
	s := strings.ToLower(text)
	s = disallowedRe.ReplaceAllString(s, "")
	s = separatorRe.ReplaceAllString(s, "-")
	s = dashesRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ParseIdentifier splits "<key>@<suffix>.md". The key is greedy, so for
// names with several '@' the suffix is the part after the last usable one.
func ParseIdentifier(name string) (key, suffix string, ok bool) {
	m := identifierRe.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// TopicKey returns the topic key of a document identifier, or the name
// without its extension when it has no "@<suffix>" part.
func TopicKey(name string) string {
	if key, _, ok := ParseIdentifier(name); ok {
		return key
	}
	return strings.TrimSuffix(name, DocExt)
}

// IsDocument reports whether name has the content document extension.
func IsDocument(name string) bool {
	return strings.HasSuffix(name, DocExt)
}
