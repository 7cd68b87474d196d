package wiki

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxTitleBytes is the longest DB key a title may have.
const MaxTitleBytes = 255

// illegalTitleChars are characters that can never appear in a title.
const illegalTitleChars = "#<>[]|{}"

var (
	whitespaceRun = regexp.MustCompile(`[ _]+`)
	percentEscape = regexp.MustCompile(`%[0-9A-Fa-f]{2}`)
)

// Title identifies a page by namespace and DB key.
// The DB key uses underscores where the display text uses spaces.
type Title struct {
	Namespace int
	DBKey     string
}

// NewTitle builds a Title from a stored namespace and DB key.
// No normalization is applied; stored keys are already canonical.
func NewTitle(ns int, dbKey string) Title {
	return Title{Namespace: ns, DBKey: dbKey}
}

// Text returns the title without its namespace, with spaces.
func (t Title) Text() string {
	return strings.ReplaceAll(t.DBKey, "_", " ")
}

// PrefixedText returns the namespace-qualified display text,
// e.g. "User talk:Some page". Main namespace titles have no prefix.
func (t Title) PrefixedText() string {
	if name := NamespaceName(t.Namespace); name != "" {
		return name + ":" + t.Text()
	}
	return t.Text()
}

// PrefixedDBKey is PrefixedText in DB key form, suitable for URLs.
func (t Title) PrefixedDBKey() string {
	return strings.ReplaceAll(t.PrefixedText(), " ", "_")
}

// MakeTitleSafe parses user-supplied title text.
//
// The text is placed in defaultNS unless it carries a known namespace
// prefix, in which case the prefix wins. Returns false if the text cannot
// form a valid title.
//
// Normalization applied:
//  1. Surrounding whitespace and one leading ':' are removed
//  2. Runs of spaces and underscores collapse to one underscore
//  3. A recognized "Namespace:" prefix is split off
//  4. The key is NFC-normalized and its first letter upper-cased
func MakeTitleSafe(defaultNS int, text string) (Title, bool) {
	key := strings.TrimSpace(text)
	key = strings.TrimPrefix(key, ":")
	key = collapseKey(key)

	ns := defaultNS
	if prefix, rest, found := strings.Cut(key, ":"); found {
		if idx, ok := NamespaceIndex(prefix); ok {
			ns = idx
			key = collapseKey(rest)
		}
	}

	key, ok := NormalizeDBKey(key)
	if !ok {
		return Title{}, false
	}
	return Title{Namespace: ns, DBKey: key}, true
}

// NormalizeDBKey canonicalizes a DB key without namespace handling.
// Returns false for empty, oversized, or illegal keys.
func NormalizeDBKey(key string) (string, bool) {
	key = norm.NFC.String(collapseKey(key))
	if key == "" || len(key) > MaxTitleBytes {
		return "", false
	}
	if strings.ContainsAny(key, illegalTitleChars) || percentEscape.MatchString(key) {
		return "", false
	}
	if key == "." || key == ".." || strings.HasPrefix(key, "./") || strings.HasPrefix(key, "../") ||
		strings.Contains(key, "/./") || strings.Contains(key, "/../") {
		return "", false
	}
	for _, r := range key {
		if unicode.IsControl(r) || r == utf8.RuneError {
			return "", false
		}
	}
	return upperFirst(key), true
}

func collapseKey(s string) string {
	return strings.Trim(whitespaceRun.ReplaceAllString(s, "_"), "_")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
