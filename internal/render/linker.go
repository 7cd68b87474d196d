package render

import (
	"html"
	"net/url"
	"strconv"
	"strings"

	"github.com/roach88/dpl/internal/wiki"
)

// LinkOptions modify a single page link.
type LinkOptions struct {
	// Query is appended to the link target, e.g. dpl_id=42.
	Query url.Values

	// NoFollow adds rel="nofollow".
	NoFollow bool
}

// Linker renders a link to a page. text is already HTML-escaped.
type Linker interface {
	Link(title wiki.Title, text string, opts LinkOptions) string
}

// HTMLLinker links to pages under an article path such as "/wiki/".
type HTMLLinker struct {
	ArticlePath string
}

// Link renders <a href="{path}{title}" title="{prefixed text}">text</a>.
// The link is always treated as known; no existence lookup is made.
func (l HTMLLinker) Link(title wiki.Title, text string, opts LinkOptions) string {
	href := l.ArticlePath + escapePath(title.PrefixedDBKey())
	if len(opts.Query) > 0 {
		href += "?" + opts.Query.Encode()
	}

	var b strings.Builder
	b.WriteString(`<a href="`)
	b.WriteString(html.EscapeString(href))
	b.WriteString(`"`)
	if opts.NoFollow {
		b.WriteString(` rel="nofollow"`)
	}
	b.WriteString(` title="`)
	b.WriteString(html.EscapeString(title.PrefixedText()))
	b.WriteString(`">`)
	b.WriteString(text)
	b.WriteString(`</a>`)
	return b.String()
}

// escapePath percent-encodes a DB key for a URL path. Subpage slashes
// stay literal.
func escapePath(key string) string {
	return strings.ReplaceAll(url.PathEscape(key), "%2F", "/")
}

// googleHackQuery is the query attached to every link when googlehack is on.
func googleHackQuery(pageID int64) url.Values {
	return url.Values{"dpl_id": []string{strconv.FormatInt(pageID, 10)}}
}
