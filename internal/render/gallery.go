package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/roach88/dpl/internal/wiki"
)

// Gallery is an image gallery widget. Setters are only called with
// non-default values.
type Gallery interface {
	SetWidths(px int)
	SetHeights(px int)
	SetPerRow(n int)
	SetCaption(caption string)
	SetShowFilename(show bool)
	SetShowBytes(show bool)

	// Add appends one image. caption is plain text placed above the
	// file name; size is the page length in bytes.
	Add(title wiki.Title, caption string, size int64)

	HTML() string
}

// GalleryFactory creates a new empty gallery.
type GalleryFactory func() Gallery

// Gallery defaults, matching the wiki's traditional gallery.
const (
	DefaultGalleryWidth  = 120
	DefaultGalleryHeight = 120
)

type galleryItem struct {
	title   wiki.Title
	caption string
	size    int64
}

// HTMLGallery renders a traditional wiki gallery as an HTML list.
type HTMLGallery struct {
	linker       HTMLLinker
	widths       int
	heights      int
	perRow       int
	caption      string
	showFilename bool
	showBytes    bool
	items        []galleryItem
}

// NewHTMLGallery creates a gallery whose images and links live under
// articlePath.
func NewHTMLGallery(articlePath string) *HTMLGallery {
	return &HTMLGallery{
		linker:       HTMLLinker{ArticlePath: articlePath},
		widths:       DefaultGalleryWidth,
		heights:      DefaultGalleryHeight,
		showFilename: true,
	}
}

// HTMLGalleries returns a factory of HTML galleries under articlePath.
func HTMLGalleries(articlePath string) GalleryFactory {
	return func() Gallery { return NewHTMLGallery(articlePath) }
}

func (g *HTMLGallery) SetWidths(px int)          { g.widths = px }
func (g *HTMLGallery) SetHeights(px int)         { g.heights = px }
func (g *HTMLGallery) SetPerRow(n int)           { g.perRow = n }
func (g *HTMLGallery) SetCaption(caption string) { g.caption = caption }
func (g *HTMLGallery) SetShowFilename(show bool) { g.showFilename = show }
func (g *HTMLGallery) SetShowBytes(show bool)    { g.showBytes = show }

func (g *HTMLGallery) Add(title wiki.Title, caption string, size int64) {
	g.items = append(g.items, galleryItem{title: title, caption: caption, size: size})
}

// HTML renders the gallery. An empty gallery renders as "".
func (g *HTMLGallery) HTML() string {
	if len(g.items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<ul class="gallery"`)
	if g.perRow > 0 {
		fmt.Fprintf(&b, ` style="max-width: %dpx"`, g.perRow*(g.widths+43))
	}
	b.WriteString(">\n")

	if g.caption != "" {
		fmt.Fprintf(&b, "<li class=\"gallerycaption\">%s</li>\n", html.EscapeString(g.caption))
	}

	for _, it := range g.items {
		g.writeItem(&b, it)
	}

	b.WriteString("</ul>")
	return b.String()
}

func (g *HTMLGallery) writeItem(b *strings.Builder, it galleryItem) {
	src := g.linker.ArticlePath + "Special:FilePath/" + escapePath(it.title.DBKey)

	fmt.Fprintf(b, `<li class="gallerybox" style="width: %dpx">`, g.widths+35)
	fmt.Fprintf(b, `<div class="thumb" style="width: %dpx; height: %dpx">`, g.widths+30, g.heights+30)
	fmt.Fprintf(b, `<img src="%s" width="%d" height="%d" alt="%s" />`,
		html.EscapeString(src), g.widths, g.heights, html.EscapeString(it.title.Text()))
	b.WriteString(`</div><div class="gallerytext">`)

	b.WriteString(html.EscapeString(it.caption))
	if g.showFilename {
		b.WriteString(g.linker.Link(it.title, html.EscapeString(it.title.Text()), LinkOptions{}))
		b.WriteString("<br />")
	}
	if g.showBytes {
		b.WriteString(formatSize(it.size))
	}

	b.WriteString("</div></li>\n")
}

// formatSize renders a byte count the way file pages do.
func formatSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d bytes", n)
	case n < 1024*1024:
		return fmt.Sprintf("%d KB", (n+512)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	}
}
