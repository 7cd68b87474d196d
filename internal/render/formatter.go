package render

import (
	"html"
	"strings"

	"github.com/roach88/dpl/internal/i18n"
	"github.com/roach88/dpl/internal/queryspec"
	"github.com/roach88/dpl/internal/store"
	"github.com/roach88/dpl/internal/wiki"
)

// Formatter turns result rows into a markup fragment.
type Formatter struct {
	Linker    Linker
	Galleries GalleryFactory
	Localizer *i18n.Localizer
}

// NewFormatter creates a formatter that links and places gallery images
// under articlePath and localizes with loc.
func NewFormatter(articlePath string, loc *i18n.Localizer) *Formatter {
	return &Formatter{
		Linker:    HTMLLinker{ArticlePath: articlePath},
		Galleries: HTMLGalleries(articlePath),
		Localizer: loc,
	}
}

// Format renders rows in the output mode of spec.
//
// Zero rows render as the "no results" message, or "" when errors are
// suppressed. In that case no gallery is created.
func (f *Formatter) Format(rows []store.ResultRow, spec queryspec.Spec) string {
	if len(rows) == 0 {
		if spec.SuppressErrors {
			return ""
		}
		return f.Message(i18n.MsgNoResults)
	}

	switch spec.Mode {
	case queryspec.ModeGallery:
		return f.gallery(rows, spec)
	case queryspec.ModeInline:
		return f.inline(rows, spec)
	default:
		return f.list(rows, spec)
	}
}

// Message returns the HTML-escaped text of a message key.
func (f *Formatter) Message(key string) string {
	return html.EscapeString(f.Localizer.Message(key))
}

// list renders the unordered, ordered and none modes.
func (f *Formatter) list(rows []store.ResultRow, spec queryspec.Spec) string {
	w := spec.Mode.Wrappers()
	items := f.items(rows, spec)

	var b strings.Builder
	b.WriteString(w.StartList)
	b.WriteString("\n")
	b.WriteString(w.StartItem)
	b.WriteString(strings.Join(items, w.EndItem+" \n"+w.StartItem))
	b.WriteString(w.EndItem)
	b.WriteString(w.EndList)
	b.WriteString("\n")
	return b.String()
}

func (f *Formatter) inline(rows []store.ResultRow, spec queryspec.Spec) string {
	return "\n" + f.Localizer.CommaList(f.items(rows, spec)) + "\n"
}

func (f *Formatter) gallery(rows []store.ResultRow, spec queryspec.Spec) string {
	g := f.Galleries()
	opts := spec.Gallery

	g.SetShowFilename(opts.ShowFilename)
	g.SetShowBytes(opts.ShowFileSize)
	if opts.ImageHeight > 0 {
		g.SetHeights(opts.ImageHeight)
	}
	if opts.ImageWidth > 0 {
		g.SetWidths(opts.ImageWidth)
	}
	if opts.PerRow > 0 {
		g.SetPerRow(opts.PerRow)
	}
	if opts.Caption != "" {
		g.SetCaption(opts.Caption)
	}

	for _, row := range rows {
		caption := ""
		if d, ok := f.date(row, spec); ok {
			caption = d + " "
		}
		g.Add(wiki.NewTitle(row.Namespace, row.Title), caption, row.Length)
	}
	return g.HTML()
}

// items renders one linked entry per row, in row order.
func (f *Formatter) items(rows []store.ResultRow, spec queryspec.Spec) []string {
	items := make([]string, 0, len(rows))
	for _, row := range rows {
		items = append(items, f.item(row, spec))
	}
	return items
}

func (f *Formatter) item(row store.ResultRow, spec queryspec.Spec) string {
	title := wiki.NewTitle(row.Namespace, row.Title)

	text := title.Text()
	if spec.ShowNamespace {
		text = title.PrefixedText()
	}

	opts := LinkOptions{NoFollow: spec.NoFollow}
	if spec.GoogleHack {
		opts.Query = googleHackQuery(row.ID)
	}

	prefix := ""
	if d, ok := f.date(row, spec); ok {
		prefix = html.EscapeString(d) + f.Localizer.ColonSeparator()
	}
	return prefix + f.Linker.Link(title, html.EscapeString(text), opts)
}

// date is the localized category-add date of row, when annotation is on.
func (f *Formatter) date(row store.ResultRow, spec queryspec.Spec) (string, bool) {
	if !spec.Date.Enabled || row.CategoryAdded.IsZero() {
		return "", false
	}
	return f.Localizer.FormatDate(row.CategoryAdded, spec.Date.Pattern, spec.Date.StripYear), true
}
