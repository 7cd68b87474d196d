package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/dpl/internal/wiki"
)

func TestHTMLGallery_Empty(t *testing.T) {
	assert.Equal(t, "", NewHTMLGallery("/wiki/").HTML())
}

func TestHTMLGallery_Defaults(t *testing.T) {
	g := NewHTMLGallery("/wiki/")
	g.Add(wiki.NewTitle(wiki.NSFile, "Oak_leaf.jpg"), "", 300)

	want := "<ul class=\"gallery\">\n" +
		`<li class="gallerybox" style="width: 155px">` +
		`<div class="thumb" style="width: 150px; height: 150px">` +
		`<img src="/wiki/Special:FilePath/Oak_leaf.jpg" width="120" height="120" alt="Oak leaf.jpg" />` +
		`</div><div class="gallerytext">` +
		`<a href="/wiki/File:Oak_leaf.jpg" title="File:Oak leaf.jpg">Oak leaf.jpg</a><br />` +
		"</div></li>\n" +
		"</ul>"
	assert.Equal(t, want, g.HTML())
}

func TestHTMLGallery_Options(t *testing.T) {
	g := NewHTMLGallery("/w/")
	g.SetWidths(200)
	g.SetHeights(100)
	g.SetPerRow(2)
	g.SetCaption("Trees & shrubs")
	g.SetShowFilename(false)
	g.SetShowBytes(true)
	g.Add(wiki.NewTitle(wiki.NSFile, "A.png"), "2024-03-05 ", 2048)

	got := g.HTML()

	assert.Contains(t, got, `<ul class="gallery" style="max-width: 486px">`)
	assert.Contains(t, got, `<li class="gallerycaption">Trees &amp; shrubs</li>`)
	assert.Contains(t, got, `style="width: 235px"`)
	assert.Contains(t, got, `style="width: 230px; height: 130px"`)
	assert.Contains(t, got, `<div class="gallerytext">2024-03-05 2 KB</div>`)
	assert.NotContains(t, got, "<a ")
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 bytes", formatSize(0))
	assert.Equal(t, "1023 bytes", formatSize(1023))
	assert.Equal(t, "1 KB", formatSize(1024))
	assert.Equal(t, "2 KB", formatSize(1800))
	assert.Equal(t, "1.50 MB", formatSize(3*512*1024))
}
