package render

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/dpl/internal/wiki"
)

func TestHTMLLinker_Link(t *testing.T) {
	l := HTMLLinker{ArticlePath: "/wiki/"}

	testCases := []struct {
		name  string
		title wiki.Title
		text  string
		opts  LinkOptions
		want  string
	}{
		{
			name:  "main namespace",
			title: wiki.NewTitle(wiki.NSMain, "Oak"),
			text:  "Oak",
			want:  `<a href="/wiki/Oak" title="Oak">Oak</a>`,
		},
		{
			name:  "subpage keeps slash",
			title: wiki.NewTitle(wiki.NSHelp, "Lists/Advanced"),
			text:  "Help:Lists/Advanced",
			want:  `<a href="/wiki/Help:Lists/Advanced" title="Help:Lists/Advanced">Help:Lists/Advanced</a>`,
		},
		{
			name:  "non-ascii is percent encoded",
			title: wiki.NewTitle(wiki.NSMain, "Café"),
			text:  "Café",
			want:  `<a href="/wiki/Caf%C3%A9" title="Café">Café</a>`,
		},
		{
			name:  "query and nofollow",
			title: wiki.NewTitle(wiki.NSMain, "Oak"),
			text:  "Oak",
			opts:  LinkOptions{Query: url.Values{"dpl_id": {"9"}}, NoFollow: true},
			want:  `<a href="/wiki/Oak?dpl_id=9" rel="nofollow" title="Oak">Oak</a>`,
		},
		{
			name:  "question mark in title",
			title: wiki.NewTitle(wiki.NSMain, "Why?"),
			text:  "Why?",
			want:  `<a href="/wiki/Why%3F" title="Why?">Why?</a>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, l.Link(tc.title, tc.text, tc.opts))
		})
	}
}

func TestGoogleHackQuery(t *testing.T) {
	assert.Equal(t, "dpl_id=42", googleHackQuery(42).Encode())
}
