package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/dpl/internal/i18n"
	"github.com/roach88/dpl/internal/querysql"
	"github.com/roach88/dpl/internal/queryspec"
	"github.com/roach88/dpl/internal/render"
	"github.com/roach88/dpl/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const forestFixture = `
pages:
  - id: 1
    title: Oak
    length: 1200
    touched: "20240301120000"
    categories:
      - name: Trees
        added: "20240101000000"
  - id: 2
    title: Dodo tree
    length: 800
    touched: "20240302120000"
    categories:
      - name: Trees
        added: "20240102000000"
      - name: Extinct
        added: "20240102000000"
  - id: 3
    title: Elm
    length: 400
    touched: "20240303120000"
    categories:
      - name: Trees
        added: "20240103000000"
  - id: 4
    title: Old elm
    redirect: true
    touched: "20240304120000"
    categories:
      - name: Trees
        added: "20240104000000"
  - id: 5
    namespace: 6
    title: Oak.jpg
    length: 2048
    touched: "20240305120000"
    categories:
      - name: Trees
        added: "20240105000000"
`

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	exec := NewExecutor(testutil.SeededStore(t, forestFixture), querysql.Question)
	f := render.NewFormatter("/wiki/", i18n.New("en"))
	opts = append([]Option{WithLogger(zaptest.NewLogger(t))}, opts...)
	return NewRenderer(queryspec.DefaultConfig(), exec, f, opts...)
}

func link(key, text string) string {
	return `<a href="/wiki/` + key + `" title="` + text + `">` + text + `</a>`
}

func TestRender_InlineIntersection(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(context.Background(), "category=Trees\nnotcategory=Extinct\nnamespace=main\nmode=inline")
	require.NoError(t, err)

	want := "\n" + link("Elm", "Elm") + ", " + link("Oak", "Oak") + "\n"
	assert.Equal(t, want, out.HTML)
}

func TestRender_UnorderedList(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(context.Background(), "category=Trees\nnamespace=0\norder=ascending")
	require.NoError(t, err)

	want := "<ul>\n<li>" + link("Oak", "Oak") + "</li> \n<li>" +
		link("Dodo_tree", "Dodo tree") + "</li> \n<li>" +
		link("Elm", "Elm") + "</li></ul>\n"
	assert.Equal(t, want, out.HTML)
}

func TestRender_Redirects(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(context.Background(), "category=Trees\nredirects=only\nmode=none")
	require.NoError(t, err)
	assert.Equal(t, "\n"+link("Old_elm", "Old elm")+"<br />\n", out.HTML)
}

func TestRender_Count(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(context.Background(), "category=Trees\ncount=1\nmode=inline\nshownamespace=false")
	require.NoError(t, err)
	assert.Equal(t, "\n"+`<a href="/wiki/File:Oak.jpg" title="File:Oak.jpg">Oak.jpg</a>`+"\n", out.HTML)
}

func TestRender_DateAnnotation(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(context.Background(), "category=Trees\nnotcategory=Extinct\nnamespace=0\nmode=inline\naddfirstcategorydate=ISO 8601")
	require.NoError(t, err)
	assert.Equal(t, "\n2024-01-03: "+link("Elm", "Elm")+", 2024-01-01: "+link("Oak", "Oak")+"\n", out.HTML)
}

func TestRender_ValidationMessages(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want string
	}{
		{
			name: "no categories",
			text: "mode=inline",
			want: "Error: You need to include at least one category, or specify a namespace!",
		},
		{
			name: "no categories suppressed",
			text: "mode=inline\nsuppresserrors=true",
			want: "",
		},
		{
			name: "too many categories",
			text: "category=A\ncategory=B\ncategory=C\ncategory=D\nnotcategory=E\nnotcategory=F\nnotcategory=G",
			want: "Error: Too many categories!",
		},
		{
			name: "too many categories suppressed",
			text: "category=A\ncategory=B\ncategory=C\ncategory=D\nnotcategory=E\nnotcategory=F\nnotcategory=G\nsuppresserrors=true",
			want: "",
		},
		{
			name: "no results",
			text: "category=Shrubs",
			want: "No results!",
		},
		{
			name: "no results suppressed",
			text: "category=Shrubs\nsuppresserrors=true",
			want: "",
		},
	}

	r := newTestRenderer(t)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := r.Render(context.Background(), tc.text)
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.HTML)
		})
	}
}

func TestRender_GermanMessages(t *testing.T) {
	exec := NewExecutor(testutil.SeededStore(t, forestFixture), querysql.Question)
	r := NewRenderer(queryspec.DefaultConfig(), exec, render.NewFormatter("/wiki/", i18n.New("de")))

	out, err := r.Render(context.Background(), "category=Shrubs")
	require.NoError(t, err)
	assert.Equal(t, "Keine Ergebnisse!", out.HTML)
}

func TestRender_EmptyGalleryIsMessage(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(context.Background(), "category=Shrubs\nmode=gallery")
	require.NoError(t, err)
	assert.Equal(t, "No results!", out.HTML)
}

func TestRender_Gallery(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Render(context.Background(), "category=Trees\nnamespace=File\nmode=gallery\ngallerycaption=Bark")
	require.NoError(t, err)
	assert.Contains(t, out.HTML, "Bark")
	assert.Contains(t, out.HTML, "Oak.jpg")
	assert.NotContains(t, out.HTML, "Elm")
}

func TestRender_Deterministic(t *testing.T) {
	r := newTestRenderer(t)
	text := "category=Trees\nordermethod=length\nmode=ordered"

	first, err := r.Render(context.Background(), text)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := r.Render(context.Background(), text)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRender_CacheExpiry(t *testing.T) {
	r := newTestRenderer(t, WithCacheExpiry(30*time.Minute))

	out, err := r.Render(context.Background(), "category=Trees")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, out.CacheExpiry)

	out, err = r.Render(context.Background(), "mode=inline")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, out.CacheExpiry, "messages carry the expiry too")
}

func TestRender_StoreFailureCarriesRenderID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("database is locked")
	mock.ExpectQuery("SELECT").WillReturnError(boom)

	core, logs := observer.New(zapcore.DebugLevel)
	r := NewRenderer(queryspec.DefaultConfig(),
		NewExecutor(db, querysql.Question),
		render.NewFormatter("/wiki/", i18n.New("en")),
		WithLogger(zap.New(core)),
		WithIDGenerator(NewFixedGenerator("render-1")),
	)

	_, err = r.Render(context.Background(), "category=Trees")
	require.Error(t, err)
	assert.True(t, IsStorageError(err))
	assert.ErrorIs(t, err, boom)

	var re *RenderError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "render-1", re.RenderID)

	failed := logs.FilterMessage("list query failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "render-1", failed[0].ContextMap()["render_id"])
}

func TestRender_LogsQueryAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newTestRenderer(t,
		WithLogger(zap.New(core)),
		WithIDGenerator(NewFixedGenerator("render-7")),
	)

	_, err := r.Render(context.Background(), "category=Trees")
	require.NoError(t, err)

	queries := logs.FilterMessage("list query").All()
	require.Len(t, queries, 1)
	ctx := queries[0].ContextMap()
	assert.Equal(t, "render-7", ctx["render_id"])
	assert.True(t, strings.HasPrefix(ctx["sql"].(string), "SELECT "))
}

func TestRender_LogsRejection(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := newTestRenderer(t, WithLogger(zap.New(core)))

	_, err := r.Render(context.Background(), "mode=inline\nsuppresserrors=true")
	require.NoError(t, err)

	rejected := logs.FilterMessage("list rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, string(queryspec.ErrCodeNoIncludeCategories), rejected[0].ContextMap()["code"])
	assert.Equal(t, true, rejected[0].ContextMap()["suppressed"])
	assert.Zero(t, logs.FilterMessage("list query").Len(), "debug query log is skipped at info level")
}

func TestExplain(t *testing.T) {
	r := newTestRenderer(t)

	sql, params, err := r.Explain("category=Trees\nnotcategory=Extinct")
	require.NoError(t, err)
	assert.Contains(t, sql, "INNER JOIN categorylinks AS c1")
	assert.Contains(t, sql, "LEFT OUTER JOIN categorylinks AS c2")
	assert.Equal(t, []any{"Trees", "Extinct", int64(0)}, params)

	_, _, err = r.Explain("mode=inline")
	var ve *queryspec.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, queryspec.ErrCodeNoIncludeCategories, ve.Code)
}
