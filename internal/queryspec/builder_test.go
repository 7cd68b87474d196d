package queryspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dpl/internal/directive"
)

func build(t *testing.T, input string, cfg Config) (Spec, error) {
	t.Helper()
	return Build(directive.Parse(input), cfg)
}

func mustBuild(t *testing.T, input string, cfg Config) Spec {
	t.Helper()
	spec, err := build(t, input, cfg)
	require.NoError(t, err)
	return spec
}

func TestBuild_Defaults(t *testing.T) {
	spec := mustBuild(t, "category=Trees", DefaultConfig())

	assert.Equal(t, []string{"Trees"}, spec.IncludeCategories)
	assert.Empty(t, spec.ExcludeCategories)
	assert.False(t, spec.NamespaceFilter)
	assert.Equal(t, PolicyExclude, spec.Redirects)
	assert.Equal(t, PolicyInclude, spec.Stable)
	assert.Equal(t, PolicyInclude, spec.Quality)
	assert.Equal(t, OrderCategoryAdd, spec.OrderMethod)
	assert.Equal(t, Descending, spec.Order)
	assert.Equal(t, ModeUnordered, spec.Mode)
	assert.Equal(t, 200, spec.Limit, "missing count defaults to the maximum")
	assert.Equal(t, 0, spec.Offset)
	assert.True(t, spec.ShowNamespace)
	assert.True(t, spec.Gallery.ShowFilename)
	assert.False(t, spec.Gallery.ShowFileSize)
	assert.False(t, spec.SuppressErrors)
	assert.False(t, spec.ReviewFilter)
}

func TestBuild_NoIncludeCategories(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		suppress bool
	}{
		{"empty input", "", false},
		{"only exclusions", "notcategory=Extinct", false},
		{"unknown keys only", "colour=blue\ncount=5", false},
		{"unresolvable category", "category=Bad|name", false},
		{"suppressed", "notcategory=Extinct\nsuppresserrors=true", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := build(t, tc.input, DefaultConfig())
			require.Error(t, err)
			assert.True(t, HasCode(err, ErrCodeNoIncludeCategories))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.suppress, ve.SuppressErrors)
		})
	}
}

func TestBuild_NamespaceAloneIsEnough(t *testing.T) {
	spec := mustBuild(t, "namespace=File", DefaultConfig())
	assert.True(t, spec.NamespaceFilter)
	assert.Equal(t, 6, spec.Namespace)
}

func TestBuild_TooManyCategories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCategories = 2

	input := "category=A\ncategory=B\nnotcategory=C"
	_, err := build(t, input, cfg)
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeTooManyCategories))
	assert.Contains(t, err.Error(), "intersection_toomanycats")

	cfg.AllowUnlimitedCategories = true
	spec := mustBuild(t, input, cfg)
	assert.Equal(t, 3, spec.TotalCategories())
}

func TestBuild_NoCategoriesCheckedFirst(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxCategories = 1

	_, err := build(t, "notcategory=A\nnotcategory=B", cfg)
	assert.True(t, HasCode(err, ErrCodeNoIncludeCategories))
}

func TestBuild_CountClamp(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxResultCount = 500

	testCases := []struct {
		name      string
		input     string
		unlimited bool
		want      int
	}{
		{"over maximum", "count=99999", false, 500},
		{"zero", "count=0", false, 1},
		{"negative", "count=-4", false, 1},
		{"garbage reads as zero", "count=lots", false, 1},
		{"numeric prefix", "count=12px", false, 12},
		{"within range", "count=20", false, 20},
		{"last occurrence wins", "count=3\ncount=9", false, 9},
		{"missing count", "", false, 500},
		{"missing count unlimited", "", true, 0},
		{"explicit count still clamped when unlimited", "count=99999", true, 500},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			c.AllowUnlimitedResults = tc.unlimited
			spec := mustBuild(t, "category=Trees\n"+tc.input, c)
			assert.Equal(t, tc.want, spec.Limit)
		})
	}
}

func TestBuild_Offset(t *testing.T) {
	assert.Equal(t, 10, mustBuild(t, "category=A\noffset=10", DefaultConfig()).Offset)
	assert.Equal(t, 0, mustBuild(t, "category=A\noffset=-10", DefaultConfig()).Offset)
	assert.Equal(t, 0, mustBuild(t, "category=A\noffset=abc", DefaultConfig()).Offset)
}

func TestBuild_CategoriesAccumulate(t *testing.T) {
	input := "category=Trees\ncategory=Conifers\nnotcategory=Extinct\ncategory=trees\ncategory=Bad#one"
	spec := mustBuild(t, input, DefaultConfig())

	assert.Equal(t, []string{"Trees", "Conifers", "Trees"}, spec.IncludeCategories,
		"document order kept, duplicates kept, invalid names dropped")
	assert.Equal(t, []string{"Extinct"}, spec.ExcludeCategories)
}

func TestBuild_OrderMethod(t *testing.T) {
	testCases := []struct {
		value    string
		counters bool
		want     OrderMethod
	}{
		{"lastedit", false, OrderLastEdit},
		{"length", false, OrderLength},
		{"created", false, OrderCreated},
		{"sortkey", false, OrderCategorySortkey},
		{"categorysortkey", false, OrderCategorySortkey},
		{"categoryadd", false, OrderCategoryAdd},
		{"popularity", true, OrderPopularity},
		{"popularity", false, OrderCategoryAdd},
		{"bogus", false, OrderCategoryAdd},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.CountersEnabled = tc.counters
			spec := mustBuild(t, "category=A\nordermethod="+tc.value, cfg)
			assert.Equal(t, tc.want, spec.OrderMethod)
		})
	}
}

func TestBuild_PopularityNeverSelectableWithoutCounters(t *testing.T) {
	_, err := build(t, "redirects=only\nordermethod=popularity", DefaultConfig())
	assert.True(t, HasCode(err, ErrCodeNoIncludeCategories))

	spec := mustBuild(t, "category=Trees\nredirects=only\nordermethod=popularity", DefaultConfig())
	assert.Equal(t, OrderCategoryAdd, spec.OrderMethod)
	assert.Equal(t, PolicyOnly, spec.Redirects)
}

func TestBuild_CategoryOrderDowngrade(t *testing.T) {
	for _, method := range []string{"categoryadd", "categorysortkey", "sortkey"} {
		t.Run(method, func(t *testing.T) {
			spec := mustBuild(t, "namespace=0\nordermethod="+method, DefaultConfig())
			assert.Equal(t, OrderCreated, spec.OrderMethod)
		})
	}

	spec := mustBuild(t, "namespace=0\nordermethod=length", DefaultConfig())
	assert.Equal(t, OrderLength, spec.OrderMethod, "non-category methods are kept")
}

func TestBuild_DateAnnotation(t *testing.T) {
	testCases := []struct {
		value string
		want  DateAnnotation
	}{
		{"true", DateAnnotation{Enabled: true}},
		{"false", DateAnnotation{}},
		{"dmy", DateAnnotation{Enabled: true, Pattern: "dmy"}},
		{"ISO 8601", DateAnnotation{Enabled: true, Pattern: "ISO 8601"}},
		{"md", DateAnnotation{Enabled: true, Pattern: "md", StripYear: true}},
		{"dddd", DateAnnotation{}},
		{"yes", DateAnnotation{}},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			spec := mustBuild(t, "category=A\naddfirstcategorydate="+tc.value, DefaultConfig())
			assert.Equal(t, tc.want, spec.Date)
		})
	}

	spec := mustBuild(t, "namespace=0\naddfirstcategorydate=true", DefaultConfig())
	assert.False(t, spec.Date.Enabled, "date needs an include category")
}

func TestBuild_Namespace(t *testing.T) {
	testCases := []struct {
		value  string
		filter bool
		ns     int
	}{
		{"File", true, 6},
		{"user talk", true, 3},
		{"14", true, 14},
		{"0", true, 0},
		{"main", true, 0},
		{"banana", true, 0},
		{"-1", false, -1},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			spec := mustBuild(t, "category=A\nnamespace="+tc.value, DefaultConfig())
			assert.Equal(t, tc.filter, spec.NamespaceFilter)
			assert.Equal(t, tc.ns, spec.Namespace)
		})
	}
}

func TestBuild_Mode(t *testing.T) {
	testCases := map[string]OutputMode{
		"gallery":   ModeGallery,
		"none":      ModeNone,
		"ordered":   ModeOrdered,
		"inline":    ModeInline,
		"unordered": ModeUnordered,
		"fancy":     ModeUnordered,
	}

	for value, want := range testCases {
		t.Run(value, func(t *testing.T) {
			spec := mustBuild(t, "category=A\nmode="+value, DefaultConfig())
			assert.Equal(t, want, spec.Mode)
		})
	}
}

func TestBuild_Flags(t *testing.T) {
	spec := mustBuild(t, `category=A
order=ascending
redirects=include
shownamespace=false
ignoresubpages=true
googlehack=yes
nofollow=whatever
suppresserrors=true
imagewidth=120
imageheight=80px
imagesperrow=4
gallerycaption=Trees of the world
galleryshowfilesize=true
galleryshowfilename=no`, DefaultConfig())

	assert.Equal(t, Ascending, spec.Order)
	assert.Equal(t, PolicyInclude, spec.Redirects)
	assert.False(t, spec.ShowNamespace)
	assert.True(t, spec.IgnoreSubpages)
	assert.True(t, spec.GoogleHack)
	assert.True(t, spec.NoFollow)
	assert.True(t, spec.SuppressErrors)
	assert.Equal(t, GalleryOptions{
		ImageWidth:   120,
		ImageHeight:  80,
		PerRow:       4,
		Caption:      "Trees of the world",
		ShowFilename: false,
		ShowFileSize: true,
	}, spec.Gallery)
}

func TestBuild_FlagFallbacks(t *testing.T) {
	spec := mustBuild(t, `category=A
order=sideways
redirects=maybe
ignoresubpages=yes
suppresserrors=1
nofollow=false
googlehack=false`, DefaultConfig())

	assert.Equal(t, Descending, spec.Order)
	assert.Equal(t, PolicyExclude, spec.Redirects)
	assert.False(t, spec.IgnoreSubpages)
	assert.False(t, spec.SuppressErrors)
	assert.False(t, spec.NoFollow)
	assert.False(t, spec.GoogleHack)
}

func TestBuild_ReviewFilter(t *testing.T) {
	cfg := DefaultConfig()

	spec := mustBuild(t, "category=A\nstablepages=only", cfg)
	assert.Equal(t, PolicyOnly, spec.Stable)
	assert.False(t, spec.ReviewFilter, "inert without the review extension")

	cfg.ReviewExtension = true
	spec = mustBuild(t, "category=A\nstablepages=only\nqualitypages=bogus", cfg)
	assert.Equal(t, PolicyOnly, spec.Stable)
	assert.Equal(t, PolicyExclude, spec.Quality)
	assert.True(t, spec.ReviewFilter)

	spec = mustBuild(t, "category=A\nstablepages=exclude\nstablepages=include", cfg)
	assert.False(t, spec.ReviewFilter)
}

func TestBuild_Deterministic(t *testing.T) {
	input := "category=Trees\nnotcategory=Extinct\ncount=2\nmode=inline"
	first := mustBuild(t, input, DefaultConfig())
	second := mustBuild(t, input, DefaultConfig())
	assert.Equal(t, first, second)
}

func TestLeadingInt(t *testing.T) {
	testCases := map[string]int{
		"":       0,
		"42":     42,
		"  42":   42,
		"+7":     7,
		"-7":     -7,
		"12abc":  12,
		"abc12":  0,
		"- 3":    0,
		"3.9":    3,
		"999999999999999999999999": int(^uint(0) >> 1),
	}
	for input, want := range testCases {
		assert.Equal(t, want, leadingInt(input), "leadingInt(%q)", input)
	}
}

func TestOutputModeWrappers(t *testing.T) {
	assert.Equal(t, Wrappers{"<ul>", "</ul>", "<li>", "</li>"}, ModeUnordered.Wrappers())
	assert.Equal(t, Wrappers{"<ol>", "</ol>", "<li>", "</li>"}, ModeOrdered.Wrappers())
	assert.Equal(t, Wrappers{EndItem: "<br />"}, ModeNone.Wrappers())
	assert.Equal(t, Wrappers{}, ModeInline.Wrappers())
	assert.Equal(t, Wrappers{}, ModeGallery.Wrappers())
}
