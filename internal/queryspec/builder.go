package queryspec

import (
	"math"
	"regexp"
	"strings"

	"github.com/roach88/dpl/internal/directive"
	"github.com/roach88/dpl/internal/wiki"
)

// trait says how repeated directives for one key combine.
type trait int

const (
	// lastWins keeps the final occurrence in document order.
	lastWins trait = iota
	// accumulate keeps every occurrence in document order.
	accumulate
)

// field describes one recognized directive key.
type field struct {
	key   string
	trait trait
	apply func(b *specBuilder, values []string)
}

// scalar adapts a single-value normalizer to the field apply signature.
// lastWins slots always hold exactly one value.
func scalar(fn func(b *specBuilder, value string)) func(*specBuilder, []string) {
	return func(b *specBuilder, values []string) {
		fn(b, values[len(values)-1])
	}
}

// fields is the closed directive vocabulary. Keys not listed here are
// ignored. Normalizers run in table order once all directives are folded.
var fields = []field{
	{"category", accumulate, func(b *specBuilder, values []string) {
		b.spec.IncludeCategories = resolveCategories(values)
	}},
	{"notcategory", accumulate, func(b *specBuilder, values []string) {
		b.spec.ExcludeCategories = resolveCategories(values)
	}},
	{"namespace", lastWins, scalar((*specBuilder).setNamespace)},
	{"count", lastWins, scalar(func(b *specBuilder, v string) {
		b.count = leadingInt(v)
		b.countSet = true
	})},
	{"offset", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Offset = max(leadingInt(v), 0)
	})},
	{"imagewidth", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Gallery.ImageWidth = leadingInt(v)
	})},
	{"imageheight", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Gallery.ImageHeight = leadingInt(v)
	})},
	{"imagesperrow", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Gallery.PerRow = leadingInt(v)
	})},
	{"mode", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Mode = parseMode(v)
	})},
	{"gallerycaption", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Gallery.Caption = v
	})},
	{"galleryshowfilesize", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Gallery.ShowFileSize = !isNo(v)
	})},
	{"galleryshowfilename", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Gallery.ShowFilename = !isNo(v)
	})},
	{"order", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Order = Descending
		if v == "ascending" {
			b.spec.Order = Ascending
		}
	})},
	{"ordermethod", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.OrderMethod = parseOrderMethod(v, b.cfg.CountersEnabled)
	})},
	{"redirects", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Redirects = parsePolicy(v)
	})},
	{"stablepages", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Stable = parsePolicy(v)
	})},
	{"qualitypages", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Quality = parsePolicy(v)
	})},
	{"suppresserrors", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.SuppressErrors = v == "true"
	})},
	{"addfirstcategorydate", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.Date = parseDateAnnotation(v)
	})},
	{"shownamespace", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.ShowNamespace = v != "false"
	})},
	{"ignoresubpages", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.IgnoreSubpages = v == "true"
	})},
	{"googlehack", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.GoogleHack = v != "false"
	})},
	{"nofollow", lastWins, scalar(func(b *specBuilder, v string) {
		b.spec.NoFollow = v != "false"
	})},
}

var fieldIndex = func() map[string]int {
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		idx[f.key] = i
	}
	return idx
}()

// datePattern accepts the date patterns the formatter knows how to render.
var datePattern = regexp.MustCompile(`^(?:[ymd]{2,3}|ISO 8601)$`)

// specBuilder accumulates state while folding directives.
type specBuilder struct {
	cfg      Config
	spec     Spec
	count    int
	countSet bool
}

// Build folds directives into a validated Spec.
//
// Build never fails on malformed input: unknown keys are ignored and
// unrecognized values fall back to their defaults. The only failures are
// the cross-field checks, reported as *ValidationError:
//   - ErrCodeNoIncludeCategories: no include category and no namespace
//   - ErrCodeTooManyCategories: more categories than cfg allows
//
// Build is a pure function with no side effects.
func Build(directives []directive.Directive, cfg Config) (Spec, error) {
	b := &specBuilder{
		cfg: cfg,
		spec: Spec{
			Redirects:     PolicyExclude,
			Stable:        PolicyInclude,
			Quality:       PolicyInclude,
			OrderMethod:   OrderCategoryAdd,
			Order:         Descending,
			Mode:          ModeUnordered,
			ShowNamespace: true,
			Gallery:       GalleryOptions{ShowFilename: true},
		},
	}

	// Phase 1: fold by trait.
	slots := make([][]string, len(fields))
	for _, d := range directives {
		i, ok := fieldIndex[d.Key]
		if !ok {
			continue
		}
		if fields[i].trait == lastWins {
			slots[i] = []string{d.Value}
		} else {
			slots[i] = append(slots[i], d.Value)
		}
	}

	// Phase 2: normalize each folded slot.
	for i, values := range slots {
		if len(values) == 0 {
			continue
		}
		fields[i].apply(b, values)
	}

	return b.finish()
}

// finish applies the cross-field rules in a fixed order.
func (b *specBuilder) finish() (Spec, error) {
	s := b.spec
	includes := len(s.IncludeCategories)

	if includes == 0 && !s.NamespaceFilter {
		return Spec{}, newNoIncludeCategoriesError(s.SuppressErrors)
	}

	if total := s.TotalCategories(); total > b.cfg.MaxCategories && !b.cfg.AllowUnlimitedCategories {
		return Spec{}, newTooManyCategoriesError(s.SuppressErrors, total, b.cfg.MaxCategories)
	}

	switch {
	case b.countSet:
		s.Limit = min(max(b.count, 1), b.cfg.MaxResultCount)
	case !b.cfg.AllowUnlimitedResults:
		s.Limit = b.cfg.MaxResultCount
	}

	if includes == 0 {
		s.Date = DateAnnotation{}
		if s.OrderMethod.NeedsCategoryJoin() {
			s.OrderMethod = OrderCreated
		}
	}

	s.ReviewFilter = b.cfg.ReviewExtension && (s.Stable != PolicyInclude || s.Quality != PolicyInclude)

	return s, nil
}

// setNamespace resolves a namespace name or number.
//
// A value that is neither a namespace name nor starts with a number reads
// as 0 and so filters on the main namespace: "namespace=main" works by
// accident, and so does "namespace=anything". Pages rely on this.
// A negative number turns filtering off.
func (b *specBuilder) setNamespace(v string) {
	if ns, ok := wiki.NamespaceIndex(v); ok {
		b.spec.Namespace = ns
		b.spec.NamespaceFilter = true
		return
	}
	ns := leadingInt(v)
	b.spec.Namespace = ns
	b.spec.NamespaceFilter = ns >= 0
}

// resolveCategories normalizes category names to DB keys, dropping
// names that cannot form a title.
func resolveCategories(values []string) []string {
	keys := make([]string, 0, len(values))
	for _, v := range values {
		title, ok := wiki.MakeTitleSafe(wiki.NSCategory, v)
		if !ok {
			continue
		}
		keys = append(keys, title.DBKey)
	}
	return keys
}

func parseMode(v string) OutputMode {
	switch v {
	case "gallery":
		return ModeGallery
	case "none":
		return ModeNone
	case "ordered":
		return ModeOrdered
	case "inline":
		return ModeInline
	default:
		return ModeUnordered
	}
}

func parseOrderMethod(v string, countersEnabled bool) OrderMethod {
	switch v {
	case "lastedit":
		return OrderLastEdit
	case "length":
		return OrderLength
	case "created":
		return OrderCreated
	case "sortkey", "categorysortkey":
		return OrderCategorySortkey
	case "popularity":
		if countersEnabled {
			return OrderPopularity
		}
		return OrderCategoryAdd
	default:
		return OrderCategoryAdd
	}
}

func parsePolicy(v string) Policy {
	switch v {
	case "include":
		return PolicyInclude
	case "only":
		return PolicyOnly
	default:
		return PolicyExclude
	}
}

func parseDateAnnotation(v string) DateAnnotation {
	if v == "true" {
		return DateAnnotation{Enabled: true}
	}
	if datePattern.MatchString(v) {
		return DateAnnotation{Enabled: true, Pattern: v, StripYear: len(v) == 2}
	}
	return DateAnnotation{}
}

func isNo(v string) bool {
	return v == "no" || v == "false"
}

// leadingInt reads the integer prefix of s: optional leading whitespace,
// an optional sign, then digits. Anything after the digits is ignored and
// a value without digits reads as 0. Out-of-range values saturate.
func leadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	n := 0
	for i := 0; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		d := int(s[i] - '0')
		if n > (math.MaxInt-d)/10 {
			n = math.MaxInt
			break
		}
		n = n*10 + d
	}
	if neg {
		return -n
	}
	return n
}
