package queryspec

// Policy selects how pages with a given property are treated.
type Policy int

const (
	// PolicyInclude ignores the property.
	PolicyInclude Policy = iota
	// PolicyExclude keeps only pages without the property.
	PolicyExclude
	// PolicyOnly keeps only pages with the property.
	PolicyOnly
)

func (p Policy) String() string {
	switch p {
	case PolicyInclude:
		return "include"
	case PolicyExclude:
		return "exclude"
	case PolicyOnly:
		return "only"
	default:
		return "unknown"
	}
}

// OrderMethod selects the sort column of the list.
type OrderMethod int

const (
	OrderCategoryAdd OrderMethod = iota
	OrderLastEdit
	OrderLength
	OrderCreated
	OrderCategorySortkey
	OrderPopularity
)

func (m OrderMethod) String() string {
	switch m {
	case OrderCategoryAdd:
		return "categoryadd"
	case OrderLastEdit:
		return "lastedit"
	case OrderLength:
		return "length"
	case OrderCreated:
		return "created"
	case OrderCategorySortkey:
		return "categorysortkey"
	case OrderPopularity:
		return "popularity"
	default:
		return "unknown"
	}
}

// NeedsCategoryJoin reports whether sorting reads the first include
// category join.
func (m OrderMethod) NeedsCategoryJoin() bool {
	return m == OrderCategoryAdd || m == OrderCategorySortkey
}

// Direction is the sort direction.
type Direction int

const (
	Descending Direction = iota
	Ascending
)

func (d Direction) String() string {
	if d == Ascending {
		return "ascending"
	}
	return "descending"
}

// OutputMode selects the envelope the rendered items are wrapped in.
type OutputMode int

const (
	ModeUnordered OutputMode = iota
	ModeOrdered
	ModeInline
	ModeNone
	ModeGallery
)

func (m OutputMode) String() string {
	switch m {
	case ModeUnordered:
		return "unordered"
	case ModeOrdered:
		return "ordered"
	case ModeInline:
		return "inline"
	case ModeNone:
		return "none"
	case ModeGallery:
		return "gallery"
	default:
		return "unknown"
	}
}

// Wrappers are the literal strings placed around the list and each item.
type Wrappers struct {
	StartList string
	EndList   string
	StartItem string
	EndItem   string
}

// Wrappers returns the envelope strings of the mode.
// Inline and gallery modes have no wrappers.
func (m OutputMode) Wrappers() Wrappers {
	switch m {
	case ModeOrdered:
		return Wrappers{StartList: "<ol>", EndList: "</ol>", StartItem: "<li>", EndItem: "</li>"}
	case ModeNone:
		return Wrappers{EndItem: "<br />"}
	case ModeInline, ModeGallery:
		return Wrappers{}
	default:
		return Wrappers{StartList: "<ul>", EndList: "</ul>", StartItem: "<li>", EndItem: "</li>"}
	}
}

// DateAnnotation controls the first-category-date prefix on each item.
type DateAnnotation struct {
	Enabled bool

	// Pattern is the requested date pattern ("dmy", "md", "ISO 8601", ...).
	// Empty means the language's default date form.
	Pattern string

	// StripYear is set for two-letter patterns such as "dm".
	StripYear bool
}

// GalleryOptions are passed through to the gallery widget in gallery mode.
// Zero sizes mean "widget default".
type GalleryOptions struct {
	ImageWidth   int
	ImageHeight  int
	PerRow       int
	Caption      string
	ShowFilename bool
	ShowFileSize bool
}

// Spec is a validated list query.
//
// A Spec is produced by Build and treated as immutable afterwards:
// the compiler and formatter only read it.
type Spec struct {
	// IncludeCategories are category DB keys a page must be in, in
	// directive order. Duplicates are kept; each becomes its own join.
	IncludeCategories []string

	// ExcludeCategories are category DB keys a page must not be in.
	ExcludeCategories []string

	// NamespaceFilter enables the Namespace restriction.
	NamespaceFilter bool
	Namespace       int

	Redirects Policy
	Stable    Policy
	Quality   Policy

	// ReviewFilter is set when the review extension is installed and
	// the stable or quality policy is not PolicyInclude.
	ReviewFilter bool

	OrderMethod OrderMethod
	Order       Direction

	// Limit is the maximum row count; 0 means unlimited.
	Limit  int
	Offset int

	Mode    OutputMode
	Gallery GalleryOptions
	Date    DateAnnotation

	ShowNamespace  bool
	IgnoreSubpages bool
	GoogleHack     bool
	NoFollow       bool
	SuppressErrors bool
}

// TotalCategories is the number of include and exclude categories.
func (s Spec) TotalCategories() int {
	return len(s.IncludeCategories) + len(s.ExcludeCategories)
}
