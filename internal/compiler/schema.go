package compiler

// PageTable names the page table and the columns the compiler reads.
type PageTable struct {
	Name       string
	ID         string
	Namespace  string
	Title      string
	IsRedirect string
	Length     string
	Touched    string

	// Counter is the view counter column. Empty when the wiki keeps no
	// counters; ordering by popularity is then impossible.
	Counter string
}

// CategoryLinksTable names the page-to-category membership table.
type CategoryLinksTable struct {
	Name      string
	From      string // page id
	To        string // category DB key
	Timestamp string
	SortKey   string
	Type      string
}

// ReviewTable names the review-status table kept by the review extension.
type ReviewTable struct {
	Name    string
	PageID  string
	Stable  string // stable revision id, NULL when never reviewed
	Quality string // highest quality tier reached
}

// Schema is the storage layout the compiler emits queries against.
type Schema struct {
	Page          PageTable
	CategoryLinks CategoryLinksTable

	// Review is nil when the review extension is not installed.
	Review *ReviewTable
}

// DefaultSchema returns the MediaWiki table layout, including the view
// counter and the flaggedpages review table.
func DefaultSchema() Schema {
	return Schema{
		Page: PageTable{
			Name:       "page",
			ID:         "page_id",
			Namespace:  "page_namespace",
			Title:      "page_title",
			IsRedirect: "page_is_redirect",
			Length:     "page_len",
			Touched:    "page_touched",
			Counter:    "page_counter",
		},
		CategoryLinks: CategoryLinksTable{
			Name:      "categorylinks",
			From:      "cl_from",
			To:        "cl_to",
			Timestamp: "cl_timestamp",
			SortKey:   "cl_sortkey",
			Type:      "cl_type",
		},
		Review: &ReviewTable{
			Name:    "flaggedpages",
			PageID:  "fp_page_id",
			Stable:  "fp_stable",
			Quality: "fp_quality",
		},
	}
}

// Result column names of every compiled query. The executor scans rows
// by these names.
const (
	FieldNamespace         = "ns"
	FieldTitle             = "title"
	FieldID                = "id"
	FieldLength            = "len"
	FieldTouched           = "touched"
	FieldCategoryTimestamp = "cat_ts"
)
