package queryspec

// Config holds the site-wide limits consulted by Build.
// Config is passed by value and never read from process state.
type Config struct {
	// MaxCategories bounds include+exclude categories per list.
	MaxCategories int

	// MaxResultCount bounds the row count of a list.
	MaxResultCount int

	// AllowUnlimitedCategories disables the MaxCategories check.
	AllowUnlimitedCategories bool

	// AllowUnlimitedResults drops the implicit LIMIT when no count is given.
	// An explicit count is still clamped to MaxResultCount.
	AllowUnlimitedResults bool

	// ReviewExtension reports that the review-status store is installed.
	// Without it the stablepages and qualitypages directives are inert.
	ReviewExtension bool

	// CountersEnabled reports that pages carry a view counter.
	// Without it ordermethod=popularity falls back to categoryadd.
	CountersEnabled bool
}

// DefaultConfig returns the stock limits.
func DefaultConfig() Config {
	return Config{
		MaxCategories:  6,
		MaxResultCount: 200,
	}
}
