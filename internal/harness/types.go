package harness

// RenderOutput is what one render step produced.
type RenderOutput struct {
	Name  string `json:"name"`
	Input string `json:"input"`
	HTML  string `json:"html"`

	// Error is the render error, empty on success.
	Error string `json:"error,omitempty"`

	// ErrorCode is the RenderError code, empty on success.
	ErrorCode string `json:"error_code,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation held.
	Pass bool `json:"pass"`

	// Renders holds one output per step, in step order.
	Renders []RenderOutput `json:"renders"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Renders: []RenderOutput{},
		Errors:  []string{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
