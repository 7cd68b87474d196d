// Package config loads renderer settings from a CUE file.
//
// The file is unified with the embedded #Config schema, which supplies
// types, bounds and defaults. Unknown fields are rejected because the
// schema is a closed definition.
//
// Example dpl.cue:
//
//	maxCategories:   10
//	reviewExtension: true
//	language:        "de"
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/dpl/internal/queryspec"
)

//go:embed schema.cue
var schemaCUE string

// Config holds the renderer settings.
type Config struct {
	MaxCategories            int    `json:"maxCategories"`
	MaxResultCount           int    `json:"maxResultCount"`
	AllowUnlimitedCategories bool   `json:"allowUnlimitedCategories"`
	AllowUnlimitedResults    bool   `json:"allowUnlimitedResults"`
	MaxCacheTime             int    `json:"maxCacheTime"`
	ReviewExtension          bool   `json:"reviewExtension"`
	CountersEnabled          bool   `json:"countersEnabled"`
	Language                 string `json:"language"`
	ArticlePath              string `json:"articlePath"`
}

// Limits returns the settings queryspec.Build needs.
func (c Config) Limits() queryspec.Config {
	return queryspec.Config{
		MaxCategories:            c.MaxCategories,
		MaxResultCount:           c.MaxResultCount,
		AllowUnlimitedCategories: c.AllowUnlimitedCategories,
		AllowUnlimitedResults:    c.AllowUnlimitedResults,
		ReviewExtension:          c.ReviewExtension,
		CountersEnabled:          c.CountersEnabled,
	}
}

// CacheExpiry is MaxCacheTime as a duration.
func (c Config) CacheExpiry() time.Duration {
	return time.Duration(c.MaxCacheTime) * time.Second
}

// Error codes for LoadError.
const (
	ErrCodeRead    = "CONFIG_READ"
	ErrCodeSyntax  = "CONFIG_SYNTAX"
	ErrCodeInvalid = "CONFIG_INVALID"
	ErrCodeDecode  = "CONFIG_DECODE"
)

// LoadError is a config problem, with the CUE position when known.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
	Err     error
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Default returns the schema defaults.
func Default() Config {
	c, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	return c
}

// Load reads a CUE config file. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Parse(nil, "")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &LoadError{Code: ErrCodeRead, Message: err.Error(), Err: err}
	}
	return Parse(data, path)
}

// Parse unifies CUE source with the schema and decodes the result.
// filename is used in error positions only.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, cueError(ErrCodeSyntax, err)
	}
	v := schema.LookupPath(cue.ParsePath("#Config"))

	if len(data) > 0 {
		user := ctx.CompileBytes(data, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return Config{}, cueError(ErrCodeSyntax, err)
		}
		v = v.Unify(user)
	}

	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, cueError(ErrCodeInvalid, err)
	}

	var c Config
	if err := v.Decode(&c); err != nil {
		return Config{}, cueError(ErrCodeDecode, err)
	}
	return c, nil
}

// cueError converts the first CUE error to a LoadError.
func cueError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error(), Err: err}

	var ce cueerrors.Error
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		ce = errs[0]
	} else if !errors.As(err, &ce) {
		return le
	}
	le.Message = ce.Error()
	le.Pos = ce.Position()
	return le
}
