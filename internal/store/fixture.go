package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"gopkg.in/yaml.v3"

	"github.com/roach88/dpl/internal/wiki"
)

// defaultTimestamp is used when a fixture omits a page or category time.
const defaultTimestamp = "20010115000000"

// Fixture is a YAML description of wiki pages and their categories.
//
// Example:
//
//	pages:
//	  - id: 1
//	    title: Oak
//	    length: 1200
//	    touched: "20240301120000"
//	    categories:
//	      - name: Trees
//	        added: "20240101000000"
type Fixture struct {
	Pages []FixturePage `yaml:"pages" validate:"required,min=1,unique=ID,dive"`
}

// FixturePage is one page of a fixture.
type FixturePage struct {
	ID         int64             `yaml:"id" validate:"required,gt=0"`
	Namespace  int               `yaml:"namespace" validate:"gte=0"`
	Title      string            `yaml:"title" validate:"required"`
	Redirect   bool              `yaml:"redirect"`
	Length     int64             `yaml:"length" validate:"gte=0"`
	Touched    string            `yaml:"touched" validate:"omitempty,len=14,numeric"`
	Counter    int64             `yaml:"counter" validate:"gte=0"`
	Categories []FixtureCategory `yaml:"categories" validate:"unique=Name,dive"`
	Review     *FixtureReview    `yaml:"review"`
}

// FixtureCategory is one category membership of a fixture page.
type FixtureCategory struct {
	Name    string `yaml:"name" validate:"required"`
	Added   string `yaml:"added" validate:"omitempty,len=14,numeric"`
	SortKey string `yaml:"sortkey"`
}

// FixtureReview is the review status of a fixture page.
type FixtureReview struct {
	Stable  *int64 `yaml:"stable" validate:"omitempty,gt=0"`
	Quality *int   `yaml:"quality" validate:"omitempty,gte=0,lte=2"`
}

// FixtureError lists every validation problem of a fixture.
type FixtureError struct {
	Path     string
	Problems []string
}

func (e *FixtureError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid fixture %s: %s", e.Path, strings.Join(e.Problems, "; "))
	}
	return "invalid fixture: " + strings.Join(e.Problems, "; ")
}

var (
	vOnce  sync.Once
	vInst  *validator.Validate
	vTrans ut.Translator
)

// fixtureValidator returns the validator singleton with English messages
// and yaml field names.
func fixtureValidator() (*validator.Validate, ut.Translator) {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		vTrans, _ = uni.GetTranslator("en")

		vInst = validator.New(validator.WithRequiredStructEnabled())
		vInst.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("yaml")
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			if tag == "" || tag == "-" {
				return fld.Name
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(vInst, vTrans)
	})
	return vInst, vTrans
}

// LoadFixture reads and validates a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	f, err := ParseFixture(data)
	if err != nil {
		var fe *FixtureError
		if errors.As(err, &fe) {
			fe.Path = path
		}
		return nil, err
	}
	return f, nil
}

// ParseFixture decodes and validates YAML fixture data.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the fixture's structural rules. Problems are reported
// with their yaml paths, e.g. "pages[1].title is a required field".
func (f *Fixture) Validate() error {
	v, trans := fixtureValidator()
	err := v.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate fixture: %w", err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		path := strings.TrimPrefix(fe.Namespace(), "Fixture.")
		msg := fe.Translate(trans)
		problems = append(problems, path+": "+msg)
	}
	return &FixtureError{Problems: problems}
}

// Seed writes every page of the fixture in one transaction.
// Page titles and category names are normalized to DB keys; a name that
// cannot form a title fails the whole seed.
func (s *Store) Seed(ctx context.Context, f *Fixture) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	for _, fp := range f.Pages {
		if err := seedPage(ctx, tx, fp); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit: %w", err)
	}
	return nil
}

func seedPage(ctx context.Context, tx execer, fp FixturePage) error {
	title, ok := wiki.MakeTitleSafe(fp.Namespace, fp.Title)
	if !ok {
		return fmt.Errorf("page %d: invalid title %q", fp.ID, fp.Title)
	}

	touched, err := ParseTimestamp(orDefault(fp.Touched, defaultTimestamp))
	if err != nil {
		return fmt.Errorf("page %d: %w", fp.ID, err)
	}

	page := Page{
		ID:         fp.ID,
		Namespace:  title.Namespace,
		Title:      title.DBKey,
		IsRedirect: fp.Redirect,
		Length:     fp.Length,
		Touched:    touched,
		Counter:    fp.Counter,
	}
	if err := writePage(ctx, tx, page); err != nil {
		return err
	}

	for _, fc := range fp.Categories {
		cat, ok := wiki.MakeTitleSafe(wiki.NSCategory, fc.Name)
		if !ok {
			return fmt.Errorf("page %d: invalid category %q", fp.ID, fc.Name)
		}
		added, err := ParseTimestamp(orDefault(fc.Added, FormatTimestamp(touched)))
		if err != nil {
			return fmt.Errorf("page %d: category %s: %w", fp.ID, cat.DBKey, err)
		}
		link := CategoryLink{
			PageID:   fp.ID,
			Category: cat.DBKey,
			SortKey:  orDefault(fc.SortKey, strings.ToUpper(title.Text())),
			Added:    added,
			Type:     LinkType(title.Namespace),
		}
		if err := writeCategoryLink(ctx, tx, link); err != nil {
			return err
		}
	}

	if fp.Review != nil {
		r := Review{PageID: fp.ID, Stable: fp.Review.Stable, Quality: fp.Review.Quality}
		if err := writeReview(ctx, tx, r); err != nil {
			return err
		}
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
