package i18n

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	MsgNoIncludeCategories = "intersection_noincludecats"
	MsgTooManyCategories   = "intersection_toomanycats"
	MsgNoResults           = "intersection_noresults"
	MsgCommaSeparator      = "comma-separator"
	MsgColonSeparator      = "colon-separator"
)

// supported lists the content languages in matcher preference order.
// The first entry is the fallback.
var supported = []language.Tag{language.English, language.German}

var messages = map[language.Tag]map[string]string{
	language.English: {
		MsgNoIncludeCategories: "Error: You need to include at least one category, or specify a namespace!",
		MsgTooManyCategories:   "Error: Too many categories!",
		MsgNoResults:           "No results!",
		MsgCommaSeparator:      ", ",
		MsgColonSeparator:      ": ",
	},
	language.German: {
		MsgNoIncludeCategories: "Fehler: Es muss mindestens eine Kategorie angegeben werden oder ein Namensraum!",
		MsgTooManyCategories:   "Fehler: Zu viele Kategorien!",
		MsgNoResults:           "Keine Ergebnisse!",
		MsgCommaSeparator:      ", ",
		MsgColonSeparator:      ": ",
	},
}

var builtin = func() catalog.Catalog {
	c, err := newCatalog(messages)
	if err != nil {
		panic(fmt.Sprintf("i18n: built-in messages: %v", err))
	}
	return c
}()

// newCatalog compiles msgs into a catalog, reporting every message that
// fails to compile.
func newCatalog(msgs map[language.Tag]map[string]string) (catalog.Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(supported[0]))
	var errs []error
	for tag, byKey := range msgs {
		for key, msg := range byKey {
			if err := b.SetString(tag, key, msg); err != nil {
				errs = append(errs, fmt.Errorf("%s %s: %w", tag, key, err))
			}
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return b, nil
}

var matcher = language.NewMatcher(supported)

// Localizer renders interface messages and dates in one content language.
// A Localizer is immutable and safe for concurrent use.
type Localizer struct {
	tag     language.Tag
	printer *message.Printer
	dates   locales.Translator
}

// New returns the localizer closest to lang, a BCP 47 tag such as "en"
// or "de-AT". Unknown or malformed tags fall back to English.
func New(lang string) *Localizer {
	tag := supported[0]
	if parsed, err := language.Parse(lang); err == nil {
		_, idx, _ := matcher.Match(parsed)
		tag = supported[idx]
	}

	var dates locales.Translator = en.New()
	if tag == language.German {
		dates = de.New()
	}

	return &Localizer{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builtin)),
		dates:   dates,
	}
}

// Language returns the tag the localizer resolved to.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Message returns the text of a message key. Keys with no translation are
// returned unchanged.
func (l *Localizer) Message(key string) string {
	return l.printer.Sprintf(key)
}

// CommaList joins items with the localized comma separator.
func (l *Localizer) CommaList(items []string) string {
	return strings.Join(items, l.Message(MsgCommaSeparator))
}

// ColonSeparator is placed between a label and the text it introduces.
func (l *Localizer) ColonSeparator() string {
	return l.Message(MsgColonSeparator)
}
