// Package i18n holds the interface messages and date formats of rendered
// lists.
//
// Messages come from a golang.org/x/text catalog with English and German
// entries; month names and the long date form come from
// github.com/go-playground/locales.
package i18n
