// Package translate formats user facing messages for the current locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// DEFAULT_LOCALE is used when the environment reports no locale at all.
const DEFAULT_LOCALE = "en-US"

var printer *message.Printer

func init() {
	printer = NewPrinter(locale.GetLocales)
}

// NewPrinter builds a message printer for the locales reported by lookup,
// falling back to DEFAULT_LOCALE.
func NewPrinter(lookup func() ([]string, error)) *message.Printer {
	locales, err := lookup()
	if err != nil {
		log.Printf("pcireg: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{DEFAULT_LOCALE}
	}

	return message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
