package analytics

import (
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// DefaultMonths is the series length used when callers pass a non-positive count
const DefaultMonths = 6

// DefaultLocale is used for month labels when no (or an unknown) locale is given
const DefaultLocale = "en"

// labelLocales are the locales month labels are translated into. The first
// entry is the fallback for tags nothing else matches.
var labelLocales = []struct {
	tag    language.Tag
	locale monday.Locale
}{
	{language.English, monday.LocaleEnUS},
	{language.German, monday.LocaleDeDE},
	{language.French, monday.LocaleFrFR},
	{language.Spanish, monday.LocaleEsES},
	{language.Italian, monday.LocaleItIT},
	{language.Dutch, monday.LocaleNlNL},
	{language.Portuguese, monday.LocalePtPT},
}

var labelMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(labelLocales))
	for i, l := range labelLocales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// MonthKey identifies a calendar month
type MonthKey struct {
	Year  int
	Month time.Month
}

// KeyOf returns the calendar month t falls in, in t's own location
func KeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// MonthStart returns midnight on the first day of t's month, in t's location
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// SameMonth reports whether a and b fall in the same calendar month and year
func SameMonth(a, b time.Time) bool {
	return KeyOf(a) == KeyOf(b)
}

// TrailingMonths returns the n calendar months ending with now's month, oldest first
func TrailingMonths(now time.Time, n int) []MonthKey {
	if n <= 0 {
		n = DefaultMonths
	}
	start := MonthStart(now)
	keys := make([]MonthKey, n)
	for i := 0; i < n; i++ {
		keys[i] = KeyOf(start.AddDate(0, -(n - 1 - i), 0))
	}
	return keys
}

// MonthLabel returns the short month name for the given locale. Tags are
// matched on language, so "de-AT" uses the German names; unknown or malformed
// tags fall back to English.
func MonthLabel(m time.Month, locale string) string {
	return monday.Format(time.Date(2000, m, 1, 0, 0, 0, 0, time.UTC), "Jan", labelLocaleFor(locale))
}

func labelLocaleFor(locale string) monday.Locale {
	tag, err := language.Parse(locale)
	if err != nil {
		return labelLocales[0].locale
	}
	_, idx, conf := labelMatcher.Match(tag)
	if conf == language.No {
		return labelLocales[0].locale
	}
	return labelLocales[idx].locale
}
