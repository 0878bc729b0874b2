package content

import (
	"fmt"
	"slices"
	"strings"
)

type Locale string

const (
	LocaleEnglish Locale = "en"
	LocalePolish  Locale = "pl"
)

// LocaleSet is the configured set of locales together with the default one.
// It is the only place the default locale is decided.
type LocaleSet struct {
	supported []Locale
	def       Locale
}

func NewLocaleSet(def Locale, supported ...Locale) (LocaleSet, error) {
	if len(supported) == 0 {
		return LocaleSet{}, fmt.Errorf("at least one locale is required")
	}
	if !slices.Contains(supported, def) {
		return LocaleSet{}, fmt.Errorf("default locale %q is not one of %v", def, supported)
	}
	return LocaleSet{supported: slices.Clone(supported), def: def}, nil
}

// DefaultLocaleSet is en/pl with en as default.
func DefaultLocaleSet() LocaleSet {
	return LocaleSet{supported: []Locale{LocaleEnglish, LocalePolish}, def: LocaleEnglish}
}

// ParseLocaleList parses a comma separated list such as "en,pl".
func ParseLocaleList(s string) []Locale {
	var out []Locale
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, Locale(strings.ToLower(part)))
	}
	return out
}

func (ls LocaleSet) Default() Locale {
	return ls.def
}

func (ls LocaleSet) Supported() []Locale {
	return slices.Clone(ls.supported)
}

func (ls LocaleSet) Contains(l Locale) bool {
	return slices.Contains(ls.supported, l)
}

// Resolve returns the default locale for an empty value and rejects
// locales outside the set.
func (ls LocaleSet) Resolve(raw string) (Locale, error) {
	if raw == "" {
		return ls.def, nil
	}
	l := Locale(raw)
	if !ls.Contains(l) {
		return "", fmt.Errorf("unsupported locale %q, expected one of %v", raw, ls.supported)
	}
	return l, nil
}
