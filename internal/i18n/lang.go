package i18n

import (
	"errors"
	"strings"
)

// Language is a two-letter display language code. The site is bilingual:
// Spanish is the default, English the alternative.
type Language string

const (
	ES Language = "es"
	EN Language = "en"
)

// Default is the language used when no preference is known.
const Default = ES

var ErrInvalidLanguage = errors.New("i18n: invalid language")

// Parse normalizes a language tag ("en", "EN", "en-US", " es_MX ") to a
// supported Language. Anything that does not map onto es/en is rejected.
func Parse(s string) (Language, error) {
	t := strings.ToLower(strings.TrimSpace(s))
	if len(t) >= 2 {
		t = t[:2]
	}
	switch Language(t) {
	case ES:
		return ES, nil
	case EN:
		return EN, nil
	}
	return "", ErrInvalidLanguage
}

// Other returns the opposite language (es<->en).
func (l Language) Other() Language {
	if l == EN {
		return ES
	}
	return EN
}

func (l Language) String() string { return string(l) }

// FromAcceptLanguage picks a supported language from an Accept-Language
// header value, defaulting to Spanish.
func FromAcceptLanguage(header string) Language {
	for _, part := range strings.Split(header, ",") {
		code := strings.TrimSpace(strings.Split(part, ";")[0])
		if lang, err := Parse(code); err == nil {
			return lang
		}
	}
	return Default
}
