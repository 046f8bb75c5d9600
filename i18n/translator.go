package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected", "limit" or "field").
type Translator interface {
	Message(code string, data map[string]string) string
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(code string, data map[string]string) string

func (f TranslatorFunc) Message(code string, data map[string]string) string { return f(code, data) }

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var catalogues = map[string]map[string]string{
	"en": {
		"required":                "{field} is required",
		"type":                    "{field}: expected {expected}",
		"pattern":                 "{field} does not match pattern {pattern}",
		"minLength":               "{field} is shorter than {limit} characters",
		"maxLength":               "{field} is longer than {limit} characters",
		"minInclusive":            "{field} must be at least {limit}",
		"maxInclusive":            "{field} must be at most {limit}",
		"minExclusive":            "{field} must be greater than {limit}",
		"maxExclusive":            "{field} must be less than {limit}",
		"enumeration":             "{field} must be one of: {allowed}",
		"MISSING_REQUIRED_HEADER": "required column {field} is missing",
		"rule":                    "{field} fails rule {rule}",
	},
	"ja": {
		"required":                "{field} は必須です",
		"type":                    "{field}: {expected} を指定してください",
		"pattern":                 "{field} がパターン {pattern} に一致しません",
		"minLength":               "{field} は {limit} 文字以上にしてください",
		"maxLength":               "{field} は {limit} 文字以下にしてください",
		"minInclusive":            "{field} は {limit} 以上にしてください",
		"maxInclusive":            "{field} は {limit} 以下にしてください",
		"minExclusive":            "{field} は {limit} より大きくしてください",
		"maxExclusive":            "{field} は {limit} より小さくしてください",
		"enumeration":             "{field} は次のいずれかにしてください: {allowed}",
		"MISSING_REQUIRED_HEADER": "必須列 {field} がありません",
		"rule":                    "{field} がルール {rule} を満たしていません",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := catalogues[t.lang][code]
	if !ok {
		return code
	}
	if data["field"] == "" {
		if t.lang == "ja" {
			data = with(data, "field", "値")
		} else {
			data = with(data, "field", "value")
		}
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func with(data map[string]string, k, v string) map[string]string {
	out := make(map[string]string, len(data)+1)
	for dk, dv := range data {
		out[dk] = dv
	}
	out[k] = v
	return out
}

// New returns the built-in Translator for lang ("en" or "ja"). Other
// languages fall back to English.
func New(lang string) Translator {
	if _, ok := catalogues[lang]; !ok {
		lang = "en"
	}
	return dictTranslator{lang: lang}
}

// Default returns the English Translator.
func Default() Translator { return dictTranslator{lang: "en"} }
