package domain

// Language is a supported interface language.
type Language string

const (
	LanguageEN Language = "en"
	LanguageFR Language = "fr"
)

// DefaultLanguage is used until a persisted preference is loaded.
const DefaultLanguage = LanguageFR

// ParseLanguage accepts exactly "en" or "fr".
func ParseLanguage(s string) (Language, bool) {
	switch Language(s) {
	case LanguageEN, LanguageFR:
		return Language(s), true
	default:
		return "", false
	}
}
