package lang

// Language is the reply language selected for a sender.
type Language string

const (
	EN Language = "en"
	AR Language = "ar"
)

// Other returns the opposite supported language, used for the bilingual echo.
func (l Language) Other() Language {
	if l == AR {
		return EN
	}
	return AR
}

// Detect classifies text as Arabic when it contains at least one rune in the
// Arabic Unicode block. Everything else, including empty text, is English.
func Detect(text string) Language {
	for _, r := range text {
		if isArabic(r) {
			return AR
		}
	}
	return EN
}

func isArabic(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF: // Arabic
		return true
	case r >= 0x0750 && r <= 0x077F: // Arabic Supplement
		return true
	case r >= 0x08A0 && r <= 0x08FF: // Arabic Extended-A
		return true
	case r >= 0xFB50 && r <= 0xFDFF: // Arabic Presentation Forms-A
		return true
	case r >= 0xFE70 && r <= 0xFEFF: // Arabic Presentation Forms-B
		return true
	}
	return false
}
