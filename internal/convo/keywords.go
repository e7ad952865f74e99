package convo

// Keyword tables for the state-independent entry rules. Matching is exact
// against the lower-cased trimmed inbound text.
var (
	menuKeywords = keywordSet(
		"start", "hi", "hello", "menu", "start aecybertv",
		"مرحبا", "السلام عليكم", "ابدأ", "القائمة",
	)

	supportKeywords = keywordSet(
		"3", "٣", "support",
		"دعم", "الدعم", "الدعم الفني",
	)

	trialKeywords = keywordSet(
		"2", "٢", "trial", "free", "free trial",
		"تجربة", "تجربة مجانية",
	)

	offersKeywords = keywordSet(
		"1", "١", "offers",
		"عروض", "العروض",
	)
)

func keywordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func matches(set map[string]struct{}, token string) bool {
	_, ok := set[token]
	return ok
}
