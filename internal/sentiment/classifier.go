package sentiment

import (
	"strings"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
)

// Matching is plain substring containment on the lowercased text, no
// tokenization or stemming. "badge" matches "bad".
var (
	positiveWords = []string{
		"good", "great", "awesome", "love", "happy",
		"excellent", "amazing", "nice", "wonderful", "fantastic",
	}
	negativeWords = []string{
		"bad", "terrible", "awful", "hate", "sad",
		"horrible", "worst", "angry", "poor", "disappointing",
	}
)

// Classify maps text to a terminal sentiment label. Texts matching only the
// positive list are positive, only the negative list negative, and everything
// else (both lists or neither) neutral.
func Classify(text string) domain.Sentiment {
	lowered := strings.ToLower(text)

	hasPositive := containsAny(lowered, positiveWords)
	hasNegative := containsAny(lowered, negativeWords)

	switch {
	case hasPositive && !hasNegative:
		return domain.SentimentPositive
	case hasNegative && !hasPositive:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}
