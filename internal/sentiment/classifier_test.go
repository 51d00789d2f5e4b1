package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rahulvat-s/EmotiveChatFlow/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.Sentiment
	}{
		{name: "positive word", text: "I am happy", want: domain.SentimentPositive},
		{name: "negative word", text: "this is bad", want: domain.SentimentNegative},
		{name: "both lists matched", text: "I love it but it was terrible", want: domain.SentimentNeutral},
		{name: "neither list matched", text: "ok fine", want: domain.SentimentNeutral},
		{name: "case insensitive positive", text: "GREAT stuff", want: domain.SentimentPositive},
		{name: "case insensitive negative", text: "HoRrIbLe", want: domain.SentimentNegative},
		{name: "empty text", text: "", want: domain.SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassify_SubstringMatch(t *testing.T) {
	// Matching is substring containment, not word matching: "badge"
	// contains "bad". Changing this changes observable behavior.
	assert.Equal(t, domain.SentimentNegative, Classify("badge"))
	assert.Equal(t, domain.SentimentPositive, Classify("goodbye"))
}
