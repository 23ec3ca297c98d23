package parser

import "strings"

// Keyword lists are matched case-insensitively against the whole text.
// Wedding indicators win over formal ones when both appear.
var weddingKeywords = []string{
	"wedding", "marriage", "bride", "groom", "ceremony", "reception",
	"celebrate the marriage", "request the pleasure", "request the honour",
	"request the honor", "wedding invitation", "marriage of",
	"together with their families", "nuptials",
}

var formalKeywords = []string{
	"invitation to", "cordially invited", "request your presence",
	"pleasure of your company", "formal invitation", "black tie",
	"gala", "annual dinner", "conference", "symposium", "ceremony",
}

// Classify picks the extraction strategy for a block of invitation text.
func Classify(text string) Strategy {
	lower := strings.ToLower(text)
	for _, kw := range weddingKeywords {
		if strings.Contains(lower, kw) {
			return StrategyWedding
		}
	}
	for _, kw := range formalKeywords {
		if strings.Contains(lower, kw) {
			return StrategyFormal
		}
	}
	return StrategyGeneric
}
