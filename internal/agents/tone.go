package agents

import (
	"strings"

	"github.com/esperstack/esper-mail/internal/packet"
)

// #region indicators

var warmthIndicators = []string{
	"thanks", "thank you", "appreciate", "grateful", "gratitude",
	"love", "loving", "loved", "dear", "kind", "kindly",
	"hope you", "hope all is well", "hope you're well",
	"best wishes", "best regards", "warm regards",
	"cheers", "xo", "hugs", "❤", "💕", "🙏", "😊",
}

var tensionIndicators = []string{
	"sorry", "apologize", "unfortunately", "regret", "concern", "concerned",
	"worry", "worried", "issue", "problem", "trouble", "difficult",
	"disappointed", "frustrat", "upset", "angry", "unacceptable",
	"mistake", "error", "wrong", "incorrect", "failed",
}

var formalityIndicators = []string{
	"dear sir", "dear madam", "to whom", "sincerely", "regards",
	"respectfully", "cordially", "please be advised", "kindly note",
	"herein", "pursuant", "whereas", "hereby",
	"mr.", "ms.", "mrs.", "dr.", "prof.",
}

// personalSenderTerms in the sender address mark family or close
// personal relationships.
var personalSenderTerms = []string{
	"mom", "dad", "mother", "father", "sister", "brother",
	"family", "friend", "personal",
}

// #endregion indicators

// #region analyze

// AnalyzeTone scores relationship warmth, conflict tension, and
// formality. A personal sender boosts warmth and drops formality.
func AnalyzeTone(text string, meta packet.Metadata) (warmth, tension, formality float64, gloss string) {
	lower := strings.ToLower(text)

	warmth = packet.Clamp01(float64(countPresent(lower, warmthIndicators)) / 5.0)
	tension = packet.Clamp01(float64(countPresent(lower, tensionIndicators)) / 5.0)
	formality = packet.Clamp01(float64(countPresent(lower, formalityIndicators)) / 3.0)

	sender := strings.ToLower(meta.Sender)
	for _, term := range personalSenderTerms {
		if strings.Contains(sender, term) {
			warmth = packet.Clamp01(warmth + 0.3)
			formality -= 0.4
			if formality < 0 {
				formality = 0
			}
			break
		}
	}

	var descriptors []string
	if warmth > 0.5 {
		descriptors = append(descriptors, "warm")
	}
	if tension > 0.5 {
		descriptors = append(descriptors, "tense")
	}
	if formality > 0.6 {
		descriptors = append(descriptors, "formal")
	} else if formality < 0.3 {
		descriptors = append(descriptors, "casual")
	}
	if len(descriptors) == 0 {
		descriptors = append(descriptors, "neutral")
	}

	return warmth, tension, formality, "Tone: " + strings.Join(descriptors, " and ")
}

// countPresent counts how many indicators appear in text at least once.
func countPresent(text string, indicators []string) int {
	n := 0
	for _, ind := range indicators {
		if strings.Contains(text, ind) {
			n++
		}
	}
	return n
}

// #endregion analyze
