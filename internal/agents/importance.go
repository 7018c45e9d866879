package agents

import (
	"fmt"
	"strings"

	"github.com/esperstack/esper-mail/internal/packet"
)

// #region domains

// lifeDomain groups keywords that signal long-term impact in one area
// of life, with a per-domain weight.
type lifeDomain struct {
	name     string
	weight   float64
	keywords []string
}

// lifeDomains is declared in a slice, not a map: tie-breaks between
// equally scored domains resolve to the first declared, and topic
// matching walks the same fixed order.
var lifeDomains = []lifeDomain{
	{
		name:   "financial",
		weight: 0.9,
		keywords: []string{
			"invoice", "payment", "bill", "tax", "taxes", "budget", "cost", "price",
			"money", "dollar", "invest", "investment", "loan", "debt", "salary", "raise",
		},
	},
	{
		name:   "health",
		weight: 1.0,
		keywords: []string{
			"health", "medical", "doctor", "hospital", "insurance", "prescription",
			"appointment", "diagnosis", "treatment", "therapy", "surgery",
		},
	},
	{
		name:   "legal",
		weight: 0.95,
		keywords: []string{
			"legal", "contract", "agreement", "compliance", "liability", "lawsuit",
			"attorney", "lawyer", "court", "regulation", "policy",
		},
	},
	{
		name:   "career",
		weight: 0.85,
		keywords: []string{
			"promotion", "review", "performance", "job", "offer", "hire", "interview",
			"career", "resignation", "termination", "salary", "position",
		},
	},
	{
		name:   "relationship",
		weight: 0.8,
		keywords: []string{
			"family", "friend", "mom", "dad", "mother", "father", "sister", "brother",
			"partner", "spouse", "child", "parent", "relative",
		},
	},
	{
		name:   "academic",
		weight: 0.85,
		keywords: []string{
			"research", "publication", "paper", "study", "grant", "funding",
			"conference", "presentation", "thesis", "dissertation", "academic",
		},
	},
}

// #endregion domains

// #region analyze

// AnalyzeImportance scores long-term impact in [0, 1] and names the
// dominant life domain ("general" when nothing matches).
func AnalyzeImportance(text string, meta packet.Metadata) (importance float64, domain, gloss string) {
	lower := strings.ToLower(text)

	var total float64
	var bestScore float64
	domain = "general"

	for _, d := range lifeDomains {
		var score float64
		for _, keyword := range d.keywords {
			if count := strings.Count(lower, keyword); count > 0 {
				score += float64(count) * d.weight
			}
		}
		if score == 0 {
			continue
		}
		total += score
		// Strict greater-than: first domain to reach the max wins ties.
		if score > bestScore {
			bestScore = score
			domain = d.name
		}
	}

	if total > 0 {
		importance = packet.Clamp01(total / 5.0)
	}

	switch {
	case importance > 0.6:
		gloss = fmt.Sprintf("Significant %s implications with long-term impact", domain)
	case importance > 0.3:
		gloss = fmt.Sprintf("Moderate %s matter requiring attention", domain)
	default:
		gloss = fmt.Sprintf("Routine %s communication", domain)
	}

	return importance, domain, gloss
}

// #endregion analyze
