package agents

import (
	"regexp"
	"strings"

	"github.com/esperstack/esper-mail/internal/packet"
)

// #region categories

// actionCategory is one next-step bucket with its matching patterns and
// the gloss emitted when it wins.
type actionCategory struct {
	name     string
	patterns []*regexp.Regexp
	gloss    string
}

// actionCategories is scored by total regex match count; the highest
// count wins and ties resolve to the first declared category.
var actionCategories = []actionCategory{
	{
		name: "reply",
		patterns: compileAll(
			`please\s+(respond|reply|get\s+back)`,
			`let\s+me\s+know`,
			`waiting\s+to\s+hear`,
			`looking\s+forward\s+to\s+your`,
			`(?m)\?$`,
		),
		gloss: "Reply within 24 hours",
	},
	{
		name: "schedule",
		patterns: compileAll(
			`meeting`, `call`, `schedule`, `calendar`,
			`available`, `availability`, `book\s+a\s+time`,
			`let's\s+meet`, `coffee`, `lunch`, `dinner`,
		),
		gloss: "Schedule a meeting or call",
	},
	{
		name: "review",
		patterns: compileAll(
			`please\s+review`, `feedback`, `look\s+at`,
			`check\s+out`, `take\s+a\s+look`, `attached`,
			`document`, `draft`, `proposal`,
		),
		gloss: "Review attached materials or document",
	},
	{
		name: "task",
		patterns: compileAll(
			`please\s+\w+`, `could\s+you`, `would\s+you`,
			`can\s+you`, `need\s+you\s+to`, `action\s+required`,
		),
		gloss: "Take specific action mentioned in email",
	},
	{
		name: "fyi",
		patterns: compileAll(
			`fyi`, `for\s+your\s+information`, `heads\s+up`,
			`just\s+letting\s+you\s+know`, `wanted\s+to\s+inform`,
			`update`, `newsletter`,
		),
		gloss: "Read and file for reference",
	},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		res[i] = regexp.MustCompile(p)
	}
	return res
}

// #endregion categories

// #region analyze

// AnalyzeAction decides the required next step. When no pattern matches
// anywhere it falls back to a threshold tree on the urgency and
// importance scores already computed for this message.
func AnalyzeAction(text string, meta packet.Metadata, urgency, importance float64) (gloss string) {
	lower := strings.ToLower(text)

	best := 0
	for _, cat := range actionCategories {
		score := 0
		for _, re := range cat.patterns {
			score += len(re.FindAllString(lower, -1))
		}
		// Strict greater-than: earlier categories win ties.
		if score > best {
			best = score
			gloss = cat.gloss
		}
	}
	if best > 0 {
		return gloss
	}

	switch {
	case urgency > 0.7:
		return "Reply within 24 hours"
	case importance > 0.6:
		return "Schedule response in next few days"
	default:
		return "Archive after review"
	}
}

// #endregion analyze
