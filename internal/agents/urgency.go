package agents

import (
	"regexp"
	"strings"

	"github.com/esperstack/esper-mail/internal/packet"
)

// #region keywords

// urgencyKeyword pairs one urgency term with its weight.
type urgencyKeyword struct {
	term   string
	weight float64
}

// urgencyKeywords is declared in a slice, not a map: float addition is
// not associative, so the summation order must be fixed for the score
// (and the digest derived from it) to be reproducible. Each term's
// occurrence count is capped at 3 before weighting so repetition cannot
// saturate the score on its own.
var urgencyKeywords = []urgencyKeyword{
	{"critical", 1.0},
	{"urgent", 0.9},
	{"emergency", 1.0},
	{"asap", 0.9},
	{"immediately", 0.9},
	{"today", 0.7},
	{"tonight", 0.7},
	{"deadline", 0.8},
	{"due", 0.6},
	{"expiring", 0.7},
	{"expires", 0.7},
	{"time-sensitive", 0.8},
	{"time sensitive", 0.8},
	{"quickly", 0.5},
	{"quick", 0.5},
	{"rush", 0.7},
	{"hurry", 0.6},
}

// #endregion keywords

// #region temporal-patterns

// temporalPatterns match deadline indicators: dates, clock times,
// weekday names, and relative-time phrases.
var temporalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{1,2}/\d{1,2}(/\d{2,4})?`),
	regexp.MustCompile(`\d{1,2}:\d{2}\s*[ap]m`),
	regexp.MustCompile(`(monday|tuesday|wednesday|thursday|friday|saturday|sunday)`),
	regexp.MustCompile(`(tomorrow|tonight|this\s+(morning|afternoon|evening|week))`),
	regexp.MustCompile(`by\s+(tomorrow|tonight|friday|next\s+week)`),
	regexp.MustCompile(`before\s+\d{1,2}[:/]\d{1,2}`),
	regexp.MustCompile(`(in|within)\s+\d+\s+(hour|day|week)s?`),
}

// #endregion temporal-patterns

// #region analyze

// AnalyzeUrgency scores temporal pressure in [0, 1] plus a correlated
// tension score. Pure and deterministic; empty text scores at the floor.
func AnalyzeUrgency(text string, meta packet.Metadata) (urgency, tension float64, gloss string) {
	lower := strings.ToLower(text)

	// Weighted keyword pass in declaration order, occurrences capped
	// at 3 per term.
	score := 0.0
	keywordHits := 0
	for _, kw := range urgencyKeywords {
		count := strings.Count(lower, kw.term)
		if count > 0 {
			if count > 3 {
				count = 3
			}
			score += kw.weight * float64(count)
			keywordHits += count
		}
	}
	if keywordHits > 0 {
		score = packet.Clamp01(score / 3.0)
	}

	// Any temporal pattern boosts urgency once.
	hasTemporal := false
	for _, re := range temporalPatterns {
		if re.MatchString(lower) {
			hasTemporal = true
			break
		}
	}
	if hasTemporal {
		score = packet.Clamp01(score + 0.3)
	}

	// Repeated exclamation marks signal emotional urgency.
	if strings.Count(text, "!") >= 2 {
		score = packet.Clamp01(score + 0.2)
	}

	tension = packet.Clamp01(score * 0.8)

	switch {
	case score > 0.7:
		gloss = "Critical time pressure with immediate deadline"
	case score > 0.4:
		if hasTemporal {
			gloss = "Moderate urgency with temporal constraints"
		} else {
			gloss = "Some time pressure indicated"
		}
	default:
		gloss = "Low urgency, flexible timeline"
	}

	return score, tension, gloss
}

// #endregion analyze
