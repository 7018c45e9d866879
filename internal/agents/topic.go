package agents

import (
	"regexp"
	"strings"

	"github.com/esperstack/esper-mail/internal/packet"
)

// #region word-extraction

var (
	subjectPrefixes = regexp.MustCompile(`(?i)^(re:|fwd:|fw:)\s*`)
	topicWords      = regexp.MustCompile(`\b[a-zA-Z]{4,}\b`)
)

// topicStopwords are common words excluded from body-frequency topic
// extraction.
var topicStopwords = map[string]bool{
	"that": true, "this": true, "with": true, "from": true, "have": true,
	"will": true, "your": true, "they": true, "been": true, "were": true,
	"said": true, "would": true, "there": true, "their": true, "what": true,
	"about": true,
}

// #endregion word-extraction

// #region analyze

// AnalyzeTopic extracts the dominant subject matter. Resolution order:
// life-domain keyword in the text, then the first meaningful word of
// the subject line, then the most frequent meaningful body word, then
// the literal "general".
func AnalyzeTopic(text string, meta packet.Metadata) (topic, gloss string) {
	lower := strings.ToLower(text)

	// Life domains are the most specific signal.
	for _, d := range lifeDomains {
		for _, keyword := range d.keywords {
			if strings.Contains(lower, keyword) {
				return d.name, "Primary topic: " + d.name
			}
		}
	}

	// Subject line, with reply/forward prefixes stripped.
	if meta.Subject != "" {
		clean := strings.TrimSpace(subjectPrefixes.ReplaceAllString(meta.Subject, ""))
		if words := topicWords.FindAllString(clean, 1); len(words) > 0 {
			topic = strings.ToLower(words[0])
			return topic, "Primary topic: " + topic
		}
	}

	// Body word frequency, first-seen order breaking ties.
	words := topicWords.FindAllString(lower, -1)
	freq := make(map[string]int)
	var order []string
	for _, w := range words {
		if topicStopwords[w] {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}
	best := 0
	for _, w := range order {
		if freq[w] > best {
			best = freq[w]
			topic = w
		}
	}
	if topic != "" {
		return topic, "Primary topic: " + topic
	}

	return "general", "Primary topic: general communication"
}

// #endregion analyze
