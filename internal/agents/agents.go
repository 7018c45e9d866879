// Package agents implements the five deterministic scoring agents and
// assembles their outputs into audit packets. Every agent is a pure
// function: no I/O, no randomness, no shared mutable state, identical
// input always yields identical output.
package agents

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/esperstack/esper-mail/internal/fingerprint"
	"github.com/esperstack/esper-mail/internal/packet"
)

// #region confidences

// Per-agent confidence constants. These reflect agent-design certainty,
// not content certainty, so they are fixed rather than derived from the
// signal.
const (
	confidenceUrgency    = 0.95
	confidenceImportance = 0.90
	confidenceTopic      = 0.85
	confidenceTone       = 0.90
	confidenceAction     = 0.90
)

// #endregion confidences

// #region analyze

// Analyze runs the full agent swarm over one message and returns one
// packet per role. The urgency, importance, topic, and tone agents have
// no data dependency on one another and fan out across goroutines; the
// action agent consumes the urgency and importance scores and runs
// after the join.
func Analyze(text string, meta packet.Metadata) map[string]packet.Packet {
	var (
		urgencyScore, urgencyTension float64
		urgencyGloss                 string

		importanceScore       float64
		domain, importGloss   string

		topic, topicGloss string

		warmth, toneTension, formality float64
		toneGloss                      string
	)

	var g errgroup.Group
	g.Go(func() error {
		urgencyScore, urgencyTension, urgencyGloss = AnalyzeUrgency(text, meta)
		return nil
	})
	g.Go(func() error {
		importanceScore, domain, importGloss = AnalyzeImportance(text, meta)
		return nil
	})
	g.Go(func() error {
		topic, topicGloss = AnalyzeTopic(text, meta)
		return nil
	})
	g.Go(func() error {
		warmth, toneTension, formality, toneGloss = AnalyzeTone(text, meta)
		return nil
	})
	_ = g.Wait() // agents never return errors; the group is pure fan-out/fan-in

	actionGloss := AnalyzeAction(text, meta, urgencyScore, importanceScore)

	now := time.Now().UTC()
	prefix := textPrefix(text, 100)

	packets := make(map[string]packet.Packet, len(packet.Roles))

	packets["urgency"] = packet.Packet{
		Role:       "urgency",
		Signal:     packet.NewSignal(urgencyScore, 0, 0, urgencyTension, confidenceUrgency),
		Affect:     packet.Affect{Fear: urgencyTension * 0.8}.Clamp(),
		Digest:     fingerprint.Digest(fmt.Sprintf("urgency:%g:%s", urgencyScore, prefix)),
		Gloss:      urgencyGloss,
		Confidence: confidenceUrgency,
		CreatedAt:  now,
	}

	packets["importance"] = packet.Packet{
		Role:       "importance",
		Signal:     packet.NewSignal(0, importanceScore, 0, 0, confidenceImportance),
		Affect:     packet.Affect{},
		Digest:     fingerprint.Digest(fmt.Sprintf("importance:%s:%s", domain, prefix)),
		Gloss:      importGloss,
		Confidence: confidenceImportance,
		CreatedAt:  now,
	}

	packets["topic"] = packet.Packet{
		Role:       "topic",
		Signal:     packet.NewSignal(0, 0, 0, 0, confidenceTopic),
		Affect:     packet.Affect{},
		Digest:     fingerprint.Digest("topic:" + topic),
		Gloss:      topicGloss,
		Confidence: confidenceTopic,
		CreatedAt:  now,
	}

	packets["tone"] = packet.Packet{
		Role:   "tone",
		Signal: packet.NewSignal(0, 0, warmth, toneTension, confidenceTone),
		Affect: packet.Affect{
			Joy:   warmth * 0.9,
			Fear:  toneTension * 0.7,
			Trust: warmth * 0.8,
		}.Clamp(),
		Digest:     fingerprint.Digest(fmt.Sprintf("tone:%g:%g:%g", warmth, toneTension, formality)),
		Gloss:      toneGloss,
		Confidence: confidenceTone,
		CreatedAt:  now,
	}

	packets["action"] = packet.Packet{
		Role:       "action",
		Signal:     packet.NewSignal(urgencyScore, importanceScore, warmth, 0, confidenceAction),
		Affect:     packet.Affect{},
		Digest:     fingerprint.Digest("action:" + actionGloss),
		Gloss:      actionGloss,
		Confidence: confidenceAction,
		CreatedAt:  now,
	}

	return packets
}

// #endregion analyze

// #region helpers

// textPrefix returns the first n runes of text. The prefix is hashed
// into per-agent digests so the same input always yields the same
// digest without hashing arbitrarily long bodies twice.
func textPrefix(text string, n int) string {
	runes := []rune(text)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

// #endregion helpers
