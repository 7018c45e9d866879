package packet

import "time"

// #region roles

// Roles lists the five agent roles in canonical order. Fingerprint
// concatenation and report layout iterate in this order so every
// derived artifact is reproducible.
var Roles = []string{"urgency", "importance", "topic", "tone", "action"}

// #endregion roles

// #region signal

// Signal is the four-dimension intent vector plus the producing agent's
// self-reported confidence. Warmth spans [-1, 1]; every other dimension
// spans [0, 1].
type Signal struct {
	Urgency    float64
	Importance float64
	Warmth     float64
	Tension    float64
	Confidence float64
}

// NewSignal builds a Signal, silently clamping each dimension to its
// declared range. Clamp-on-construct is the one construction policy in
// this codebase; callers never see out-of-range values.
func NewSignal(urgency, importance, warmth, tension, confidence float64) Signal {
	return Signal{
		Urgency:    Clamp01(urgency),
		Importance: Clamp01(importance),
		Warmth:     ClampWarmth(warmth),
		Tension:    Clamp01(tension),
		Confidence: Clamp01(confidence),
	}
}

// #endregion signal

// #region affect

// Affect is the six-dimension emotional breakdown carried on every
// packet for audit. Routing never consumes it.
type Affect struct {
	Joy      float64
	Sorrow   float64
	Anger    float64
	Fear     float64
	Trust    float64
	Surprise float64
}

// Clamp returns a copy with every dimension restricted to [0, 1].
func (a Affect) Clamp() Affect {
	return Affect{
		Joy:      Clamp01(a.Joy),
		Sorrow:   Clamp01(a.Sorrow),
		Anger:    Clamp01(a.Anger),
		Fear:     Clamp01(a.Fear),
		Trust:    Clamp01(a.Trust),
		Surprise: Clamp01(a.Surprise),
	}
}

// #endregion affect

// #region packet

// Packet is one agent's complete analysis unit: signal, affect, an
// auditable digest of what was scored, and a human-readable gloss.
// Immutable once constructed; fusion and routing read it, never write.
type Packet struct {
	Role       string
	Signal     Signal
	Affect     Affect
	Digest     [32]byte
	Gloss      string
	Confidence float64
	CreatedAt  time.Time
}

// #endregion packet

// #region metadata

// Metadata carries the decoded email headers the agents are allowed to
// see. Produced by the mail parsing collaborator; read-only to the core.
type Metadata struct {
	Sender    string
	Subject   string
	Date      string
	MessageID string
	To        string
}

// #endregion metadata

// #region helpers

// Clamp01 restricts v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ClampWarmth restricts v to [-1, 1]. Warmth is the one signed
// dimension: cold relationships are a meaningful routing concept.
func ClampWarmth(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
