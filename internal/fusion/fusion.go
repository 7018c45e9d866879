// Package fusion merges agent packets into the four fused scores under
// the benevolence invariants: democratic averaging so no single agent
// dominates, and a warmth clamp so tension alone can never rout a warm
// message as harshly as a cold one.
package fusion

import (
	"errors"
	"sort"

	"github.com/esperstack/esper-mail/internal/packet"
)

// ErrEmptyInput is returned when fusion is attempted with zero packets.
// Fusion is undefined without at least one signal source.
var ErrEmptyInput = errors.New("fusion: empty packet set")

// #region fused

// Fused is the merged signal vector consumed by routing.
type Fused struct {
	Urgency    float64
	Importance float64
	Warmth     float64
	Tension    float64
}

// #endregion fused

// #region merge

// Merge combines packets into fused scores. Each dimension is the
// arithmetic mean across all packets; dimensions an agent did not
// address contribute zero and still participate in the average, which
// deliberately dilutes single-agent signals.
//
// Pure and order-independent: packets are summed in sorted role order
// so the result never depends on map iteration.
func Merge(packets map[string]packet.Packet) (Fused, error) {
	if len(packets) == 0 {
		return Fused{}, ErrEmptyInput
	}

	roles := make([]string, 0, len(packets))
	for role := range packets {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	var f Fused
	for _, role := range roles {
		s := packets[role].Signal
		f.Urgency += s.Urgency
		f.Importance += s.Importance
		f.Warmth += s.Warmth
		f.Tension += s.Tension
	}
	n := float64(len(packets))
	f.Urgency /= n
	f.Importance /= n
	f.Warmth /= n
	f.Tension /= n

	// Benevolence clamp: demonstrably warm relationships soften
	// apparent conflict before routing ever sees it.
	if f.Warmth > 0.6 && f.Tension > 0.7 {
		f.Tension = (f.Tension + f.Warmth) / 2
	}

	f.Urgency = packet.Clamp01(f.Urgency)
	f.Importance = packet.Clamp01(f.Importance)
	f.Warmth = packet.ClampWarmth(f.Warmth)
	f.Tension = packet.Clamp01(f.Tension)

	return f, nil
}

// #endregion merge
