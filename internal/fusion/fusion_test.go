package fusion

import (
	"errors"
	"testing"

	"github.com/esperstack/esper-mail/internal/fingerprint"
	"github.com/esperstack/esper-mail/internal/packet"
)

func testPacket(role string, urgency, importance, warmth, tension float64) packet.Packet {
	return packet.Packet{
		Role:       role,
		Signal:     packet.NewSignal(urgency, importance, warmth, tension, 0.9),
		Digest:     fingerprint.Digest(role),
		Gloss:      "test packet",
		Confidence: 0.9,
	}
}

func TestMergeEmptyInput(t *testing.T) {
	_, err := Merge(map[string]packet.Packet{})
	if !errors.Is(err, ErrEmptyInput) {
		t.Fatalf("got %v, want ErrEmptyInput", err)
	}
}

func TestMergeSinglePacket(t *testing.T) {
	f, err := Merge(map[string]packet.Packet{
		"test": testPacket("test", 0.8, 0.6, 0.5, 0.3),
	})
	if err != nil {
		t.Fatal(err)
	}

	if f.Urgency != 0.8 || f.Importance != 0.6 || f.Warmth != 0.5 || f.Tension != 0.3 {
		t.Errorf("single-packet fusion must be identity: %+v", f)
	}
}

func TestBenevolenceClamp(t *testing.T) {
	f, err := Merge(map[string]packet.Packet{
		"test": testPacket("test", 0.5, 0.5, 0.8, 0.9),
	})
	if err != nil {
		t.Fatal(err)
	}

	want := (0.9 + 0.8) / 2
	if f.Tension != want {
		t.Errorf("clamped tension: got %v, want exactly %v", f.Tension, want)
	}
}

func TestBenevolenceClampInactive(t *testing.T) {
	tests := []struct {
		name            string
		warmth, tension float64
	}{
		{"low-warmth", 0.5, 0.9},
		{"low-tension", 0.8, 0.6},
		{"boundary-warmth", 0.6, 0.9},
		{"boundary-tension", 0.8, 0.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Merge(map[string]packet.Packet{
				"test": testPacket("test", 0, 0, tt.warmth, tt.tension),
			})
			if err != nil {
				t.Fatal(err)
			}
			if f.Tension != tt.tension {
				t.Errorf("tension: got %v, want untouched %v", f.Tension, tt.tension)
			}
		})
	}
}

func TestMergeDemocraticAveraging(t *testing.T) {
	packets := map[string]packet.Packet{
		"urgency": testPacket("urgency", 1.0, 0, 0, 0.8),
		"tone":    testPacket("tone", 0, 0, 0.5, 0.2),
	}
	f, err := Merge(packets)
	if err != nil {
		t.Fatal(err)
	}

	if f.Urgency != 0.5 {
		t.Errorf("urgency: got %v, want 0.5 (diluted by agent count)", f.Urgency)
	}
	if f.Warmth != 0.25 {
		t.Errorf("warmth: got %v, want 0.25", f.Warmth)
	}
	if f.Tension != 0.5 {
		t.Errorf("tension: got %v, want 0.5", f.Tension)
	}
}

func TestMergeOrderIndependent(t *testing.T) {
	// Values chosen so a naive accumulation order would differ in the
	// low float bits; the sorted-role sum must not.
	a := map[string]packet.Packet{
		"a": testPacket("a", 0.1, 0.3, 0.7, 0.1),
		"b": testPacket("b", 0.2, 0.1, 0.1, 0.2),
		"c": testPacket("c", 0.7, 0.9, 0.3, 0.3),
	}
	b := map[string]packet.Packet{
		"c": a["c"],
		"a": a["a"],
		"b": a["b"],
	}

	fa, err := Merge(a)
	if err != nil {
		t.Fatal(err)
	}
	fb, err := Merge(b)
	if err != nil {
		t.Fatal(err)
	}
	if fa != fb {
		t.Errorf("fusion differs across construction orders: %+v vs %+v", fa, fb)
	}
}
