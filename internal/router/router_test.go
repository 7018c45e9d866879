package router

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/esperstack/esper-mail/internal/agents"
	"github.com/esperstack/esper-mail/internal/fingerprint"
	"github.com/esperstack/esper-mail/internal/fusion"
	"github.com/esperstack/esper-mail/internal/packet"
)

func mkPacket(role string, urgency, importance, warmth, tension float64, gloss string) packet.Packet {
	return packet.Packet{
		Role:       role,
		Signal:     packet.NewSignal(urgency, importance, warmth, tension, 0.9),
		Digest:     fingerprint.Digest(role + ":" + gloss),
		Gloss:      gloss,
		Confidence: 0.9,
		CreatedAt:  time.Date(2024, 12, 3, 10, 0, 0, 0, time.UTC),
	}
}

func TestRouteEmptyPackets(t *testing.T) {
	_, err := Route(map[string]packet.Packet{}, packet.Metadata{})
	if !errors.Is(err, fusion.ErrEmptyInput) {
		t.Fatalf("Route(empty) err = %v, want ErrEmptyInput", err)
	}
}

func TestSelectFolderThresholds(t *testing.T) {
	meta := packet.Metadata{Sender: "jane@example.com", Subject: "status"}

	tests := []struct {
		name       string
		packets    map[string]packet.Packet
		wantFolder Folder
		wantRule   string
	}{
		{
			name: "urgency-over-threshold",
			packets: map[string]packet.Packet{
				"test": mkPacket("test", 0.8, 0, 0, 0.3, "high pressure"),
			},
			wantFolder: FolderUrgentNow,
			wantRule:   "urgency_threshold",
		},
		{
			name: "importance-over-threshold",
			packets: map[string]packet.Packet{
				"test": mkPacket("test", 0.5, 0.7, 0, 0, "big decision"),
			},
			wantFolder: FolderImportant,
			wantRule:   "importance_threshold",
		},
		{
			name: "urgency-beats-importance",
			packets: map[string]packet.Packet{
				"test": mkPacket("test", 0.8, 0.9, 0, 0, "both high"),
			},
			wantFolder: FolderUrgentNow,
			wantRule:   "urgency_threshold",
		},
		{
			name: "action-via-urgency",
			packets: map[string]packet.Packet{
				"test": mkPacket("test", 0.5, 0, 0, 0, "some pressure"),
			},
			wantFolder: FolderActionRequired,
			wantRule:   "action_threshold",
		},
		{
			name: "action-via-importance",
			packets: map[string]packet.Packet{
				"test": mkPacket("test", 0, 0.35, 0, 0, "some weight"),
			},
			wantFolder: FolderActionRequired,
			wantRule:   "action_threshold",
		},
		{
			name: "default-reference",
			packets: map[string]packet.Packet{
				"test": mkPacket("test", 0, 0, 0, 0, "nothing notable"),
			},
			wantFolder: FolderReference,
			wantRule:   "default",
		},
		{
			name: "thresholds-are-strict",
			packets: map[string]packet.Packet{
				"test": mkPacket("test", 0.7, 0.6, 0, 0, "exactly at"),
			},
			wantFolder: FolderActionRequired,
			wantRule:   "action_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Route(tt.packets, meta)
			if err != nil {
				t.Fatalf("Route() error = %v", err)
			}
			if a.Folder != tt.wantFolder {
				t.Errorf("folder = %q, want %q", a.Folder, tt.wantFolder)
			}
			want := categories[tt.wantFolder]
			if a.Color != want.Color || a.Priority != want.Priority {
				t.Errorf("color/priority = %q/%q, want %q/%q", a.Color, a.Priority, want.Color, want.Priority)
			}
			if rule, _ := FiredRule(a); rule != tt.wantRule {
				t.Errorf("FiredRule() = %q, want %q", rule, tt.wantRule)
			}
		})
	}
}

func TestBulkMailDetection(t *testing.T) {
	low := func(gloss string) map[string]packet.Packet {
		return map[string]packet.Packet{"test": mkPacket("test", 0, 0, 0, 0, gloss)}
	}

	tests := []struct {
		name     string
		packets  map[string]packet.Packet
		meta     packet.Metadata
		wantBulk bool
	}{
		{"newsletter-in-gloss", low("monthly newsletter roundup"), packet.Metadata{Sender: "a@b.com"}, true},
		{"unsubscribe-in-gloss", low("click to unsubscribe"), packet.Metadata{Sender: "a@b.com"}, true},
		{"digest-subject", low("x"), packet.Metadata{Sender: "a@b.com", Subject: "Daily Digest"}, true},
		{"weekly-update-subject", low("x"), packet.Metadata{Sender: "a@b.com", Subject: "Weekly Product Update"}, true},
		{"weekly-alone-is-not-bulk", low("x"), packet.Metadata{Sender: "a@b.com", Subject: "Weekly standup"}, false},
		{"newsletter-sender", low("x"), packet.Metadata{Sender: "newsletter@vendor.com"}, true},
		{"noreply-sender", low("x"), packet.Metadata{Sender: "noreply@vendor.com"}, true},
		{"noreply-display-name-form", low("x"), packet.Metadata{Sender: "Vendor <noreply@vendor.com>"}, true},
		{"plain-sender", low("x"), packet.Metadata{Sender: "jane@vendor.com", Subject: "lunch"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Route(tt.packets, tt.meta)
			if err != nil {
				t.Fatalf("Route() error = %v", err)
			}
			gotBulk := a.Folder == FolderReadLater
			if gotBulk != tt.wantBulk {
				t.Errorf("folder = %q, bulk = %v, want %v", a.Folder, gotBulk, tt.wantBulk)
			}
		})
	}
}

func TestBulkBeatsActionThreshold(t *testing.T) {
	// Moderate urgency would select Action-Required, but bulk markers
	// are checked first.
	packets := map[string]packet.Packet{
		"test": mkPacket("test", 0.5, 0, 0, 0, "promo"),
	}
	a, err := Route(packets, packet.Metadata{Sender: "noreply@shop.com", Subject: "sale"})
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if a.Folder != FolderReadLater {
		t.Errorf("folder = %q, want %q", a.Folder, FolderReadLater)
	}
}

func TestBenevolenceOverride(t *testing.T) {
	meta := packet.Metadata{Sender: "mom@example.com", Subject: "hi"}

	t.Run("warm-reference-upgrades", func(t *testing.T) {
		packets := map[string]packet.Packet{
			"test": mkPacket("test", 0, 0, 0.7, 0, "warm note"),
		}
		a, err := Route(packets, meta)
		if err != nil {
			t.Fatalf("Route() error = %v", err)
		}
		if a.Folder != FolderActionRequired {
			t.Errorf("folder = %q, want %q", a.Folder, FolderActionRequired)
		}
		if rule, _ := FiredRule(a); rule != "benevolence_override" {
			t.Errorf("FiredRule() = %q, want benevolence_override", rule)
		}
	})

	t.Run("cool-reference-stays", func(t *testing.T) {
		packets := map[string]packet.Packet{
			"test": mkPacket("test", 0, 0, 0.6, 0, "mild note"),
		}
		a, err := Route(packets, meta)
		if err != nil {
			t.Fatalf("Route() error = %v", err)
		}
		if a.Folder != FolderReference {
			t.Errorf("folder = %q, want %q", a.Folder, FolderReference)
		}
	})

	t.Run("only-reference-is-upgraded", func(t *testing.T) {
		packets := map[string]packet.Packet{
			"test": mkPacket("test", 0, 0, 0.9, 0, "warm newsletter"),
		}
		a, err := Route(packets, packet.Metadata{Sender: "newsletter@club.com"})
		if err != nil {
			t.Fatalf("Route() error = %v", err)
		}
		if a.Folder != FolderReadLater {
			t.Errorf("folder = %q, want %q", a.Folder, FolderReadLater)
		}
	})
}

func TestRouteNonDestructive(t *testing.T) {
	meta := packet.Metadata{Sender: "jane@example.com", Subject: "quarterly report"}
	packets := agents.Analyze("Please review the attached quarterly report.", meta)

	before := make(map[string]packet.Packet, len(packets))
	for role, p := range packets {
		before[role] = p
	}

	a, err := Route(packets, meta)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if len(a.Packets) != 5 {
		t.Fatalf("len(Packets) = %d, want 5", len(a.Packets))
	}
	for role, want := range before {
		got, ok := a.Packets[role]
		if !ok {
			t.Fatalf("packet %q missing from analysis", role)
		}
		if got != want {
			t.Errorf("packet %q modified by routing", role)
		}
	}
}

func TestRouteIconDeterministic(t *testing.T) {
	meta := packet.Metadata{Sender: "jane@example.com", Subject: "notes"}
	packets := agents.Analyze("Sharing my notes from the workshop.", meta)

	a1, err := Route(packets, meta)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	a2, err := Route(packets, meta)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}
	if a1.Icon != a2.Icon {
		t.Errorf("icon not deterministic: %q vs %q", a1.Icon, a2.Icon)
	}
	if n := utf8.RuneCountInString(a1.Icon); n != 3 {
		t.Errorf("icon rune count = %d, want 3", n)
	}
}

func TestUnifiedGloss(t *testing.T) {
	tests := []struct {
		name       string
		fused      fusion.Fused
		topicGloss string
		want       string
	}{
		{
			name:       "routine-default",
			fused:      fusion.Fused{},
			topicGloss: "Primary topic: general communication",
			want:       "A routine message about general communication",
		},
		{
			name:       "warm-and-urgent",
			fused:      fusion.Fused{Urgency: 0.8, Warmth: 0.6},
			topicGloss: "Primary topic: family",
			want:       "A warm and urgent message about family",
		},
		{
			name:       "no-colon-falls-back",
			fused:      fusion.Fused{Importance: 0.5},
			topicGloss: "something odd",
			want:       "A important message about communication",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unifiedGloss(tt.fused, tt.topicGloss); got != tt.want {
				t.Errorf("unifiedGloss() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRouteEndToEnd(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		meta       packet.Metadata
		wantFolder Folder
	}{
		{
			name: "heavy-financial-routes-to-action",
			text: "The invoice for the loan payment is attached. A second invoice " +
				"covers the budget shortfall; please confirm the payment method.",
			meta:       packet.Metadata{Sender: "billing@vendor.com", Subject: "Invoice and payment", Date: "2024-12-03"},
			wantFolder: FolderActionRequired,
		},
		{
			name: "newsletter-routes-to-read-later",
			text: "Here is what happened in tech this week. You can unsubscribe at any time.",
			meta: packet.Metadata{
				Sender:  "newsletter@techweekly.com",
				Subject: "Weekly Update: Tech Digest",
				Date:    "2024-12-03",
			},
			wantFolder: FolderReadLater,
		},
		{
			name:       "routine-note-routes-to-reference",
			text:       "Attached are the slides from the workshop. No response needed.",
			meta:       packet.Metadata{Sender: "colleague@example.com", Subject: "Workshop slides", Date: "2024-12-03"},
			wantFolder: FolderReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packets := agents.Analyze(tt.text, tt.meta)
			a, err := Route(packets, tt.meta)
			if err != nil {
				t.Fatalf("Route() error = %v", err)
			}
			if a.Folder != tt.wantFolder {
				t.Errorf("folder = %q, want %q", a.Folder, tt.wantFolder)
			}
			if a.Icon == "" || a.Gloss == "" {
				t.Errorf("icon/gloss empty: icon=%q gloss=%q", a.Icon, a.Gloss)
			}
		})
	}
}

func TestExplainMentionsFolderAndRule(t *testing.T) {
	meta := packet.Metadata{Sender: "jane@example.com", Subject: "hello"}
	packets := map[string]packet.Packet{
		"test": mkPacket("test", 0.8, 0, 0, 0, "pressure"),
	}
	a, err := Route(packets, meta)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}

	out := Explain(a)
	if !strings.Contains(out, string(FolderUrgentNow)) {
		t.Errorf("Explain() missing folder name:\n%s", out)
	}
	if !strings.Contains(out, "urgency_threshold") {
		t.Errorf("Explain() missing fired rule:\n%s", out)
	}
}

func TestToWireShape(t *testing.T) {
	meta := packet.Metadata{
		Sender:    "jane@example.com",
		Subject:   "quarterly report",
		Date:      "2024-12-03",
		MessageID: "<abc@example.com>",
		To:        "john@example.com",
	}
	packets := agents.Analyze("Please review the attached quarterly report.", meta)
	a, err := Route(packets, meta)
	if err != nil {
		t.Fatalf("Route() error = %v", err)
	}

	w := ToWire(a)
	if w.Routing.Folder != string(a.Folder) || w.Routing.Color != a.Color || w.Routing.Priority != string(a.Priority) {
		t.Errorf("routing block = %+v, want folder=%q color=%q priority=%q", w.Routing, a.Folder, a.Color, a.Priority)
	}
	if len(w.Packets) != 5 {
		t.Fatalf("len(Packets) = %d, want 5", len(w.Packets))
	}
	for role, wp := range w.Packets {
		if wp.AgentRole != role {
			t.Errorf("packet %q agent_role = %q", role, wp.AgentRole)
		}
		if len(wp.SemanticMotif) != 64 {
			t.Errorf("packet %q motif hex length = %d, want 64", role, len(wp.SemanticMotif))
		}
		if _, err := time.Parse(time.RFC3339Nano, wp.Timestamp); err != nil {
			t.Errorf("packet %q timestamp %q not RFC 3339: %v", role, wp.Timestamp, err)
		}
	}

	raw, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, key := range []string{`"routing"`, `"semantic_motif"`, `"agent_role"`, `"intent"`, `"affect"`, `"message_id"`, `"packet_confidence"`} {
		if !strings.Contains(string(raw), key) {
			t.Errorf("wire JSON missing key %s", key)
		}
	}
}
