package router

import (
	"encoding/hex"
	"time"

	"github.com/esperstack/esper-mail/internal/packet"
)

// #region wire-types

// The wire structs reproduce the export serialization contract exactly.
// Field names and nesting are frozen: downstream consumers parse this
// shape byte for byte.

// WireAnalysis is the JSON form of an Analysis.
type WireAnalysis struct {
	Icon       string                `json:"icon"`
	Gloss      string                `json:"gloss"`
	Routing    WireRouting           `json:"routing"`
	Urgency    float64               `json:"urgency"`
	Importance float64               `json:"importance"`
	Warmth     float64               `json:"warmth"`
	Tension    float64               `json:"tension"`
	Action     string                `json:"action"`
	Topic      string                `json:"topic"`
	Metadata   WireMetadata          `json:"metadata"`
	Packets    map[string]WirePacket `json:"packets"`
}

// WireRouting nests the folder decision and its display attributes.
type WireRouting struct {
	Folder   string `json:"folder"`
	Color    string `json:"color"`
	Priority string `json:"priority"`
}

// WireMetadata is the JSON form of the message headers.
type WireMetadata struct {
	Subject   string `json:"subject"`
	Sender    string `json:"sender"`
	Date      string `json:"date"`
	MessageID string `json:"message_id"`
	To        string `json:"to"`
}

// WirePacket is the JSON form of one agent packet.
type WirePacket struct {
	AgentRole        string     `json:"agent_role"`
	Intent           WireIntent `json:"intent"`
	Affect           WireAffect `json:"affect"`
	SemanticMotif    string     `json:"semantic_motif"`
	Gloss            string     `json:"gloss"`
	PacketConfidence float64    `json:"packet_confidence"`
	Timestamp        string     `json:"timestamp"`
}

// WireIntent is the JSON form of a signal vector.
type WireIntent struct {
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Warmth     float64 `json:"warmth"`
	Tension    float64 `json:"tension"`
	Confidence float64 `json:"confidence"`
}

// WireAffect is the JSON form of an affect vector.
type WireAffect struct {
	Joy      float64 `json:"joy"`
	Sorrow   float64 `json:"sorrow"`
	Anger    float64 `json:"anger"`
	Fear     float64 `json:"fear"`
	Trust    float64 `json:"trust"`
	Surprise float64 `json:"surprise"`
}

// #endregion wire-types

// #region to-wire

// ToWire converts an Analysis to its export form.
func ToWire(a Analysis) WireAnalysis {
	packets := make(map[string]WirePacket, len(a.Packets))
	for role, p := range a.Packets {
		packets[role] = toWirePacket(p)
	}

	return WireAnalysis{
		Icon:  a.Icon,
		Gloss: a.Gloss,
		Routing: WireRouting{
			Folder:   string(a.Folder),
			Color:    a.Color,
			Priority: string(a.Priority),
		},
		Urgency:    a.Urgency,
		Importance: a.Importance,
		Warmth:     a.Warmth,
		Tension:    a.Tension,
		Action:     a.Action,
		Topic:      a.Topic,
		Metadata: WireMetadata{
			Subject:   a.Metadata.Subject,
			Sender:    a.Metadata.Sender,
			Date:      a.Metadata.Date,
			MessageID: a.Metadata.MessageID,
			To:        a.Metadata.To,
		},
		Packets: packets,
	}
}

func toWirePacket(p packet.Packet) WirePacket {
	return WirePacket{
		AgentRole: p.Role,
		Intent: WireIntent{
			Urgency:    p.Signal.Urgency,
			Importance: p.Signal.Importance,
			Warmth:     p.Signal.Warmth,
			Tension:    p.Signal.Tension,
			Confidence: p.Signal.Confidence,
		},
		Affect: WireAffect{
			Joy:      p.Affect.Joy,
			Sorrow:   p.Affect.Sorrow,
			Anger:    p.Affect.Anger,
			Fear:     p.Affect.Fear,
			Trust:    p.Affect.Trust,
			Surprise: p.Affect.Surprise,
		},
		SemanticMotif:    hex.EncodeToString(p.Digest[:]),
		Gloss:            p.Gloss,
		PacketConfidence: p.Confidence,
		Timestamp:        p.CreatedAt.Format(time.RFC3339Nano),
	}
}

// #endregion to-wire
