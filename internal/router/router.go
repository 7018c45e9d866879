// Package router maps fused agent signals to a priority folder, a
// stable visual fingerprint, and a human-readable gloss. Every routing
// decision must be explainable without technical knowledge.
package router

import (
	"fmt"
	"sort"
	"strings"

	"github.com/esperstack/esper-mail/internal/fingerprint"
	"github.com/esperstack/esper-mail/internal/fusion"
	"github.com/esperstack/esper-mail/internal/packet"
)

// #region route

// Route merges packets and produces the final analysis record. The
// category checks run in a fixed priority order; the first match wins.
// The only error is fusion's empty-input failure.
func Route(packets map[string]packet.Packet, meta packet.Metadata) (Analysis, error) {
	fused, err := fusion.Merge(packets)
	if err != nil {
		return Analysis{}, fmt.Errorf("route: %w", err)
	}

	icon := combinedIcon(packets)

	topicGloss := "Primary topic: general"
	if p, ok := packets["topic"]; ok {
		topicGloss = p.Gloss
	}
	actionGloss := "No action required"
	if p, ok := packets["action"]; ok {
		actionGloss = p.Gloss
	}

	folder := selectFolder(fused, isBulkMail(packets, meta))

	// Benevolence override: warm personal mail never lands in the
	// terminal bucket. Runs strictly after selection and can only ever
	// upgrade Reference to Action-Required.
	if folder == FolderReference && fused.Warmth > benevolenceWarmth {
		folder = FolderActionRequired
	}

	cat := categories[folder]

	return Analysis{
		Icon:       icon,
		Gloss:      unifiedGloss(fused, topicGloss),
		Folder:     folder,
		Color:      cat.Color,
		Priority:   cat.Priority,
		Action:     actionGloss,
		Topic:      topicGloss,
		Urgency:    fused.Urgency,
		Importance: fused.Importance,
		Warmth:     fused.Warmth,
		Tension:    fused.Tension,
		Metadata:   meta,
		Packets:    packets, // non-destructive: originals preserved for audit
	}, nil
}

// selectFolder applies the category thresholds in fixed priority order.
func selectFolder(f fusion.Fused, bulk bool) Folder {
	switch {
	case f.Urgency > urgentThreshold:
		return FolderUrgentNow
	case f.Importance > importantThreshold:
		return FolderImportant
	case bulk:
		return FolderReadLater
	case f.Urgency > actionUrgencyThreshold || f.Importance > actionImportThreshold:
		return FolderActionRequired
	default:
		return FolderReference
	}
}

// #endregion route

// #region icon

// combinedIcon concatenates all packet digests in canonical role order
// and glyphs the first 32 bytes, giving each message a reproducible
// visual identity bound to every agent's view of it.
func combinedIcon(packets map[string]packet.Packet) string {
	combined := make([]byte, 0, len(packets)*32)
	for _, role := range packet.Roles {
		if p, ok := packets[role]; ok {
			combined = append(combined, p.Digest[:]...)
		}
	}
	// Roles outside the canonical registry join in sorted order so the
	// icon stays deterministic for synthetic packet sets.
	var extras []string
	for role := range packets {
		if !isCanonicalRole(role) {
			extras = append(extras, role)
		}
	}
	sort.Strings(extras)
	for _, role := range extras {
		p := packets[role]
		combined = append(combined, p.Digest[:]...)
	}

	if len(combined) > 32 {
		combined = combined[:32]
	}
	return fingerprint.Glyph(combined)
}

func isCanonicalRole(role string) bool {
	for _, r := range packet.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// #endregion icon

// #region bulk-detection

// isBulkMail flags automated or mass mail from keyword and sender
// patterns: newsletter markers in any agent gloss, digest or
// weekly-update subjects, and newsletter/noreply sender local-parts.
func isBulkMail(packets map[string]packet.Packet, meta packet.Metadata) bool {
	var glosses []string
	for _, p := range packets {
		glosses = append(glosses, p.Gloss)
	}
	glossText := strings.ToLower(strings.Join(glosses, " "))
	subject := strings.ToLower(meta.Subject)

	local := strings.ToLower(meta.Sender)
	if at := strings.Index(local, "@"); at >= 0 {
		local = local[:at]
	}
	if gt := strings.Index(local, "<"); gt >= 0 {
		local = local[gt+1:]
	}
	local = strings.TrimSpace(local)

	switch {
	case strings.Contains(glossText, "newsletter"),
		strings.Contains(glossText, "unsubscribe"),
		strings.Contains(subject, "digest"),
		strings.Contains(subject, "weekly") && strings.Contains(subject, "update"),
		strings.HasPrefix(local, "newsletter"),
		strings.HasPrefix(local, "noreply"):
		return true
	}
	return false
}

// #endregion bulk-detection

// #region gloss

// unifiedGloss builds the human-readable summary from qualifying
// descriptors, deduplicated in first-seen order.
func unifiedGloss(f fusion.Fused, topicGloss string) string {
	var descriptors []string

	if f.Warmth > 0.5 {
		descriptors = append(descriptors, "warm")
	} else if f.Warmth < -0.3 {
		descriptors = append(descriptors, "cold")
	}

	if f.Urgency > 0.7 {
		descriptors = append(descriptors, "urgent")
	} else if f.Urgency > 0.4 {
		descriptors = append(descriptors, "time-sensitive")
	}

	if f.Importance > 0.6 {
		descriptors = append(descriptors, "significant")
	} else if f.Importance > 0.3 {
		descriptors = append(descriptors, "important")
	}

	if f.Tension > 0.5 {
		descriptors = append(descriptors, "tense")
	}

	topic := "communication"
	if i := strings.Index(topicGloss, ":"); i >= 0 {
		topic = strings.TrimSpace(topicGloss[i+1:])
	}

	tone := "routine"
	if len(descriptors) > 0 {
		seen := make(map[string]bool, len(descriptors))
		var unique []string
		for _, d := range descriptors {
			if !seen[d] {
				seen[d] = true
				unique = append(unique, d)
			}
		}
		tone = strings.Join(unique, " and ")
	}

	return fmt.Sprintf("A %s message about %s", tone, topic)
}

// #endregion gloss

// #region explain

// FiredRule names the threshold check that produced the analysis's
// folder, recomputed deterministically from the fused scores.
func FiredRule(a Analysis) (rule, detail string) {
	switch {
	case a.Urgency > urgentThreshold:
		return "urgency_threshold", fmt.Sprintf("urgency %.2f > %.2f", a.Urgency, urgentThreshold)
	case a.Importance > importantThreshold:
		return "importance_threshold", fmt.Sprintf("importance %.2f > %.2f", a.Importance, importantThreshold)
	case a.Folder == FolderReadLater:
		return "bulk_mail", "newsletter or bulk-mail markers detected"
	case a.Folder == FolderActionRequired && a.Urgency <= actionUrgencyThreshold && a.Importance <= actionImportThreshold:
		return "benevolence_override", fmt.Sprintf("warmth %.2f > %.2f upgraded Reference to Action-Required", a.Warmth, benevolenceWarmth)
	case a.Folder == FolderActionRequired:
		return "action_threshold", fmt.Sprintf("urgency %.2f > %.2f or importance %.2f > %.2f", a.Urgency, actionUrgencyThreshold, a.Importance, actionImportThreshold)
	default:
		return "default", "no threshold exceeded"
	}
}

// Explain renders a multi-line account of why a message routed where it
// did, for debugging and audit.
func Explain(a Analysis) string {
	var b strings.Builder

	b.WriteString("Routing Decision Explanation:\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Final Routing: %s\n", a.Folder)
	fmt.Fprintf(&b, "Priority: %s\n\n", a.Priority)

	b.WriteString("Merged Signals:\n")
	fmt.Fprintf(&b, "  Urgency:    %.2f\n", a.Urgency)
	fmt.Fprintf(&b, "  Importance: %.2f\n", a.Importance)
	fmt.Fprintf(&b, "  Warmth:     %.2f\n", a.Warmth)
	fmt.Fprintf(&b, "  Tension:    %.2f\n\n", a.Tension)

	b.WriteString("Agent Contributions:\n")
	for _, role := range packet.Roles {
		p, ok := a.Packets[role]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "  %s:\n", strings.ToUpper(role))
		fmt.Fprintf(&b, "    Gloss: %s\n", p.Gloss)
		fmt.Fprintf(&b, "    Confidence: %.2f\n", p.Confidence)
	}

	rule, detail := FiredRule(a)
	b.WriteString("\nRouting Logic Applied:\n")
	fmt.Fprintf(&b, "  %s: %s\n", rule, detail)

	return b.String()
}

// #endregion explain
