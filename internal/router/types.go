package router

import "github.com/esperstack/esper-mail/internal/packet"

// #region folder

// Folder is a priority-routing bucket. The literal spellings are a
// compatibility contract with downstream consumers and never change.
type Folder string

const (
	FolderUrgentNow      Folder = "1-URGENT-NOW"
	FolderImportant      Folder = "2-Important"
	FolderActionRequired Folder = "3-Action-Required"
	FolderReadLater      Folder = "4-Read-Later"
	FolderReference      Folder = "5-Reference"
)

// #endregion folder

// #region priority

// Priority is the display priority attached to a folder.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// #endregion priority

// #region category

// Category carries the fixed display metadata for one routing folder.
type Category struct {
	Folder      Folder
	Color       string
	Priority    Priority
	Description string
}

// categories maps each folder to its metadata. Selection order lives in
// Route, not here; this table only describes the buckets.
var categories = map[Folder]Category{
	FolderUrgentNow: {
		Folder:      FolderUrgentNow,
		Color:       "#FF3B30",
		Priority:    PriorityCritical,
		Description: "Critical time pressure requiring immediate action",
	},
	FolderImportant: {
		Folder:      FolderImportant,
		Color:       "#FF9500",
		Priority:    PriorityHigh,
		Description: "Significant long-term impact requiring attention",
	},
	FolderActionRequired: {
		Folder:      FolderActionRequired,
		Color:       "#FFCC00",
		Priority:    PriorityMedium,
		Description: "Moderate priority requiring eventual response",
	},
	FolderReadLater: {
		Folder:      FolderReadLater,
		Color:       "#34C759",
		Priority:    PriorityLow,
		Description: "Informational content for later review",
	},
	FolderReference: {
		Folder:      FolderReference,
		Color:       "#8E8E93",
		Priority:    PriorityLow,
		Description: "Archive-worthy, low-urgency information",
	},
}

// Categories returns the metadata for a folder.
func Categories(f Folder) Category {
	return categories[f]
}

// #endregion category

// #region thresholds

// Routing thresholds, in the order Route evaluates them.
const (
	urgentThreshold        = 0.7
	importantThreshold     = 0.6
	actionUrgencyThreshold = 0.4
	actionImportThreshold  = 0.3
	benevolenceWarmth      = 0.6
)

// #endregion thresholds

// #region analysis

// Analysis is the complete routing decision for one message, embedding
// the unmodified agent packets for audit. Immutable once returned; this
// is the only artifact the core exposes.
type Analysis struct {
	Icon       string
	Gloss      string
	Folder     Folder
	Color      string
	Priority   Priority
	Action     string
	Topic      string
	Urgency    float64
	Importance float64
	Warmth     float64
	Tension    float64
	Metadata   packet.Metadata
	Packets    map[string]packet.Packet
}

// #endregion analysis
