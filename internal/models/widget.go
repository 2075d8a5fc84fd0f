package models

import "time"

// Widget sizes affect grid column span only.
const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// Widget provenance. Attribution only; never gates behavior.
const (
	SourceOnboarding = "onboarding"
	SourceChat       = "chat"
	SourceUser       = "user"
)

// Actors that can modify a layout.
const (
	ModifiedByUser = "user"
	ModifiedByLLM  = "llm"
)

// WidgetInstance is one placed widget on a user's dashboard.
type WidgetInstance struct {
	ID          string         `firestore:"id" json:"id"`
	WidgetType  string         `firestore:"widgetType" json:"widgetType"`
	Title       string         `firestore:"title" json:"title"`
	Description string         `firestore:"description,omitempty" json:"description,omitempty"`
	Args        map[string]any `firestore:"args,omitempty" json:"args,omitempty"`
	Position    int            `firestore:"position" json:"position"`
	Size        string         `firestore:"size" json:"size"`
	Pinned      bool           `firestore:"pinned" json:"pinned"`
	Source      string         `firestore:"source" json:"source"`
	Tags        []string       `firestore:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt   time.Time      `firestore:"createdAt" json:"createdAt"`
}

// DashboardLayout is the aggregate root: a user's ordered widgets plus
// provenance metadata. Stored as a single field on the profile document and
// always overwritten whole.
//
// Invariant: widget positions form a dense 0..N-1 sequence.
type DashboardLayout struct {
	Widgets        []WidgetInstance `firestore:"widgets" json:"widgets"`
	LastModifiedBy string           `firestore:"lastModifiedBy" json:"lastModifiedBy"`
	LastModifiedAt time.Time        `firestore:"lastModifiedAt" json:"lastModifiedAt"`
}

// Clone returns a copy safe to hand to another goroutine. Args maps are
// shared; callers must treat widget args as read-only after publishing.
func (l DashboardLayout) Clone() DashboardLayout {
	out := l
	out.Widgets = make([]WidgetInstance, len(l.Widgets))
	copy(out.Widgets, l.Widgets)
	return out
}
