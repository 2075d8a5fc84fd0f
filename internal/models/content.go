package models

import "time"

// Data subtypes a saved artifact can carry. journal and mood_log have
// dedicated collections; the rest live in the generic widget_data collection.
const (
	SubtypeJournal    = "journal"
	SubtypeMoodLog    = "mood_log"
	SubtypeGratitude  = "gratitude"
	SubtypeAssessment = "assessment"
	SubtypeReframe    = "reframe"
)

// JournalEntry is a free-text reflection saved from the journal widget or a
// chat hand-off.
type JournalEntry struct {
	ID        string    `firestore:"id" json:"id"`
	Content   string    `firestore:"content" json:"content"`
	Prompt    string    `firestore:"prompt,omitempty" json:"prompt,omitempty"`
	Tags      []string  `firestore:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
}

// MoodVector is a two-dimensional (valence, energy) point in [-1,1]².
type MoodVector struct {
	X float64 `firestore:"x" json:"x"`
	Y float64 `firestore:"y" json:"y"`
}

// MoodLog is one recorded emotional state. Intensity is derived server-side
// from the vector magnitude and clamped to 1..10.
type MoodLog struct {
	ID        string     `firestore:"id" json:"id"`
	Vector    MoodVector `firestore:"moodVector" json:"moodVector"`
	Label     string     `firestore:"moodLabel" json:"moodLabel"`
	Intensity int        `firestore:"intensity" json:"intensity"`
	Context   string     `firestore:"context,omitempty" json:"context,omitempty"`
	Tags      []string   `firestore:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt time.Time  `firestore:"createdAt" json:"createdAt"`
}

// WidgetData is a generic keyed artifact saved by a data-saving widget
// (gratitude lists, assessments, reframes).
type WidgetData struct {
	ID               string         `firestore:"id" json:"id"`
	DataSubtype      string         `firestore:"dataSubtype" json:"dataSubtype"`
	Content          map[string]any `firestore:"content" json:"content"`
	Tags             []string       `firestore:"tags,omitempty" json:"tags,omitempty"`
	WidgetInstanceID string         `firestore:"widgetInstanceId,omitempty" json:"widgetInstanceId,omitempty"`
	CreatedAt        time.Time      `firestore:"createdAt" json:"createdAt"`
}

// HistoryEntry is the read-time projection the aggregator normalizes every
// backing collection into. It is never persisted in this shape.
type HistoryEntry struct {
	ID          string    `json:"id"`
	DataSubtype string    `json:"dataSubtype"`
	Content     any       `json:"content"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Source      string    `json:"source"`
}
