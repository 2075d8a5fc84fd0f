// Package registry is the static lookup from widget type to behavioral
// capabilities. It is pure data: no mutation, no I/O. Services receive a
// Registry value so tests can swap the table.
package registry

import "github.com/sarthology/dailysage-backend/internal/models"

// Widget type constants. The enumeration is closed; anything outside it is a
// caller contract violation, not a state the system recovers from.
const (
	TypeBreathingExercise    = "breathing_exercise"
	TypeReflectionPrompt     = "reflection_prompt"
	TypeGratitudeList        = "gratitude_list"
	TypeMoodReframe          = "mood_reframe"
	TypeStoicMeditation      = "stoic_meditation"
	TypeThoughtExperiment    = "thought_experiment"
	TypeDailyMaxim           = "daily_maxim"
	TypePhilosophicalDilemma = "philosophical_dilemma"
	TypeValuesWheel          = "values_wheel"
	TypeDistortionCheck      = "distortion_check"
	TypeQuoteChallenge       = "quote_challenge"
	TypeWeeklyReview         = "weekly_review"
	TypeArgumentMapper       = "argument_mapper"
	TypeFeelingPicker        = "feeling_picker"
	TypeQuickPrompt          = "quick_prompt"
	TypeProgressView         = "progress_view"
)

// Primary behaviors.
const (
	BehaviorDisplay      = "display"
	BehaviorDataSaving   = "data_saving"
	BehaviorPromptToChat = "prompt_to_chat"
)

// Chat prompt modes.
const (
	PromptModeStatic  = "static"
	PromptModeDynamic = "dynamic"
)

// Collections data-saving widgets write to.
const (
	CollectionJournal    = "journal_entries"
	CollectionMoods      = "mood_logs"
	CollectionWidgetData = "widget_data"
)

// DataSavingConfig describes where a widget's saved artifacts land.
type DataSavingConfig struct {
	Subtype      string `json:"subtype"`
	Collection   string `json:"collection"`
	SupportsTags bool   `json:"supportsTags"`
}

// ChatPromptConfig describes a widget's chat hand-off capability.
type ChatPromptConfig struct {
	Mode string `json:"mode"`
}

// BehaviorConfig is the static capability record for one widget type.
type BehaviorConfig struct {
	PrimaryBehavior string            `json:"primaryBehavior"`
	DataSaving      *DataSavingConfig `json:"dataSaving,omitempty"`
	ChatPrompt      *ChatPromptConfig `json:"chatPrompt,omitempty"`
	SupportsRefresh bool              `json:"supportsRefresh"`
}

// CatalogEntry pairs a widget type with its behavior for the catalog endpoint.
type CatalogEntry struct {
	WidgetType string         `json:"widgetType"`
	Behavior   BehaviorConfig `json:"behavior"`
}

// Registry maps widget types to behavior configs.
type Registry struct {
	table map[string]BehaviorConfig
}

// Default returns the registry covering the full widget taxonomy.
func Default() Registry {
	return Registry{table: map[string]BehaviorConfig{
		TypeBreathingExercise: {
			PrimaryBehavior: BehaviorDisplay,
			SupportsRefresh: false,
		},
		TypeReflectionPrompt: {
			PrimaryBehavior: BehaviorDataSaving,
			DataSaving:      &DataSavingConfig{Subtype: models.SubtypeJournal, Collection: CollectionJournal, SupportsTags: true},
			ChatPrompt:      &ChatPromptConfig{Mode: PromptModeDynamic},
			SupportsRefresh: true,
		},
		TypeGratitudeList: {
			PrimaryBehavior: BehaviorDataSaving,
			DataSaving:      &DataSavingConfig{Subtype: models.SubtypeGratitude, Collection: CollectionWidgetData, SupportsTags: true},
			SupportsRefresh: false,
		},
		TypeMoodReframe: {
			PrimaryBehavior: BehaviorDataSaving,
			DataSaving:      &DataSavingConfig{Subtype: models.SubtypeReframe, Collection: CollectionWidgetData, SupportsTags: true},
			ChatPrompt:      &ChatPromptConfig{Mode: PromptModeDynamic},
			SupportsRefresh: true,
		},
		TypeStoicMeditation: {
			PrimaryBehavior: BehaviorDisplay,
			SupportsRefresh: true,
		},
		TypeThoughtExperiment: {
			PrimaryBehavior: BehaviorPromptToChat,
			ChatPrompt:      &ChatPromptConfig{Mode: PromptModeDynamic},
			SupportsRefresh: true,
		},
		TypeDailyMaxim: {
			PrimaryBehavior: BehaviorDisplay,
			SupportsRefresh: true,
		},
		TypePhilosophicalDilemma: {
			PrimaryBehavior: BehaviorPromptToChat,
			ChatPrompt:      &ChatPromptConfig{Mode: PromptModeDynamic},
			SupportsRefresh: true,
		},
		TypeValuesWheel: {
			PrimaryBehavior: BehaviorDataSaving,
			DataSaving:      &DataSavingConfig{Subtype: models.SubtypeAssessment, Collection: CollectionWidgetData, SupportsTags: false},
			SupportsRefresh: false,
		},
		TypeDistortionCheck: {
			PrimaryBehavior: BehaviorDataSaving,
			DataSaving:      &DataSavingConfig{Subtype: models.SubtypeAssessment, Collection: CollectionWidgetData, SupportsTags: true},
			ChatPrompt:      &ChatPromptConfig{Mode: PromptModeStatic},
			SupportsRefresh: false,
		},
		TypeQuoteChallenge: {
			PrimaryBehavior: BehaviorPromptToChat,
			ChatPrompt:      &ChatPromptConfig{Mode: PromptModeStatic},
			SupportsRefresh: true,
		},
		TypeWeeklyReview: {
			PrimaryBehavior: BehaviorDataSaving,
			DataSaving:      &DataSavingConfig{Subtype: models.SubtypeAssessment, Collection: CollectionWidgetData, SupportsTags: true},
			SupportsRefresh: false,
		},
		TypeArgumentMapper: {
			PrimaryBehavior: BehaviorPromptToChat,
			ChatPrompt:      &ChatPromptConfig{Mode: PromptModeDynamic},
			SupportsRefresh: false,
		},
		TypeFeelingPicker: {
			PrimaryBehavior: BehaviorDataSaving,
			DataSaving:      &DataSavingConfig{Subtype: models.SubtypeMoodLog, Collection: CollectionMoods, SupportsTags: true},
			SupportsRefresh: false,
		},
		TypeQuickPrompt: {
			PrimaryBehavior: BehaviorPromptToChat,
			ChatPrompt:      &ChatPromptConfig{Mode: PromptModeStatic},
			SupportsRefresh: false,
		},
		TypeProgressView: {
			PrimaryBehavior: BehaviorDisplay,
			SupportsRefresh: false,
		},
	}}
}

// BehaviorOf returns the behavior config for a widget type. ok is false for
// anything outside the closed enumeration.
func (r Registry) BehaviorOf(widgetType string) (BehaviorConfig, bool) {
	cfg, ok := r.table[widgetType]
	return cfg, ok
}

func (r Registry) IsValid(widgetType string) bool {
	_, ok := r.table[widgetType]
	return ok
}

func (r Registry) SupportsDataSaving(widgetType string) bool {
	cfg, ok := r.table[widgetType]
	return ok && cfg.DataSaving != nil
}

func (r Registry) SupportsChatPrompt(widgetType string) bool {
	cfg, ok := r.table[widgetType]
	return ok && cfg.ChatPrompt != nil
}

func (r Registry) SupportsRefresh(widgetType string) bool {
	cfg, ok := r.table[widgetType]
	return ok && cfg.SupportsRefresh
}

// Catalog returns every type and its behavior, sorted by type name, for the
// widget-types endpoint.
func (r Registry) Catalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(r.table))
	for _, t := range AllTypes() {
		if cfg, ok := r.table[t]; ok {
			out = append(out, CatalogEntry{WidgetType: t, Behavior: cfg})
		}
	}
	return out
}

// AllTypes lists the closed widget type enumeration in display order.
func AllTypes() []string {
	return []string{
		TypeBreathingExercise,
		TypeReflectionPrompt,
		TypeGratitudeList,
		TypeMoodReframe,
		TypeStoicMeditation,
		TypeThoughtExperiment,
		TypeDailyMaxim,
		TypePhilosophicalDilemma,
		TypeValuesWheel,
		TypeDistortionCheck,
		TypeQuoteChallenge,
		TypeWeeklyReview,
		TypeArgumentMapper,
		TypeFeelingPicker,
		TypeQuickPrompt,
		TypeProgressView,
	}
}
