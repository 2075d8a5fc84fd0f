package registry

import "testing"

func TestBehaviorOf_TotalOverEnumeration(t *testing.T) {
	r := Default()
	for _, widgetType := range AllTypes() {
		if _, ok := r.BehaviorOf(widgetType); !ok {
			t.Errorf("no behavior config for %s", widgetType)
		}
	}
}

func TestBehaviorOf_UnknownType(t *testing.T) {
	r := Default()
	if _, ok := r.BehaviorOf("spending_trend"); ok {
		t.Error("expected unknown type to miss")
	}
	if r.IsValid("") {
		t.Error("empty type should not be valid")
	}
}

func TestDataSavingConfigsAreConsistent(t *testing.T) {
	r := Default()
	for _, widgetType := range AllTypes() {
		cfg, _ := r.BehaviorOf(widgetType)
		if cfg.PrimaryBehavior == BehaviorDataSaving && cfg.DataSaving == nil {
			t.Errorf("%s declares data_saving but has no DataSaving config", widgetType)
		}
		if cfg.DataSaving != nil {
			if cfg.DataSaving.Subtype == "" || cfg.DataSaving.Collection == "" {
				t.Errorf("%s has incomplete DataSaving config: %+v", widgetType, cfg.DataSaving)
			}
		}
		if cfg.PrimaryBehavior == BehaviorPromptToChat && cfg.ChatPrompt == nil {
			t.Errorf("%s declares prompt_to_chat but has no ChatPrompt config", widgetType)
		}
	}
}

func TestConveniencePredicates(t *testing.T) {
	r := Default()
	if !r.SupportsDataSaving(TypeGratitudeList) {
		t.Error("gratitude_list should support data saving")
	}
	if r.SupportsDataSaving(TypeBreathingExercise) {
		t.Error("breathing_exercise should not support data saving")
	}
	if !r.SupportsChatPrompt(TypeThoughtExperiment) {
		t.Error("thought_experiment should support chat prompt")
	}
	if !r.SupportsRefresh(TypeDailyMaxim) {
		t.Error("daily_maxim should support refresh")
	}
}

func TestCatalogCoversEveryType(t *testing.T) {
	entries := Default().Catalog()
	if len(entries) != len(AllTypes()) {
		t.Fatalf("catalog has %d entries, want %d", len(entries), len(AllTypes()))
	}
}
