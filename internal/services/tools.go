package services

import (
	"strings"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/registry"
)

// Mutation tool names. show_* tools are derived from the widget type they
// render and never mutate stored state.
const (
	toolAddWidget    = "add_dashboard_widget"
	toolRemoveWidget = "remove_dashboard_widget"
	toolUpdateWidget = "update_dashboard_widget"
	toolLogMood      = "log_mood"
)

const (
	toolShowThoughtExperiment    = "show_" + registry.TypeThoughtExperiment
	toolShowPhilosophicalDilemma = "show_" + registry.TypePhilosophicalDilemma
	toolShowBreathingExercise    = "show_" + registry.TypeBreathingExercise
	toolShowStoicMeditation      = "show_" + registry.TypeStoicMeditation
	toolShowDailyMaxim           = "show_" + registry.TypeDailyMaxim
	toolShowQuoteChallenge       = "show_" + registry.TypeQuoteChallenge
)

// toolsForMode filters the tool set before the model call. chat_only turns
// carry no tools at all; the bridge tolerates a toolless turn.
func toolsForMode(mode string) []dto.VertexTool {
	all := toolSchemas()
	switch mode {
	case dto.ModeChatOnly:
		return nil
	case dto.ModeSocratic:
		return filterTools(all, toolShowThoughtExperiment, toolShowPhilosophicalDilemma)
	case dto.ModePractice:
		keep := []string{toolLogMood}
		for _, t := range all {
			if strings.HasPrefix(t.Name, "show_") {
				keep = append(keep, t.Name)
			}
		}
		return filterTools(all, keep...)
	default:
		return all
	}
}

func filterTools(tools []dto.VertexTool, names ...string) []dto.VertexTool {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[n] = struct{}{}
	}
	var out []dto.VertexTool
	for _, t := range tools {
		if _, ok := allowed[t.Name]; ok {
			out = append(out, t)
		}
	}
	return out
}

func isValidToolName(name string) bool {
	for _, t := range toolSchemas() {
		if t.Name == name {
			return true
		}
	}
	return false
}

func toolSchemas() []dto.VertexTool {
	widgetArgs := &dto.VertexSchema{
		Type: "object",
		Properties: map[string]*dto.VertexSchema{
			"widgetType": {Type: "string", Enum: registry.AllTypes(), Description: "Widget type to add."},
			"title":      {Type: "string", Description: "Short display title."},
			"description": {
				Type:        "string",
				Description: "One-sentence summary shown under the title.",
			},
			"args": {Type: "object", Description: "Type-specific configuration passed to the widget."},
			"size": {Type: "string", Enum: []string{"small", "medium", "large"}, Description: "Defaults to medium."},
			"tags": {Type: "array", Items: &dto.VertexSchema{Type: "string"}, Description: "Topic tags for later filtering."},
		},
		Required: []string{"widgetType", "title"},
	}

	return []dto.VertexTool{
		{
			Name:        toolAddWidget,
			Description: "Add a widget to the user's dashboard. Use when the user agrees to a new practice or asks to keep something.",
			Parameters:  widgetArgs,
		},
		{
			Name:        toolRemoveWidget,
			Description: "Remove a widget from the user's dashboard. Only remove when the user asks or clearly consents.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"widgetId": {Type: "string", Description: "Id of the widget to remove."},
					"reason":   {Type: "string", Description: "Short rationale surfaced to the user."},
				},
				Required: []string{"widgetId"},
			},
		},
		{
			Name:        toolUpdateWidget,
			Description: "Update the title, description, or configuration of an existing dashboard widget.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"widgetId": {Type: "string", Description: "Id of the widget to update."},
					"updates": {
						Type: "object",
						Properties: map[string]*dto.VertexSchema{
							"title":       {Type: "string"},
							"description": {Type: "string"},
							"args":        {Type: "object"},
						},
						Description: "Fields to change; omitted fields keep their value.",
					},
				},
				Required: []string{"widgetId", "updates"},
			},
		},
		{
			Name:        toolLogMood,
			Description: "Record the user's current emotional state when they describe how they feel.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"valence": {Type: "number", Description: "Pleasantness, -1 (negative) to 1 (positive)."},
					"energy":  {Type: "number", Description: "Arousal, -1 (drained) to 1 (activated)."},
					"label":   {Type: "string", Description: "One or two word mood name in the user's language."},
					"context": {Type: "string", Description: "What prompted the feeling, if shared."},
					"tags":    {Type: "array", Items: &dto.VertexSchema{Type: "string"}},
				},
				Required: []string{"valence", "energy", "label"},
			},
		},
		{
			Name:        toolShowThoughtExperiment,
			Description: "Render a thought experiment card in the conversation. Not a dashboard change.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"title":    {Type: "string", Description: "Name of the experiment."},
					"scenario": {Type: "string", Description: "The scenario to consider."},
					"question": {Type: "string", Description: "The question posed to the user."},
				},
				Required: []string{"title", "scenario", "question"},
			},
		},
		{
			Name:        toolShowPhilosophicalDilemma,
			Description: "Render a two-horned dilemma card in the conversation. Not a dashboard change.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"title":   {Type: "string"},
					"setup":   {Type: "string", Description: "The situation forcing a choice."},
					"optionA": {Type: "string"},
					"optionB": {Type: "string"},
				},
				Required: []string{"title", "setup", "optionA", "optionB"},
			},
		},
		{
			Name:        toolShowBreathingExercise,
			Description: "Render a guided breathing exercise in the conversation.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"pattern":  {Type: "string", Enum: []string{"box", "478", "coherent"}, Description: "Breathing pattern."},
					"duration": {Type: "integer", Description: "Length in seconds; defaults to 120."},
				},
				Required: []string{"pattern"},
			},
		},
		{
			Name:        toolShowStoicMeditation,
			Description: "Render a short guided Stoic meditation in the conversation.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"theme": {Type: "string", Description: "Meditation theme, e.g. impermanence or the dichotomy of control."},
					"text":  {Type: "string", Description: "The meditation text to read."},
				},
				Required: []string{"theme", "text"},
			},
		},
		{
			Name:        toolShowDailyMaxim,
			Description: "Render a maxim card with attribution in the conversation.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"quote":  {Type: "string"},
					"author": {Type: "string"},
					"school": {Type: "string", Description: "Philosophical tradition, if known."},
				},
				Required: []string{"quote", "author"},
			},
		},
		{
			Name:        toolShowQuoteChallenge,
			Description: "Render a quote with a challenge question asking the user to apply it.",
			Parameters: &dto.VertexSchema{
				Type: "object",
				Properties: map[string]*dto.VertexSchema{
					"quote":     {Type: "string"},
					"author":    {Type: "string"},
					"challenge": {Type: "string", Description: "How the user should apply the quote today."},
				},
				Required: []string{"quote", "author", "challenge"},
			},
		},
	}
}
