package dto

// HistoryQuery narrows the aggregated feed. Zero-value DataSubtype queries
// all three backing collections.
type HistoryQuery struct {
	DataSubtype string
	Tags        []string
	Limit       int
}

// DefaultHistoryLimit bounds each sub-query and the merged result.
const DefaultHistoryLimit = 20

// DefaultWidgetHistoryLimit bounds per-widget history views.
const DefaultWidgetHistoryLimit = 5
