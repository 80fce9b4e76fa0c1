package compensation

import (
	"strings"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
)

// ClassificationContext resolves metric keys to a label, category and
// numeric flag. It is built once per request from the club's report template
// and the metric registry, and is read-only afterwards.
type ClassificationContext struct {
	metrics map[string]compensation.MetricInfo
}

func NewClassificationContext(fields []compensation.ReportField, registry []compensation.MetricDefinition) *ClassificationContext {
	cc := &ClassificationContext{
		metrics: make(map[string]compensation.MetricInfo, len(fields)+len(registry)),
	}

	defs := make(map[string]compensation.MetricDefinition, len(registry))
	for _, def := range registry {
		key := strings.TrimSpace(def.Key)
		if key == "" {
			continue
		}
		defs[key] = def
	}

	// registry keys are known even when the template does not use them
	for _, def := range registry {
		key := strings.TrimSpace(def.Key)
		if key == "" {
			continue
		}
		if _, ok := cc.metrics[key]; ok {
			continue
		}
		cc.add(key, "", "", defs)
	}

	for _, field := range fields {
		key := strings.TrimSpace(field.MetricKey)
		if key == "" {
			continue
		}
		cc.add(key, field.CustomLabel, field.FieldType, defs)
	}

	return cc
}

func (cc *ClassificationContext) add(key, customLabel, fieldType string, defs map[string]compensation.MetricDefinition) {
	def, inRegistry := defs[key]

	category, ok := compensation.ParseMetricCategory(fieldType)
	if !ok && inRegistry {
		category, ok = compensation.ParseMetricCategory(def.Category)
	}
	if !ok {
		category = heuristicCategory(key)
	}

	label := strings.TrimSpace(customLabel)
	if label == "" && inRegistry {
		label = strings.TrimSpace(def.Label)
	}
	if label == "" {
		label = key
	}

	numeric := !strings.Contains(strings.ToLower(key), "comment")
	if inRegistry && strings.EqualFold(def.Type, "text") {
		numeric = false
	}

	cc.metrics[key] = compensation.MetricInfo{
		Key:       key,
		Label:     label,
		Category:  category,
		IsNumeric: numeric,
	}
}

// Classify returns the classification of key. Unknown keys are classified by
// heuristics and reported as numeric unless they look like a comment.
func (cc *ClassificationContext) Classify(key string) compensation.MetricInfo {
	if cc != nil {
		if info, ok := cc.metrics[key]; ok {
			return info
		}
	}
	return compensation.MetricInfo{
		Key:       key,
		Label:     key,
		Category:  heuristicCategory(key),
		IsNumeric: !strings.Contains(strings.ToLower(key), "comment"),
	}
}

func heuristicCategory(key string) compensation.MetricCategory {
	k := strings.ToLower(strings.TrimSpace(key))
	switch {
	case k == compensation.MetricAvgRevenuePerShift:
		return compensation.CategoryOther
	case k == "cash" || k == "card":
		return compensation.CategoryIncome
	case strings.Contains(k, "income") || strings.Contains(k, "revenue"):
		return compensation.CategoryIncome
	case strings.Contains(k, "expense"):
		return compensation.CategoryExpense
	default:
		return compensation.CategoryOther
	}
}
