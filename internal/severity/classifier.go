// Package severity выставляет начальную серьезность инцидента по ключевым словам.
package severity

import (
	"fmt"
	"os"
	"strings"

	"github.com/shenikar/civic_alert_system/internal/models"
	"gopkg.in/yaml.v3"
)

// Tier - ступень классификатора. Срабатывает, если описание содержит одно из
// Keywords или тип инцидента совпадает с одним из Types.
type Tier struct {
	Severity models.Severity `yaml:"severity"`
	Keywords []string        `yaml:"keywords"`
	Types    []string        `yaml:"types"`
}

// Rules - упорядоченный набор ступеней, первая сработавшая побеждает
type Rules struct {
	Tiers    []Tier          `yaml:"tiers"`
	Fallback models.Severity `yaml:"fallback"`
}

// Default возвращает встроенные правила
func Default() Rules {
	return Rules{
		Tiers: []Tier{
			{
				Severity: models.SeverityCritical,
				Keywords: []string{"fire", "explosion", "bleeding", "unconscious", "weapon", "shooting", "collapse"},
			},
			{
				Severity: models.SeverityHigh,
				Keywords: []string{"accident", "injury", "leak", "flood", "theft", "break-in"},
			},
			{
				Severity: models.SeverityHigh,
				Types:    []string{"fire", "medical emergency"},
			},
		},
		Fallback: models.SeverityMedium,
	}
}

// LoadRules читает правила из YAML файла
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read severity rules: %w", err)
	}
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse severity rules: %w", err)
	}
	if err := rules.validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}

func (r *Rules) validate() error {
	if r.Fallback == "" {
		r.Fallback = models.SeverityMedium
	}
	if _, err := models.ParseSeverity(string(r.Fallback)); err != nil {
		return fmt.Errorf("severity rules: fallback: %w", err)
	}
	for i, t := range r.Tiers {
		if _, err := models.ParseSeverity(string(t.Severity)); err != nil {
			return fmt.Errorf("severity rules: tier %d: %w", i, err)
		}
		if len(t.Keywords) == 0 && len(t.Types) == 0 {
			return fmt.Errorf("severity rules: tier %d has neither keywords nor types", i)
		}
	}
	return nil
}

// Classifier - детерминированный эвристический классификатор
type Classifier struct {
	tiers    []Tier
	fallback models.Severity
}

// NewClassifier нормализует правила (нижний регистр) и создает классификатор
func NewClassifier(rules Rules) *Classifier {
	c := &Classifier{fallback: rules.Fallback}
	if c.fallback == "" {
		c.fallback = models.SeverityMedium
	}
	for _, t := range rules.Tiers {
		c.tiers = append(c.tiers, Tier{
			Severity: t.Severity,
			Keywords: lowerAll(t.Keywords),
			Types:    lowerAll(t.Types),
		})
	}
	return c
}

// Classify возвращает серьезность по описанию и типу инцидента
func (c *Classifier) Classify(description, incidentType string) models.Severity {
	desc := strings.ToLower(description)
	typ := strings.ToLower(strings.TrimSpace(incidentType))

	for _, t := range c.tiers {
		for _, k := range t.Keywords {
			if strings.Contains(desc, k) {
				return t.Severity
			}
		}
		for _, tt := range t.Types {
			if typ == tt {
				return t.Severity
			}
		}
	}
	return c.fallback
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
