// Package riskconfig holds the static risk model configuration: the six
// category definitions (weight, contributing factors, severity thresholds),
// the overall threshold set, and the per-category intervention strategy
// catalog. Defaults are compiled in; a YAML file and RISK_-prefixed env vars
// can override them at startup.
package riskconfig

import (
	"fmt"
	"sort"
)

type CategoryKey string

const (
	CategoryAcademic   CategoryKey = "academic"
	CategoryDropout    CategoryKey = "dropout"
	CategoryEmotional  CategoryKey = "emotional"
	CategorySocial     CategoryKey = "social"
	CategoryBehavioral CategoryKey = "behavioral"
	CategoryFamily     CategoryKey = "family"
)

type RiskLevel string

const (
	LevelMinimal  RiskLevel = "minimal"
	LevelLow      RiskLevel = "low"
	LevelMedium   RiskLevel = "medium"
	LevelHigh     RiskLevel = "high"
	LevelCritical RiskLevel = "critical"
)

// Thresholds are ascending lower bounds. A score below Low is "minimal".
type Thresholds struct {
	Low      float64 `koanf:"low" json:"low"`
	Medium   float64 `koanf:"medium" json:"medium"`
	High     float64 `koanf:"high" json:"high"`
	Critical float64 `koanf:"critical" json:"critical"`
}

// Level buckets a score against the threshold set.
func (t Thresholds) Level(score float64) RiskLevel {
	switch {
	case score >= t.Critical:
		return LevelCritical
	case score >= t.High:
		return LevelHigh
	case score >= t.Medium:
		return LevelMedium
	case score >= t.Low:
		return LevelLow
	default:
		return LevelMinimal
	}
}

type Category struct {
	Key        CategoryKey `koanf:"key" json:"key"`
	Weight     float64     `koanf:"weight" json:"weight"`
	Factors    []string    `koanf:"factors" json:"factors"`
	Thresholds Thresholds  `koanf:"thresholds" json:"thresholds"`
}

type Config struct {
	Categories []Category `koanf:"categories" json:"categories"`

	// Overall is a dedicated threshold set for the weighted overall score.
	// The legacy service reused the academic thresholds here; that looked
	// like a copy-paste slip, so overall gets its own (identical by default)
	// bounds that operators can tune independently.
	Overall Thresholds `koanf:"overall_thresholds" json:"overall_thresholds"`

	// EmergencyOverall is the overall score above which an emergency alert
	// is raised regardless of per-category results.
	EmergencyOverall float64 `koanf:"emergency_overall" json:"emergency_overall"`

	// Strategies maps a category key to its intervention strategy catalog.
	Strategies map[string][]string `koanf:"strategies" json:"strategies"`

	CacheTTLMinutes    int `koanf:"cache_ttl_minutes" json:"cache_ttl_minutes"`
	AlertRetentionDays int `koanf:"alert_retention_days" json:"alert_retention_days"`
	AlertQueryLimit    int `koanf:"alert_query_limit" json:"alert_query_limit"`
	BatchWorkers       int `koanf:"batch_workers" json:"batch_workers"`
}

func Default() *Config {
	return &Config{
		Categories: []Category{
			{
				Key:        CategoryAcademic,
				Weight:     0.25,
				Factors:    []string{"attendance", "grades", "homework_completion", "class_participation", "exam_performance"},
				Thresholds: Thresholds{Low: 0.3, Medium: 0.5, High: 0.7, Critical: 0.85},
			},
			{
				Key:        CategoryDropout,
				Weight:     0.20,
				Factors:    []string{"absence_streak", "failed_subjects", "reenrollment_delay", "work_obligations"},
				Thresholds: Thresholds{Low: 0.3, Medium: 0.5, High: 0.7, Critical: 0.85},
			},
			{
				Key:        CategoryEmotional,
				Weight:     0.15,
				Factors:    []string{"mood_reports", "counselor_referrals", "stress_indicators"},
				Thresholds: Thresholds{Low: 0.25, Medium: 0.45, High: 0.65, Critical: 0.8},
			},
			{
				Key:        CategorySocial,
				Weight:     0.10,
				Factors:    []string{"peer_isolation", "bullying_reports", "group_work_avoidance"},
				Thresholds: Thresholds{Low: 0.3, Medium: 0.5, High: 0.7, Critical: 0.85},
			},
			{
				Key:        CategoryBehavioral,
				Weight:     0.15,
				Factors:    []string{"disciplinary_reports", "tardiness", "classroom_disruption"},
				Thresholds: Thresholds{Low: 0.3, Medium: 0.5, High: 0.7, Critical: 0.85},
			},
			{
				Key:        CategoryFamily,
				Weight:     0.15,
				Factors:    []string{"family_instability", "economic_hardship", "guardian_engagement"},
				Thresholds: Thresholds{Low: 0.25, Medium: 0.45, High: 0.65, Critical: 0.8},
			},
		},
		Overall:          Thresholds{Low: 0.3, Medium: 0.5, High: 0.7, Critical: 0.85},
		EmergencyOverall: 0.8,
		Strategies: map[string][]string{
			string(CategoryAcademic): {
				"Tutorías personalizadas después de clases",
				"Plan de recuperación académica con metas semanales",
				"Asesoría entre pares con estudiantes de alto desempeño",
			},
			string(CategoryDropout): {
				"Entrevista de permanencia con el estudiante y su tutor",
				"Gestión de beca o apoyo económico institucional",
				"Plan de asistencia flexible acordado con orientación",
			},
			string(CategoryEmotional): {
				"Canalización al departamento de orientación educativa",
				"Sesiones de acompañamiento socioemocional",
				"Contacto con la familia para seguimiento conjunto",
			},
			string(CategorySocial): {
				"Integración a clubes y actividades extracurriculares",
				"Programa de mediación entre pares",
				"Seguimiento de convivencia escolar",
			},
			string(CategoryBehavioral): {
				"Acuerdo de conducta con seguimiento quincenal",
				"Entrevista con padres de familia y prefectura",
				"Actividades de regulación y manejo de conflictos",
			},
			string(CategoryFamily): {
				"Visita o entrevista con padres de familia",
				"Canalización a trabajo social",
				"Vinculación con programas de apoyo municipal",
			},
		},
		CacheTTLMinutes:    60,
		AlertRetentionDays: 90,
		AlertQueryLimit:    50,
		BatchWorkers:       4,
	}
}

// Category returns the config for a key, or nil when the key is unknown.
func (c *Config) Category(key CategoryKey) *Category {
	for i := range c.Categories {
		if c.Categories[i].Key == key {
			return &c.Categories[i]
		}
	}
	return nil
}

// FactorUnion returns the sorted union of every configured factor name.
// Its size is the denominator of the assessment confidence figure.
func (c *Config) FactorUnion() []string {
	seen := map[string]struct{}{}
	for _, cat := range c.Categories {
		for _, f := range cat.Factors {
			seen[f] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// StrategiesFor returns the strategy catalog for a category key.
func (c *Config) StrategiesFor(key CategoryKey) []string {
	return c.Strategies[string(key)]
}

func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("at least one risk category required")
	}
	seen := map[CategoryKey]struct{}{}
	for _, cat := range c.Categories {
		if cat.Key == "" {
			return fmt.Errorf("category key must not be empty")
		}
		if _, dup := seen[cat.Key]; dup {
			return fmt.Errorf("duplicate category key %q", cat.Key)
		}
		seen[cat.Key] = struct{}{}
		if cat.Weight <= 0 || cat.Weight > 1 {
			return fmt.Errorf("category %q: weight %v outside (0,1]", cat.Key, cat.Weight)
		}
		if err := validateThresholds(string(cat.Key), cat.Thresholds); err != nil {
			return err
		}
	}
	if err := validateThresholds("overall", c.Overall); err != nil {
		return err
	}
	if c.CacheTTLMinutes <= 0 {
		return fmt.Errorf("cache_ttl_minutes must be positive")
	}
	return nil
}

func validateThresholds(name string, t Thresholds) error {
	vals := []float64{t.Low, t.Medium, t.High, t.Critical}
	prev := 0.0
	for _, v := range vals {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s thresholds: %v outside [0,1]", name, v)
		}
		if v < prev {
			return fmt.Errorf("%s thresholds must be ascending", name)
		}
		prev = v
	}
	return nil
}
