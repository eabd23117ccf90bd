package riskconfig

import "testing"

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
}

func TestDefaultCoversSixCategories(t *testing.T) {
	cfg := Default()
	if len(cfg.Categories) != 6 {
		t.Fatalf("categories = %d, want 6", len(cfg.Categories))
	}
	for _, key := range []CategoryKey{
		CategoryAcademic, CategoryDropout, CategoryEmotional,
		CategorySocial, CategoryBehavioral, CategoryFamily,
	} {
		if cfg.Category(key) == nil {
			t.Fatalf("missing category %q", key)
		}
		if len(cfg.StrategiesFor(key)) == 0 {
			t.Fatalf("no strategies for category %q", key)
		}
	}
}

func TestThresholdLevelBuckets(t *testing.T) {
	th := Thresholds{Low: 0.3, Medium: 0.5, High: 0.7, Critical: 0.85}
	cases := []struct {
		score float64
		want  RiskLevel
	}{
		{0.0, LevelMinimal},
		{0.29, LevelMinimal},
		{0.3, LevelLow},
		{0.5, LevelMedium},
		{0.69, LevelMedium},
		{0.7, LevelHigh},
		{0.85, LevelCritical},
		{1.0, LevelCritical},
	}
	for _, c := range cases {
		if got := th.Level(c.score); got != c.want {
			t.Fatalf("Level(%v) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	bad := Default()
	bad.Categories = nil
	if err := bad.Validate(); err == nil {
		t.Fatalf("empty categories should fail validation")
	}

	dup := Default()
	dup.Categories = append(dup.Categories, dup.Categories[0])
	if err := dup.Validate(); err == nil {
		t.Fatalf("duplicate category key should fail validation")
	}

	weight := Default()
	weight.Categories[0].Weight = 0
	if err := weight.Validate(); err == nil {
		t.Fatalf("zero weight should fail validation")
	}

	order := Default()
	order.Overall = Thresholds{Low: 0.7, Medium: 0.5, High: 0.3, Critical: 0.2}
	if err := order.Validate(); err == nil {
		t.Fatalf("descending thresholds should fail validation")
	}

	ttl := Default()
	ttl.CacheTTLMinutes = 0
	if err := ttl.Validate(); err == nil {
		t.Fatalf("zero cache TTL should fail validation")
	}
}

func TestFactorUnionIsSortedAndDeduped(t *testing.T) {
	cfg := Default()
	union := cfg.FactorUnion()
	if len(union) == 0 {
		t.Fatalf("empty factor union")
	}
	seen := map[string]bool{}
	for i, f := range union {
		if seen[f] {
			t.Fatalf("duplicate factor %q", f)
		}
		seen[f] = true
		if i > 0 && union[i-1] > f {
			t.Fatalf("union not sorted at %d", i)
		}
	}
}
