package resolver

import "testing"

func TestScoreChangeStringRendersNonzeroTags(t *testing.T) {
	var c ScoreChange
	c.sub[subScoreUpgrade] = 1
	c.sub[subScoreUnsatisfiedRecommends] = 2

	got := c.String()
	want := "u/2ur"
	if got != want {
		t.Fatalf("ScoreChange.String() = %q, want %q", got, want)
	}
}

func TestScoreChangeStringEmpty(t *testing.T) {
	var c ScoreChange
	if got := c.String(); got != "" {
		t.Fatalf("ScoreChange.String() on zero value = %q, want empty", got)
	}
}

func TestGetVersionScoreChangeClassifiesUpgrade(t *testing.T) {
	cache := newMemCache()
	cfg := testConfig()
	scorer := NewScoreManager(cache, cfg)

	old := pkgv("foo", "1.0")
	newer := pkgv("foo", "2.0")

	change := scorer.GetVersionScoreChange(old, newer)
	if change.sub[subScoreUpgrade] != 1 {
		t.Fatalf("expected subScoreUpgrade=1, got change=%+v", change)
	}
	if change.sub[subScoreDowngrade] != 0 {
		t.Fatalf("expected subScoreDowngrade=0, got change=%+v", change)
	}
}

func TestGetVersionScoreChangeClassifiesRemovalOfEssential(t *testing.T) {
	cache := newMemCache()
	cfg := testConfig()
	scorer := NewScoreManager(cache, cfg)

	v := pkgv("foo", "1.0")
	v.Essential = true

	change := scorer.GetVersionScoreChange(v, nil)
	if change.sub[subScoreRemoval] != 1 || change.sub[subScoreRemovalOfEssential] != 1 {
		t.Fatalf("expected removal+removalOfEssential, got change=%+v", change)
	}

	value := scorer.Value(change)
	if value >= 0 {
		t.Fatalf("removing an essential package should score very negatively, got %d", value)
	}
}

func TestValueClampsExtremes(t *testing.T) {
	cache := newMemCache()
	cfg := testConfig()
	cfg.QualityAdjustment = scoreClampMax * 10
	scorer := NewScoreManager(cache, cfg)

	var change ScoreChange
	got := scorer.Value(change)
	if got != scoreClampMax {
		t.Fatalf("Value() = %d, want clamp at %d", got, scoreClampMax)
	}
}

func TestUnsatisfiedUserRequestScoreChangeIgnoresMust(t *testing.T) {
	cache := newMemCache()
	cfg := testConfig()
	scorer := NewScoreManager(cache, cfg)

	change := scorer.GetUnsatisfiedUserRequestScoreChange(Must)
	if change != (ScoreChange{}) {
		t.Fatalf("a Must request should never contribute a soft score change, got %+v", change)
	}
}
