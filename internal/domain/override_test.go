package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverrideRule_Matches(t *testing.T) {
	p := &Plan{ID: "plan-1", ProviderID: "fairplay", Name: "FairPlay FirstFill 1GB"}

	assert.True(t, (&OverrideRule{Target: TargetProvider, Key: "fairplay"}).Matches(p))
	assert.True(t, (&OverrideRule{Target: TargetPlan, Key: "plan-1"}).Matches(p))
	assert.True(t, (&OverrideRule{Target: TargetNameContains, Key: "firstfill"}).Matches(p))
	assert.False(t, (&OverrideRule{Target: TargetNameContains, Key: ""}).Matches(p))
	assert.False(t, (&OverrideRule{Target: TargetPlan, Key: "plan-2"}).Matches(p))
}

func TestOverrideSet_ForcedRecurrence_LastWins(t *testing.T) {
	once, unl := PromoOneTime, PromoUnlimited
	set := NewOverrideSet(
		OverrideRule{Target: TargetProvider, Key: "x", ForceRecurrence: &unl},
		OverrideRule{Target: TargetProvider, Key: "x", ForceRecurrence: &once},
	)
	r, ok := set.ForcedRecurrence("x")
	assert.True(t, ok)
	assert.Equal(t, PromoOneTime, r)

	_, ok = set.ForcedRecurrence("y")
	assert.False(t, ok)

	var nilSet *OverrideSet
	_, ok = nilSet.ForcedRecurrence("x")
	assert.False(t, ok)
}

func TestOverrideRule_Validate(t *testing.T) {
	once := PromoOneTime
	tests := []struct {
		name    string
		rule    OverrideRule
		wantErr string
	}{
		{"provider recurrence", OverrideRule{Target: TargetProvider, Key: "airalo", ForceRecurrence: &once}, ""},
		{"plan exclude", OverrideRule{Target: TargetPlan, Key: "p1", Exclude: true}, ""},
		{"note only", OverrideRule{Target: TargetNameContains, Key: "trial", Note: "check"}, ""},
		{"unknown target", OverrideRule{Target: "country", Key: "DE", Exclude: true}, "unknown override target"},
		{"blank key", OverrideRule{Target: TargetPlan, Key: "  ", Exclude: true}, "match value is required"},
		{"recurrence on plan", OverrideRule{Target: TargetPlan, Key: "p1", ForceRecurrence: &once}, "only be forced for a provider"},
		{"no directive", OverrideRule{Target: TargetProvider, Key: "x"}, "no directive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
