package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/roamer/internal/domain"
	"github.com/alexanderramin/roamer/internal/importer"
	"github.com/alexanderramin/roamer/internal/repository"
	"github.com/alexanderramin/roamer/internal/testutil"
)

const overridesYAML = `default_hassle_penalty: 0.75
default_promo_type: one-time
provider_promo_overrides:
  euro-sim: unlimited
plan_overrides:
  - match: {plan_id: de-3gb}
    override: {exclude: true}
    note: sold out
  - match: {name_contains: trial}
    override: {new_user_only: true}
`

func TestOverrideService_Import_StoresRulesAndDefaults(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	res, err := s.override.Import(ctx, writeFile(t, "overrides.yaml", overridesYAML))
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rules)
	require.NotNil(t, res.HassleUnit)
	assert.Equal(t, domain.Money(75), *res.HassleUnit)
	require.NotNil(t, res.UnknownAs)
	assert.Equal(t, domain.PromoOneTime, *res.UnknownAs)

	rules, err := s.override.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 3)
	assert.Equal(t, domain.TargetProvider, rules[0].Target)
	assert.Equal(t, "euro-sim", rules[0].Key)
	assert.Equal(t, domain.TargetPlan, rules[1].Target)
	assert.True(t, rules[1].Exclude)
	assert.Equal(t, "sold out", rules[1].Note)
	assert.True(t, rules[2].NewUserOnly)

	v, err := s.settings.Get(ctx, repository.SettingHassleUnit)
	require.NoError(t, err)
	assert.Equal(t, "75", v)
}

func TestOverrideService_Import_ReplacesAndClearsDefaults(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()
	_, err := s.override.Import(ctx, writeFile(t, "overrides.yaml", overridesYAML))
	require.NoError(t, err)

	_, err = s.override.Import(ctx, writeFile(t, "overrides.json", `{"plan_overrides": [
	  {"match": {"provider_id": "local-co"}, "override": {"promo_type": "one-time"}}
	]}`))
	require.NoError(t, err)

	rules, err := s.override.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "local-co", rules[0].Key)

	_, err = s.settings.Get(ctx, repository.SettingHassleUnit)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.settings.Get(ctx, repository.SettingUnknownAs)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOverrideService_Import_RejectsMalformed(t *testing.T) {
	s := newTestServices(t)
	_, err := s.override.Import(context.Background(), writeFile(t, "overrides.json", `{"plan_overrides": [
	  {"match": {"plan_id": "a", "provider_id": "b"}, "override": {"exclude": true}}
	]}`))
	assert.ErrorIs(t, err, importer.ErrMalformedInput)
}

func TestOverrideService_AddListRemove(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	added, err := s.override.Add(ctx, domain.OverrideRule{Target: domain.TargetPlan, Key: "p1", Exclude: true})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID, "an id is assigned")

	second := testutil.NewTestRule(domain.TargetProvider, "x", testutil.WithForcedRecurrence(domain.PromoOneTime))
	_, err = s.override.Add(ctx, second)
	require.NoError(t, err)

	rules, err := s.override.List(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, added.ID, rules[0].ID)
	assert.Equal(t, second.ID, rules[1].ID)

	require.NoError(t, s.override.Remove(ctx, added.ID))
	assert.ErrorIs(t, s.override.Remove(ctx, added.ID), repository.ErrNotFound)
}

func TestOverrideService_Add_RejectsInvalidRule(t *testing.T) {
	s := newTestServices(t)
	_, err := s.override.Add(context.Background(), domain.OverrideRule{Target: domain.TargetPlan, Key: "p1"})
	assert.ErrorIs(t, err, importer.ErrMalformedInput)
}
