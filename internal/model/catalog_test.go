package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogIndexes(t *testing.T) {
	c := NewCatalog([]CalculatedField{
		{Slug: "total", Formula: "SUM(amount)", FormulaType: TypeAggregation, TimeScope: ScopeToday, Active: true},
		{Slug: "doubled", Formula: "amount * 2", FormulaType: TypeExpression, Active: true},
		{Slug: "retired", Formula: "1", FormulaType: TypeExpression, Active: false},
	})

	require.NotNil(t, c.BySlug("total"))
	assert.Equal(t, "SUM(amount)", c.BySlug("total").Formula)
	assert.Nil(t, c.BySlug("Total"), "slug lookups are case-sensitive")
	assert.Nil(t, c.BySlug("missing"))

	active := c.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "total", active[0].Slug)
	assert.Equal(t, "doubled", active[1].Slug)
}

func TestNewCatalogAssignsDefaults(t *testing.T) {
	c := NewCatalog([]CalculatedField{
		{Slug: "x", Formula: "1"},
	})

	f := c.BySlug("x")
	require.NotNil(t, f)
	assert.NotEmpty(t, f.ID)
	assert.Equal(t, ScopeAll, f.TimeScope)
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fields.yaml")
	yaml := `
fields:
  - slug: total_today
    formula: SUM(amount)
    formula_type: aggregation
    time_scope: today
    active: true
  - slug: deal_age
    formula: DAYS_SINCE(created_at)
    formula_type: date_diff
    active: true
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, c.Fields, 2)

	total := c.BySlug("total_today")
	require.NotNil(t, total)
	assert.Equal(t, TypeAggregation, total.FormulaType)
	assert.Equal(t, ScopeToday, total.TimeScope)
	assert.True(t, total.IsAggregation())

	age := c.BySlug("deal_age")
	require.NotNil(t, age)
	assert.False(t, age.IsAggregation())
	assert.Equal(t, ScopeAll, age.TimeScope)
}

func TestLoadCatalogMissingSlug(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fields.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fields:\n  - formula: '1'\n"), 0644))

	_, err := LoadCatalog(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no slug")
}

func TestLoadCatalogMissingFile(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "records.yaml")
	yaml := `
records:
  - amount: 100
    stage: won
    created_at: "2026-03-15T08:00:00Z"
  - amount: 50.5
    created_at: "2026-02-03"
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	records, err := LoadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "won", records[0].Get("stage"))
	assert.Equal(t, 50.5, records[1].Get("amount"))
	assert.Nil(t, records[0].Get("missing"))
}

func TestRecordGetNil(t *testing.T) {
	var r Record
	assert.Nil(t, r.Get("anything"))
}
