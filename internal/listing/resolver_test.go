package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strv(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func TestResolvePatternParse(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		buildingName  string
		buildingCode  string
		unitNumber    string
		unitShort     string
		propertyShort string
	}{
		{
			name:          "unit override table",
			raw:           "Avalon D.3 - Sea view studio",
			buildingName:  "Avalon",
			buildingCode:  "AVA",
			unitNumber:    "D.3",
			unitShort:     "403",
			propertyShort: "AVA-403",
		},
		{
			name:          "numeric floor and room",
			raw:           "Avalon 5.3 - OceanSight - New interior, central",
			buildingName:  "Avalon",
			buildingCode:  "AVA",
			unitNumber:    "5.3",
			unitShort:     "503",
			propertyShort: "AVA-503",
		},
		{
			name:          "plain unit",
			raw:           "OceanView 12 - cozy apartment",
			buildingName:  "OceanView",
			buildingCode:  "OCE",
			unitNumber:    "12",
			unitShort:     "12",
			propertyShort: "OCE-12",
		},
		{
			name:          "two digit room",
			raw:           "Sunrise 10.12",
			buildingName:  "Sunrise",
			buildingCode:  "SUN",
			unitNumber:    "10.12",
			unitShort:     "1012",
			propertyShort: "SUN-1012",
		},
		{
			name:          "alnum unit strips dots",
			raw:           "Melody A.12 duplex",
			buildingName:  "Melody",
			buildingCode:  "MEL",
			unitNumber:    "A.12",
			unitShort:     "A12",
			propertyShort: "MEL-A12",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.raw, nil)
			assert.Equal(t, tt.buildingName, strv(res.BuildingName))
			assert.Equal(t, tt.buildingCode, strv(res.BuildingCode))
			assert.Equal(t, tt.unitNumber, strv(res.UnitNumber))
			assert.Equal(t, tt.unitShort, strv(res.UnitShort))
			assert.Equal(t, tt.propertyShort, strv(res.PropertyShort))
		})
	}
}

func TestResolveIsStable(t *testing.T) {
	raw := "Avalon D.3 - Sea view studio"
	first := Resolve(raw, nil)
	second := Resolve(raw, nil)
	assert.Equal(t, first, second)
	assert.Equal(t, "AVA-403", strv(first.PropertyShort))
}

func TestResolveOverrideWinsOverPatternParse(t *testing.T) {
	raw := "Avalon 5.3 - OceanSight - New interior, central"
	overrides := map[string]string{raw: "AVA-503"}

	res := Resolve(raw, overrides)
	require.NotNil(t, res.PropertyShort)
	assert.Equal(t, "AVA-503", *res.PropertyShort)
	assert.Equal(t, "AVA", strv(res.BuildingCode))
	assert.Equal(t, "503", strv(res.UnitShort))
	// Building name still comes from the raw prefix
	assert.Equal(t, "Avalon", strv(res.BuildingName))
}

func TestResolveOverrideMatching(t *testing.T) {
	overrides := map[string]string{
		"Avalon 5.3 - OceanSight": "AVA-503",
	}

	t.Run("case insensitive exact", func(t *testing.T) {
		res := Resolve("avalon 5.3 - oceansight", overrides)
		assert.Equal(t, "AVA-503", strv(res.PropertyShort))
	})

	t.Run("override key is substring of listing", func(t *testing.T) {
		res := Resolve("Avalon 5.3 - OceanSight - New interior, central", overrides)
		assert.Equal(t, "AVA-503", strv(res.PropertyShort))
	})

	t.Run("listing is substring of override key", func(t *testing.T) {
		res := Resolve("Avalon 5.3", overrides)
		assert.Equal(t, "AVA-503", strv(res.PropertyShort))
	})

	t.Run("no match falls back to parse", func(t *testing.T) {
		res := Resolve("Melody 2.1 garden view", overrides)
		assert.Equal(t, "MEL-201", strv(res.PropertyShort))
	})
}

func TestResolveUnparseable(t *testing.T) {
	res := Resolve("???", nil)
	assert.Nil(t, res.BuildingCode)
	assert.Nil(t, res.PropertyShort)

	res = Resolve("   ", nil)
	assert.Nil(t, res.BuildingName)
}
