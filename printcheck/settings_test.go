package printcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestSettings_Default(t *testing.T) {
	s := SuggestSettings(&Report{})
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, AdhesionBrim, s.BedAdhesion)
	assert.Equal(t, 20, s.InfillPercentage)

	assert.Equal(t, DefaultSettings(), SuggestSettings(nil))
}

func TestSuggestSettings_Causes(t *testing.T) {
	r := &Report{Warnings: []Issue{
		{Cause: CauseUndersize},
		{Cause: CauseSmallFeature},
		{Cause: CauseOverhang},
		{Cause: CauseThinWall},
	}}
	s := SuggestSettings(r)

	assert.Equal(t, 0.1, s.LayerHeight)
	assert.Equal(t, 30.0, s.PrintSpeed)
	assert.True(t, s.SupportsNeeded)
	assert.Equal(t, AdhesionBrim, s.BedAdhesion)

	// undersize and small features share one consideration
	assert.Len(t, s.SpecialConsiderations, 2)
}

func TestSuggestSettings_MessageIndependent(t *testing.T) {
	r := &Report{Warnings: []Issue{{Cause: CauseOversize, Message: "overhang small"}}}
	s := SuggestSettings(r)

	assert.Equal(t, AdhesionRaft, s.BedAdhesion)
	assert.False(t, s.SupportsNeeded)
	assert.Equal(t, 0.2, s.LayerHeight)
}

func TestSuggestSettings_PrinterLayerHeight(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LayerHeight = 0.28

	s := SuggestSettings(New(cfg).Validate(tetra(10)))
	assert.Equal(t, 0.28, s.LayerHeight)

	// fine detail never coarsens the layer height
	s = SuggestSettings(New(cfg).Validate(tetra(2)))
	assert.Equal(t, 0.1, s.LayerHeight)

	cfg.LayerHeight = 0.08
	s = SuggestSettings(New(cfg).Validate(tetra(2)))
	assert.Equal(t, 0.08, s.LayerHeight)
}
