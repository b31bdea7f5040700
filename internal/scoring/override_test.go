package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/staffmatch/internal/candidate"
)

func TestDecodeOverrideBuild(t *testing.T) {
	raw := map[string]any{
		"base":           "vacancy",
		"role-match-max": "35",
		"quality":        map[string]any{"a": 25},
		"linear-decay":   map[string]any{"max-points": 15, "cap-km": 40},
		"docs-bonus":     5,
		"hard-filter":    false,
		"primary-key":    "distance",
	}

	o, err := DecodeOverride(raw)
	require.NoError(t, err)

	p, err := o.Build("tuned")
	require.NoError(t, err)

	assert.Equal(t, "tuned", p.Name)
	assert.Equal(t, 35.0, p.RoleMatchMax)
	assert.Equal(t, 25.0, p.QualityTable[candidate.QualityA])
	assert.Equal(t, 20.0, p.QualityTable[candidate.QualityB])
	assert.Equal(t, LinearDecay{MaxPoints: 15, CapKm: 40}, p.Location)
	assert.Equal(t, 5.0, p.DocsBonus)
	assert.False(t, p.HardFilterOnRoleMatch)
	assert.Equal(t, SortByDistance, p.PrimaryKey)
}

func TestDecodeOverrideRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeOverride(map[string]any{"bonus": 3})
	require.Error(t, err)
}

func TestOverrideBuildErrors(t *testing.T) {
	_, err := Override{Quality: map[string]float64{"Z": 1}}.Build("x")
	require.Error(t, err)

	_, err = Override{Stepped: &Stepped{}, LinearDecay: &LinearDecay{}}.Build("x")
	require.Error(t, err)

	negative := -1.0
	_, err = Override{DocsBonus: &negative}.Build("x")
	require.Error(t, err)

	_, err = Override{Base: "missing"}.Build("x")
	require.Error(t, err)
}
