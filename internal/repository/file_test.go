package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/staffmatch/internal/ranking"
)

const sample = `{
  "candidates": [
    {"id": "c1", "first_name": "Anna", "position": "Elektroinstallateur EFZ", "unit_id": "zh", "status": "active",
     "location": {"lat": 47.46, "lon": 8.54, "postal_code": "8050", "city": "Zürich"}},
    {"id": "c2", "first_name": "Beat", "position": "Maurer", "unit_id": "be", "status": "active",
     "location": {"city": "Bern"}}
  ],
  "targets": [
    {"id": "vac-1", "kind": "vacancy", "role": "Elektroinstallateur", "radius_km": 25, "unit_id": "zh",
     "location": {"lat": 47.3769, "lon": 8.5417}}
  ]
}`

func TestFileRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	repo, err := LoadFile(path)
	require.NoError(t, err)

	all, err := repo.Candidates(context.Background(), ranking.Scope{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	zh, err := repo.Candidates(context.Background(), ranking.Scope{UnitID: "zh"})
	require.NoError(t, err)
	require.Len(t, zh, 1)
	assert.Equal(t, "c1", zh[0].ID)
	assert.Nil(t, all[1].Location.Lat)

	target, err := repo.Target(context.Background(), "vac-1")
	require.NoError(t, err)
	assert.Equal(t, 25.0, target.RadiusKm)
	target.RadiusKm = 99
	again, _ := repo.Target(context.Background(), "vac-1")
	assert.Equal(t, 25.0, again.RadiusKm, "targets are handed out as copies")

	_, err = repo.Target(context.Background(), "vac-2")
	require.ErrorIs(t, err, ranking.ErrNotFound)

	c, err := repo.Candidate(context.Background(), "c2")
	require.NoError(t, err)
	assert.Equal(t, "Beat", c.FirstName)
	_, err = repo.Candidate(context.Background(), "c9")
	require.ErrorIs(t, err, ranking.ErrNotFound)

}

func TestParseFileRejectsBadInput(t *testing.T) {
	for name, raw := range map[string]string{
		"not json":         `{`,
		"missing id":       `{"candidates": [{"first_name": "Anna"}]}`,
		"duplicate id":     `{"candidates": [{"id": "c1"}, {"id": "c1"}]}`,
		"duplicate target": `{"targets": [{"id": "t"}, {"id": "t"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFile([]byte(raw))
			require.Error(t, err)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestFileRepositoryHonoursContext(t *testing.T) {
	repo, err := ParseFile([]byte(sample))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = repo.Candidates(ctx, ranking.Scope{})
	require.ErrorIs(t, err, context.Canceled)
}
