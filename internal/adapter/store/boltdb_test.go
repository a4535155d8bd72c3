package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/port"
)

func openTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "tessera.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testProject(id string, expiresAt time.Time) domain.Project {
	return domain.Project{
		ID:           id,
		AccessToken:  "tok-" + id,
		DatasetPath:  "/data/" + id + ".tsr",
		DatasetName:  "run " + id,
		Description:  "test project",
		EpisodeCount: 500,
		Dimension:    128,
		CreatedAt:    time.Unix(1700000000, 0),
		ExpiresAt:    expiresAt,
	}
}

func TestProjectCRUD(t *testing.T) {
	s := openTestStore(t)
	p := testProject("abc12345", time.Unix(1700600000, 0))

	require.NoError(t, s.CreateProject(p))

	got, err := s.GetProject(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = s.GetProject("nope1234")
	assert.ErrorIs(t, err, port.ErrNotFound)

	list, err := s.ListProjects()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)

	deleted, err := s.DeleteProject(p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteProject(p.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCreateProjectDuplicateID(t *testing.T) {
	s := openTestStore(t)
	p := testProject("abc12345", time.Unix(1700600000, 0))

	require.NoError(t, s.CreateProject(p))
	err := s.CreateProject(p)
	assert.ErrorIs(t, err, port.ErrProjectExists)
}

func TestVerifyToken(t *testing.T) {
	s := openTestStore(t)
	p := testProject("abc12345", time.Unix(1700600000, 0))
	require.NoError(t, s.CreateProject(p))

	ok, err := s.VerifyToken(p.ID, p.AccessToken)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.VerifyToken(p.ID, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.VerifyToken("nope1234", "tok")
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestSelections(t *testing.T) {
	s := openTestStore(t)
	p := testProject("abc12345", time.Unix(1700600000, 0))
	require.NoError(t, s.CreateProject(p))

	sel := domain.Selection{
		ProjectID: p.ID,
		Name:      "baseline",
		Strategy:  "diversity",
		NSamples:  3,
		Indices:   []int{2, 7, 19},
		Coverage:  0.82,
		CreatedAt: time.Unix(1700000100, 0),
	}

	id1, err := s.SaveSelection(sel)
	require.NoError(t, err)
	sel.Name = "second"
	id2, err := s.SaveSelection(sel)
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	got, err := s.GetSelection(p.ID, id1)
	require.NoError(t, err)
	assert.Equal(t, "baseline", got.Name)
	assert.Equal(t, []int{2, 7, 19}, got.Indices)
	assert.Equal(t, 0.82, got.Coverage)

	_, err = s.GetSelection(p.ID, 999)
	assert.ErrorIs(t, err, port.ErrNotFound)

	list, err := s.ListSelections(p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, id1, list[0].ID)
	assert.Equal(t, id2, list[1].ID)

	require.NoError(t, s.DeleteSelection(p.ID, id1))
	list, err = s.ListSelections(p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id2, list[0].ID)
}

func TestSaveSelectionUnknownProject(t *testing.T) {
	s := openTestStore(t)
	_, err := s.SaveSelection(domain.Selection{ProjectID: "nope1234"})
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestSummaryCache(t *testing.T) {
	s := openTestStore(t)

	type summary struct {
		NEpisodes int `json:"n_episodes"`
	}

	var out summary
	found, err := s.GetSummary("abc12345", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.PutSummary("abc12345", summary{NEpisodes: 500}))

	found, err = s.GetSummary("abc12345", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 500, out.NEpisodes)
}

func TestDeleteExpired(t *testing.T) {
	s := openTestStore(t)
	now := time.Unix(1700600000, 0)

	expired := testProject("old00001", now.Add(-time.Hour))
	fresh := testProject("new00001", now.Add(time.Hour))
	require.NoError(t, s.CreateProject(expired))
	require.NoError(t, s.CreateProject(fresh))

	_, err := s.SaveSelection(domain.Selection{ProjectID: expired.ID, Indices: []int{1}})
	require.NoError(t, err)
	require.NoError(t, s.PutSummary(expired.ID, map[string]int{"n": 1}))

	removed, err := s.DeleteExpired(now)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, expired.ID, removed[0].ID)

	_, err = s.GetProject(expired.ID)
	assert.ErrorIs(t, err, port.ErrNotFound)

	sels, err := s.ListSelections(expired.ID)
	require.NoError(t, err)
	assert.Empty(t, sels)

	var out map[string]int
	found, err := s.GetSummary(expired.ID, &out)
	require.NoError(t, err)
	assert.False(t, found, "summary should be removed with the project")

	_, err = s.GetProject(fresh.ID)
	assert.NoError(t, err)
}
