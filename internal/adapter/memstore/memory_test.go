package memstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/port"
)

func TestMemoryStoreImplementsProjectStore(t *testing.T) {
	var _ port.ProjectStore = NewMemoryStore()
}

func TestMemoryStoreProjects(t *testing.T) {
	s := NewMemoryStore()
	p := domain.Project{ID: "abc12345", AccessToken: "tok", ExpiresAt: time.Unix(1700600000, 0)}

	require.NoError(t, s.CreateProject(p))
	assert.ErrorIs(t, s.CreateProject(p), port.ErrProjectExists)

	got, err := s.GetProject(p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	ok, err := s.VerifyToken(p.ID, "tok")
	require.NoError(t, err)
	assert.True(t, ok)

	deleted, err := s.DeleteProject(p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = s.GetProject(p.ID)
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestMemoryStoreSelections(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.CreateProject(domain.Project{ID: "abc12345"}))

	id1, err := s.SaveSelection(domain.Selection{ProjectID: "abc12345", Name: "a", Indices: []int{1}})
	require.NoError(t, err)
	id2, err := s.SaveSelection(domain.Selection{ProjectID: "abc12345", Name: "b", Indices: []int{2}})
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	list, err := s.ListSelections("abc12345")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)

	require.NoError(t, s.DeleteSelection("abc12345", id1))
	assert.ErrorIs(t, s.DeleteSelection("abc12345", id1), port.ErrNotFound)

	_, err = s.SaveSelection(domain.Selection{ProjectID: "missing"})
	assert.ErrorIs(t, err, port.ErrNotFound)
}

func TestMemoryStoreDeleteExpired(t *testing.T) {
	s := NewMemoryStore()
	now := time.Unix(1700600000, 0)
	require.NoError(t, s.CreateProject(domain.Project{ID: "old00001", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, s.CreateProject(domain.Project{ID: "new00001", ExpiresAt: now.Add(time.Hour)}))
	_, err := s.SaveSelection(domain.Selection{ProjectID: "old00001"})
	require.NoError(t, err)

	removed, err := s.DeleteExpired(now)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "old00001", removed[0].ID)

	sels, err := s.ListSelections("old00001")
	require.NoError(t, err)
	assert.Empty(t, sels)
}
