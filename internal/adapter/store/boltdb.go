// Package store persists projects and their saved selections in a
// local BoltDB file.
package store

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/port"
)

var (
	bucketProjects   = []byte("projects")
	bucketSelections = []byte("selections")
	bucketSummaries  = []byte("summaries")
)

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketProjects, bucketSelections, bucketSummaries} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

type projectMeta struct {
	AccessToken  string `json:"access_token"`
	DatasetPath  string `json:"dataset_path"`
	DatasetName  string `json:"dataset_name,omitempty"`
	Description  string `json:"description,omitempty"`
	EpisodeCount int    `json:"episode_count"`
	Dimension    int    `json:"dimension"`
	CreatedAt    int64  `json:"created_at"`
	ExpiresAt    int64  `json:"expires_at"`
}

type selectionMeta struct {
	Name      string  `json:"name"`
	Strategy  string  `json:"strategy"`
	NSamples  int     `json:"n_samples"`
	Indices   []int   `json:"indices"`
	Coverage  float64 `json:"coverage"`
	CreatedAt int64   `json:"created_at"`
}

func (s *BoltStore) CreateProject(p domain.Project) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketProjects).Get([]byte(p.ID)) != nil {
			return fmt.Errorf("project %s: %w", p.ID, port.ErrProjectExists)
		}
		meta := projectMeta{
			AccessToken:  p.AccessToken,
			DatasetPath:  p.DatasetPath,
			DatasetName:  p.DatasetName,
			Description:  p.Description,
			EpisodeCount: p.EpisodeCount,
			Dimension:    p.Dimension,
			CreatedAt:    p.CreatedAt.Unix(),
			ExpiresAt:    p.ExpiresAt.Unix(),
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketProjects).Put([]byte(p.ID), data)
	})
}

func (s *BoltStore) GetProject(id string) (domain.Project, error) {
	var p domain.Project
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketProjects).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("project %s: %w", id, port.ErrNotFound)
		}
		var meta projectMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		p = projectFromMeta(id, meta)
		return nil
	})
	return p, err
}

func (s *BoltStore) ListProjects() ([]domain.Project, error) {
	var projects []domain.Project
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketProjects).ForEach(func(k, v []byte) error {
			var meta projectMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			projects = append(projects, projectFromMeta(string(k), meta))
			return nil
		})
	})
	return projects, err
}

// DeleteProject removes a project together with its selections and
// cached summary. Reports whether the project existed.
func (s *BoltStore) DeleteProject(id string) (bool, error) {
	existed := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		projects := tx.Bucket(bucketProjects)
		if projects.Get([]byte(id)) == nil {
			return nil
		}
		existed = true
		if err := projects.Delete([]byte(id)); err != nil {
			return err
		}
		if err := tx.Bucket(bucketSummaries).Delete([]byte(id)); err != nil {
			return err
		}
		return deleteSelections(tx.Bucket(bucketSelections), id)
	})
	return existed, err
}

// VerifyToken reports whether the token grants edit access to the
// project.
func (s *BoltStore) VerifyToken(id, token string) (bool, error) {
	p, err := s.GetProject(id)
	if err != nil {
		return false, err
	}
	return p.AccessToken == token, nil
}

// SaveSelection persists a sampling result under the project and
// returns its assigned id.
func (s *BoltStore) SaveSelection(sel domain.Selection) (uint64, error) {
	var id uint64
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketProjects).Get([]byte(sel.ProjectID)) == nil {
			return fmt.Errorf("project %s: %w", sel.ProjectID, port.ErrNotFound)
		}
		b := tx.Bucket(bucketSelections)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		id = seq
		meta := selectionMeta{
			Name:      sel.Name,
			Strategy:  sel.Strategy,
			NSamples:  sel.NSamples,
			Indices:   sel.Indices,
			Coverage:  sel.Coverage,
			CreatedAt: sel.CreatedAt.Unix(),
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return b.Put(selectionKey(sel.ProjectID, id), data)
	})
	return id, err
}

func (s *BoltStore) GetSelection(projectID string, id uint64) (domain.Selection, error) {
	var sel domain.Selection
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSelections).Get(selectionKey(projectID, id))
		if data == nil {
			return fmt.Errorf("selection %d: %w", id, port.ErrNotFound)
		}
		var meta selectionMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		sel = selectionFromMeta(projectID, id, meta)
		return nil
	})
	return sel, err
}

func (s *BoltStore) ListSelections(projectID string) ([]domain.Selection, error) {
	var selections []domain.Selection
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketSelections).Cursor()
		prefix := []byte(projectID + "/")
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var meta selectionMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			id := binary.BigEndian.Uint64(k[len(prefix):])
			selections = append(selections, selectionFromMeta(projectID, id, meta))
		}
		return nil
	})
	return selections, err
}

func (s *BoltStore) DeleteSelection(projectID string, id uint64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSelections).Delete(selectionKey(projectID, id))
	})
}

// PutSummary caches a metadata summary for a project.
func (s *BoltStore) PutSummary(projectID string, summary any) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSummaries).Put([]byte(projectID), data)
	})
}

// GetSummary loads a cached metadata summary into out. The second
// return value reports whether a summary has been computed yet; a
// missing summary is not an error.
func (s *BoltStore) GetSummary(projectID string, out any) (bool, error) {
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketSummaries).Get([]byte(projectID))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, out)
	})
	return found, err
}

// DeleteExpired removes all projects past their expiry together with
// their selections, returning the removed projects so the caller can
// delete their dataset files.
func (s *BoltStore) DeleteExpired(now time.Time) ([]domain.Project, error) {
	var removed []domain.Project
	err := s.db.Update(func(tx *bbolt.Tx) error {
		projects := tx.Bucket(bucketProjects)
		var expired []domain.Project
		err := projects.ForEach(func(k, v []byte) error {
			var meta projectMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			p := projectFromMeta(string(k), meta)
			if p.Expired(now) {
				expired = append(expired, p)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, p := range expired {
			if err := projects.Delete([]byte(p.ID)); err != nil {
				return err
			}
			if err := tx.Bucket(bucketSummaries).Delete([]byte(p.ID)); err != nil {
				return err
			}
			if err := deleteSelections(tx.Bucket(bucketSelections), p.ID); err != nil {
				return err
			}
		}
		removed = expired
		return nil
	})
	return removed, err
}

func deleteSelections(b *bbolt.Bucket, projectID string) error {
	c := b.Cursor()
	prefix := []byte(projectID + "/")
	var keys [][]byte
	for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
		keys = append(keys, append([]byte(nil), k...))
	}
	for _, k := range keys {
		if err := b.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func selectionKey(projectID string, id uint64) []byte {
	key := make([]byte, 0, len(projectID)+9)
	key = append(key, projectID...)
	key = append(key, '/')
	var seq [8]byte
	binary.BigEndian.PutUint64(seq[:], id)
	return append(key, seq[:]...)
}

func projectFromMeta(id string, meta projectMeta) domain.Project {
	return domain.Project{
		ID:           id,
		AccessToken:  meta.AccessToken,
		DatasetPath:  meta.DatasetPath,
		DatasetName:  meta.DatasetName,
		Description:  meta.Description,
		EpisodeCount: meta.EpisodeCount,
		Dimension:    meta.Dimension,
		CreatedAt:    time.Unix(meta.CreatedAt, 0),
		ExpiresAt:    time.Unix(meta.ExpiresAt, 0),
	}
}

func selectionFromMeta(projectID string, id uint64, meta selectionMeta) domain.Selection {
	return domain.Selection{
		ID:        id,
		ProjectID: projectID,
		Name:      meta.Name,
		Strategy:  meta.Strategy,
		NSamples:  meta.NSamples,
		Indices:   meta.Indices,
		Coverage:  meta.Coverage,
		CreatedAt: time.Unix(meta.CreatedAt, 0),
	}
}
