package usecase

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/arpitg1304/tessera/internal/domain"
	"github.com/arpitg1304/tessera/internal/port"
)

const (
	projectIDLength   = 8
	projectIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	accessTokenBytes  = 16
	projectIDAttempts = 10
)

// ErrInvalidToken reports a failed access token check.
var ErrInvalidToken = errors.New("invalid access token")

// ProjectUseCase manages the lifecycle of registered datasets: creation,
// lookup, deletion and retention cleanup.
type ProjectUseCase struct {
	loader    port.DatasetLoader
	store     port.ProjectStore
	retention time.Duration
}

func NewProjectUseCase(loader port.DatasetLoader, store port.ProjectStore, retentionDays int) *ProjectUseCase {
	return &ProjectUseCase{
		loader:    loader,
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
	}
}

type CreateProjectParams struct {
	DatasetPath string
	Name        string
	Description string
}

// Create registers a dataset under a fresh short id and access token.
// The dataset is loaded once so the project records its shape.
func (u *ProjectUseCase) Create(params CreateProjectParams) (domain.Project, error) {
	var project domain.Project

	ds, err := u.loader.Load(params.DatasetPath)
	if err != nil {
		return project, fmt.Errorf("failed to load dataset: %w", err)
	}

	name := params.Name
	if name == "" {
		name = ds.Name
	}

	token, err := newAccessToken()
	if err != nil {
		return project, err
	}

	now := time.Now()
	project = domain.Project{
		AccessToken:  token,
		DatasetPath:  params.DatasetPath,
		DatasetName:  name,
		Description:  params.Description,
		EpisodeCount: ds.Count(),
		Dimension:    ds.Dimension(),
		CreatedAt:    now,
		ExpiresAt:    now.Add(u.retention),
	}

	// Short ids can collide; retry with a fresh one.
	for attempt := 0; attempt < projectIDAttempts; attempt++ {
		id, err := newProjectID()
		if err != nil {
			return domain.Project{}, err
		}
		project.ID = id
		err = u.store.CreateProject(project)
		if err == nil {
			return project, nil
		}
		if !errors.Is(err, port.ErrProjectExists) {
			return domain.Project{}, err
		}
	}
	return domain.Project{}, fmt.Errorf("could not allocate a unique project id")
}

func (u *ProjectUseCase) Get(id string) (domain.Project, error) {
	return u.store.GetProject(id)
}

func (u *ProjectUseCase) List() ([]domain.Project, error) {
	return u.store.ListProjects()
}

// Delete removes a project and its selections after verifying the token.
func (u *ProjectUseCase) Delete(id, token string) error {
	ok, err := u.store.VerifyToken(id, token)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidToken
	}
	deleted, err := u.store.DeleteProject(id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("project %s: %w", id, port.ErrNotFound)
	}
	return nil
}

// Cleanup deletes every project whose retention window has passed and
// returns the removed projects.
func (u *ProjectUseCase) Cleanup(now time.Time) ([]domain.Project, error) {
	return u.store.DeleteExpired(now)
}

func newProjectID() (string, error) {
	buf := make([]byte, projectIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate project id: %w", err)
	}
	for i, b := range buf {
		buf[i] = projectIDAlphabet[int(b)%len(projectIDAlphabet)]
	}
	return string(buf), nil
}

func newAccessToken() (string, error) {
	buf := make([]byte, accessTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
