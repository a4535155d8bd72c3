package port

import (
	"errors"
	"time"

	"github.com/arpitg1304/tessera/internal/domain"
)

// ErrNotFound reports a missing project or selection.
var ErrNotFound = errors.New("not found")

// ErrProjectExists reports a project id collision on create.
var ErrProjectExists = errors.New("project id already exists")

// ProjectStore persists projects and their saved selections.
type ProjectStore interface {
	CreateProject(p domain.Project) error

	GetProject(id string) (domain.Project, error)

	ListProjects() ([]domain.Project, error)

	DeleteProject(id string) (bool, error)

	VerifyToken(id, token string) (bool, error)

	SaveSelection(sel domain.Selection) (uint64, error)

	GetSelection(projectID string, id uint64) (domain.Selection, error)

	ListSelections(projectID string) ([]domain.Selection, error)

	DeleteSelection(projectID string, id uint64) error

	PutSummary(projectID string, v any) error

	GetSummary(projectID string, out any) (bool, error)

	DeleteExpired(now time.Time) ([]domain.Project, error)

	Close() error
}
