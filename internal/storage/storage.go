// Package storage provides database storage interfaces and implementations.
package storage

import (
	"context"
	"errors"

	"github.com/good-yellow-bee/modites/internal/models"
)

// ErrNotFound is returned when a mutation targets a missing row.
var ErrNotFound = errors.New("not found")

// Storage is the main interface for database operations.
type Storage interface {
	// Open initializes the database connection.
	Open() error
	// Close closes the database connection.
	Close() error
	// Migrate runs database migrations.
	Migrate() error
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Repository accessors
	Projects() ProjectRepository
}

// ProjectRepository defines operations for projects and their membership.
// Lookups return (nil, nil) when the project does not exist.
type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	GetByName(ctx context.Context, name string) (*models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id string) error
	// List returns all projects ordered by name with their members.
	List(ctx context.Context) ([]*models.Project, error)
	AddMember(ctx context.Context, projectID, memberID string) error
	RemoveMember(ctx context.Context, projectID, memberID string) error
	// SetMembers replaces the membership of a project.
	SetMembers(ctx context.Context, projectID string, memberIDs []string) error
	ListForMember(ctx context.Context, memberID string) ([]*models.Project, error)
}
