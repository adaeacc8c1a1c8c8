// Package data holds the application data shared by every view: the
// roster fetched from upstream and the project collection.
package data

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/good-yellow-bee/modites/internal/metrics"
	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/roster"
)

// ErrNotLoaded is returned by lookups before the roster has loaded.
var ErrNotLoaded = errors.New("roster not loaded")

// RosterSource fetches the roster.
type RosterSource interface {
	FetchRoster(ctx context.Context) ([]models.Modite, error)
}

// ProjectSource lists the project collection.
type ProjectSource interface {
	List(ctx context.Context) ([]*models.Project, error)
}

// Store is the in-memory application data. The roster counts as loaded once
// a fetch returned at least one member; until then every Prime triggers a
// new fetch.
type Store struct {
	roster   RosterSource
	projects ProjectSource
	logger   *zap.Logger

	group singleflight.Group

	mu          sync.RWMutex
	modites     []models.Modite
	projectList []*models.Project
	loadedAt    time.Time
}

// NewStore creates a new store. projects may be nil.
func NewStore(rosterSrc RosterSource, projectSrc ProjectSource, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		roster:   rosterSrc,
		projects: projectSrc,
		logger:   logger,
	}
}

// Loaded reports whether a non-empty roster is available.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.modites) > 0
}

// LoadedAt returns when the roster was stored, zero before the first load.
func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Modites returns the roster sorted by last name. The slice is shared and
// must not be modified.
func (s *Store) Modites() []models.Modite {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modites
}

// Projects returns the project collection.
func (s *Store) Projects() []*models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectList
}

// Find returns the member with the given id.
func (s *Store) Find(id string) (*models.Modite, error) {
	modites := s.Modites()
	if len(modites) == 0 {
		return nil, ErrNotLoaded
	}
	m, ok := roster.FindByID(modites, id)
	if !ok {
		return nil, fmt.Errorf("modite %s: %w", id, errNotFound)
	}
	return m, nil
}

var errNotFound = errors.New("modite not found")

// IsNotFound reports whether err marks a missing member.
func IsNotFound(err error) bool {
	return errors.Is(err, errNotFound)
}

// Prime starts a background load when the roster is still empty. The load is
// detached from the caller and never retried on its own. The returned
// channel closes when that load finishes, or immediately if nothing had to
// be fetched.
func (s *Store) Prime() <-chan struct{} {
	done := make(chan struct{})
	if s.Loaded() {
		close(done)
		return done
	}
	ch := s.group.DoChan("load", func() (any, error) {
		return nil, s.load(context.Background())
	})
	go func() {
		<-ch
		close(done)
	}()
	return done
}

// Load fetches the roster and projects. Concurrent calls share one fetch.
func (s *Store) Load(ctx context.Context) error {
	_, err, _ := s.group.Do("load", func() (any, error) {
		return nil, s.load(ctx)
	})
	return err
}

func (s *Store) load(ctx context.Context) error {
	var (
		g       errgroup.Group
		fetched []models.Modite
	)

	g.Go(func() error {
		start := time.Now()
		modites, err := s.roster.FetchRoster(ctx)
		metrics.RosterFetchDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.RosterFetchesTotal.WithLabelValues("failure").Inc()
			s.logger.Warn("roster fetch failed", zap.Error(err))
			return fmt.Errorf("fetch roster: %w", err)
		}
		metrics.RosterFetchesTotal.WithLabelValues("success").Inc()
		fetched = roster.SortByLastName(modites)
		return nil
	})
	g.Go(func() error {
		return s.ReloadProjects(ctx)
	})

	err := g.Wait()

	if len(fetched) > 0 {
		s.mu.Lock()
		s.modites = fetched
		s.loadedAt = time.Now()
		s.mu.Unlock()
		metrics.RosterSize.Set(float64(len(fetched)))
		s.logger.Info("roster loaded", zap.Int("modites", len(fetched)))
	}
	return err
}

// ReloadProjects refreshes the project collection from its source.
func (s *Store) ReloadProjects(ctx context.Context) error {
	if s.projects == nil {
		return nil
	}
	projects, err := s.projects.List(ctx)
	if err != nil {
		s.logger.Warn("project reload failed", zap.Error(err))
		return fmt.Errorf("load projects: %w", err)
	}

	s.mu.Lock()
	s.projectList = projects
	s.mu.Unlock()
	metrics.ProjectsLoaded.Set(float64(len(projects)))
	return nil
}

// Detail is the member detail view model.
type Detail struct {
	Modite   *models.Modite
	Projects []*models.Project
	Heading  string
}

// Detail resolves a member and the projects it participates in.
func (s *Store) Detail(id string) (*Detail, error) {
	m, err := s.Find(id)
	if err != nil {
		return nil, err
	}
	projects := roster.ProjectsFor(s.Projects(), m.ID)
	return &Detail{
		Modite:   m,
		Projects: projects,
		Heading:  roster.ProjectHeading(len(projects)),
	}, nil
}
