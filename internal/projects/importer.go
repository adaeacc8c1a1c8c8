package projects

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/good-yellow-bee/modites/internal/metrics"
	"github.com/good-yellow-bee/modites/internal/models"
	"github.com/good-yellow-bee/modites/internal/storage"
)

// ImportResult summarizes one seed import.
type ImportResult struct {
	Created int
	Updated int
}

// Importer upserts seeds into the project store. Projects are matched by
// name; membership is replaced by the seed's member list. Projects missing
// from the seed are left alone.
type Importer struct {
	repo   storage.ProjectRepository
	logger *zap.Logger
}

// NewImporter creates a new importer.
func NewImporter(repo storage.ProjectRepository, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Importer{repo: repo, logger: logger}
}

// Import applies seeds to the store.
func (i *Importer) Import(ctx context.Context, seeds []Seed) (ImportResult, error) {
	var res ImportResult
	for _, s := range seeds {
		existing, err := i.repo.GetByName(ctx, s.Name)
		if err != nil {
			return res, fmt.Errorf("lookup project %q: %w", s.Name, err)
		}

		if existing == nil {
			p := models.NewProject(s.Name, s.Description)
			p.ID = uuid.New().String()
			for _, m := range s.Members {
				p.Users = append(p.Users, models.ProjectRef{ID: m})
			}
			if err := i.repo.Create(ctx, p); err != nil {
				return res, fmt.Errorf("create project %q: %w", s.Name, err)
			}
			res.Created++
			continue
		}

		if existing.Description != s.Description {
			existing.Description = s.Description
			existing.UpdatedAt = time.Now()
			if err := i.repo.Update(ctx, existing); err != nil {
				return res, fmt.Errorf("update project %q: %w", s.Name, err)
			}
		}
		if err := i.repo.SetMembers(ctx, existing.ID, s.Members); err != nil {
			return res, fmt.Errorf("set members of %q: %w", s.Name, err)
		}
		res.Updated++
	}
	return res, nil
}

// ImportFile loads and imports a seed file, recording the outcome.
func (i *Importer) ImportFile(ctx context.Context, path string) (ImportResult, error) {
	seeds, err := LoadSeedsFromFile(path)
	if err == nil {
		var res ImportResult
		res, err = i.Import(ctx, seeds)
		if err == nil {
			metrics.ProjectImportsTotal.WithLabelValues("success").Inc()
			i.logger.Info("imported project seed file",
				zap.String("path", path),
				zap.Int("created", res.Created),
				zap.Int("updated", res.Updated))
			return res, nil
		}
	}
	metrics.ProjectImportsTotal.WithLabelValues("failure").Inc()
	return ImportResult{}, err
}
