package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/good-yellow-bee/modites/internal/metrics"
	"github.com/good-yellow-bee/modites/internal/models"
)

type sqliteProjectRepo struct {
	db *sql.DB
}

// observe records the latency of a storage operation.
func observe(operation string) func() {
	start := time.Now()
	return func() {
		metrics.StorageQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func fail(operation string, err error) error {
	metrics.StorageErrors.WithLabelValues(operation).Inc()
	return err
}

func (r *sqliteProjectRepo) Create(ctx context.Context, project *models.Project) error {
	defer observe("project_create")()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fail("project_create", fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	query := `
		INSERT INTO projects (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		project.ID, project.Name, project.Description,
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return fail("project_create", fmt.Errorf("insert project: %w", err))
	}
	if err := insertMembers(ctx, tx, project.ID, project.MemberIDs()); err != nil {
		return fail("project_create", err)
	}
	return tx.Commit()
}

func (r *sqliteProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	defer observe("project_get")()
	return r.getOne(ctx, "id", id)
}

func (r *sqliteProjectRepo) GetByName(ctx context.Context, name string) (*models.Project, error) {
	defer observe("project_get")()
	return r.getOne(ctx, "name", name)
}

func (r *sqliteProjectRepo) getOne(ctx context.Context, column, value string) (*models.Project, error) {
	query := `
		SELECT id, name, description, created_at, updated_at
		FROM projects WHERE ` + column + ` = ?
	`
	project := &models.Project{}
	var description sql.NullString
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&project.ID, &project.Name, &description,
		&project.CreatedAt, &project.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		//nolint:nilnil
		return nil, nil
	}
	if err != nil {
		return nil, fail("project_get", fmt.Errorf("get project by %s: %w", column, err))
	}
	project.Description = description.String

	members, err := r.membersOf(ctx, project.ID)
	if err != nil {
		return nil, fail("project_get", err)
	}
	project.Users = members
	return project, nil
}

func (r *sqliteProjectRepo) Update(ctx context.Context, project *models.Project) error {
	defer observe("project_update")()

	query := `
		UPDATE projects SET name = ?, description = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		project.Name, project.Description, project.UpdatedAt,
		project.ID,
	)
	if err != nil {
		return fail("project_update", fmt.Errorf("update project: %w", err))
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s: %w", project.ID, ErrNotFound)
	}
	return nil
}

func (r *sqliteProjectRepo) Delete(ctx context.Context, id string) error {
	defer observe("project_delete")()

	result, err := r.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
	if err != nil {
		return fail("project_delete", fmt.Errorf("delete project: %w", err))
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *sqliteProjectRepo) List(ctx context.Context) ([]*models.Project, error) {
	defer observe("project_list")()

	projects, err := r.queryProjects(ctx, `
		SELECT id, name, description, created_at, updated_at
		FROM projects ORDER BY name
	`)
	if err != nil {
		return nil, fail("project_list", err)
	}
	if err := r.attachMembers(ctx, projects); err != nil {
		return nil, fail("project_list", err)
	}
	return projects, nil
}

func (r *sqliteProjectRepo) ListForMember(ctx context.Context, memberID string) ([]*models.Project, error) {
	defer observe("project_list_for_member")()

	projects, err := r.queryProjects(ctx, `
		SELECT p.id, p.name, p.description, p.created_at, p.updated_at
		FROM projects p
		INNER JOIN project_members pm ON p.id = pm.project_id
		WHERE pm.member_id = ?
		ORDER BY p.name
	`, memberID)
	if err != nil {
		return nil, fail("project_list_for_member", err)
	}
	if err := r.attachMembers(ctx, projects); err != nil {
		return nil, fail("project_list_for_member", err)
	}
	return projects, nil
}

func (r *sqliteProjectRepo) AddMember(ctx context.Context, projectID, memberID string) error {
	defer observe("project_add_member")()

	query := `
		INSERT OR IGNORE INTO project_members (project_id, member_id, added_at)
		VALUES (?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query, projectID, memberID, time.Now())
	if err != nil {
		return fail("project_add_member", fmt.Errorf("add member to project: %w", err))
	}
	return nil
}

func (r *sqliteProjectRepo) RemoveMember(ctx context.Context, projectID, memberID string) error {
	defer observe("project_remove_member")()

	result, err := r.db.ExecContext(ctx,
		"DELETE FROM project_members WHERE project_id = ? AND member_id = ?",
		projectID, memberID,
	)
	if err != nil {
		return fail("project_remove_member", fmt.Errorf("remove member from project: %w", err))
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("member %s in project %s: %w", memberID, projectID, ErrNotFound)
	}
	return nil
}

func (r *sqliteProjectRepo) SetMembers(ctx context.Context, projectID string, memberIDs []string) error {
	defer observe("project_set_members")()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fail("project_set_members", fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM project_members WHERE project_id = ?", projectID); err != nil {
		return fail("project_set_members", fmt.Errorf("clear project members: %w", err))
	}
	if err := insertMembers(ctx, tx, projectID, memberIDs); err != nil {
		return fail("project_set_members", err)
	}
	return tx.Commit()
}

func insertMembers(ctx context.Context, tx *sql.Tx, projectID string, memberIDs []string) error {
	now := time.Now()
	for _, id := range memberIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO project_members (project_id, member_id, added_at) VALUES (?, ?, ?)",
			projectID, id, now,
		)
		if err != nil {
			return fmt.Errorf("insert project member: %w", err)
		}
	}
	return nil
}

func (r *sqliteProjectRepo) queryProjects(ctx context.Context, query string, args ...any) ([]*models.Project, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		project := &models.Project{}
		var description sql.NullString
		err := rows.Scan(
			&project.ID, &project.Name, &description,
			&project.CreatedAt, &project.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		project.Description = description.String
		project.Users = []models.ProjectRef{}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

// attachMembers fills Users for every project in insertion order.
func (r *sqliteProjectRepo) attachMembers(ctx context.Context, projects []*models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	byID := make(map[string]*models.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	rows, err := r.db.QueryContext(ctx, "SELECT project_id, member_id FROM project_members ORDER BY rowid")
	if err != nil {
		return fmt.Errorf("list project members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID, memberID string
		if err := rows.Scan(&projectID, &memberID); err != nil {
			return fmt.Errorf("scan project member: %w", err)
		}
		if p, ok := byID[projectID]; ok {
			p.Users = append(p.Users, models.ProjectRef{ID: memberID})
		}
	}
	return rows.Err()
}

func (r *sqliteProjectRepo) membersOf(ctx context.Context, projectID string) ([]models.ProjectRef, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT member_id FROM project_members WHERE project_id = ? ORDER BY rowid",
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("get project members: %w", err)
	}
	defer rows.Close()

	members := []models.ProjectRef{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan project member: %w", err)
		}
		members = append(members, models.ProjectRef{ID: id})
	}
	return members, rows.Err()
}
