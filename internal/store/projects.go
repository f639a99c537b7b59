package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultColor is used for projects created without a color.
const DefaultColor = "#3B82F6"

// Project is a thing time is tracked against.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// ListProjects returns all projects ordered by name.
func (s *Store) ListProjects(ctx context.Context) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(color, ''), created_at
		FROM projects ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Project returns the project with the given ID.
func (s *Store) Project(ctx context.Context, id int64) (Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(color, ''), created_at
		FROM projects WHERE id = ?
	`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return p, err
}

// CreateProject adds a project. An empty color gets DefaultColor.
func (s *Store) CreateProject(ctx context.Context, name, color string) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, fmt.Errorf("project name is required")
	}
	if color == "" {
		color = DefaultColor
	}

	now := formatTime(s.now())
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (name, color, created_at) VALUES (?, ?, ?)
	`, name, color, now)
	if err != nil {
		return Project{}, fmt.Errorf("insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Project{}, err
	}
	return s.Project(ctx, id)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (Project, error) {
	var p Project
	var created dbTime
	if err := row.Scan(&p.ID, &p.Name, &p.Color, &created); err != nil {
		return Project{}, err
	}
	p.CreatedAt = created.Time
	return p, nil
}
