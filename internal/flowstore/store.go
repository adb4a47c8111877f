// Package flowstore persists extracted flows in SQLite so that later
// runs and the serve command can browse them without re-analyzing the
// source tree.
package flowstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/flowdoc/internal/db"
	"github.com/ziadkadry99/flowdoc/internal/extract"
)

// StoredFlow is a persisted flow plus its storage metadata.
type StoredFlow struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Kind        string         `json:"kind"`
	Description string         `json:"description,omitempty"`
	Mermaid     string         `json:"mermaid,omitempty"`
	Source      string         `json:"source,omitempty"`
	Steps       []extract.Step `json:"steps,omitempty"`
	Edges       []extract.Edge `json:"edges,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// Store provides CRUD operations for flows.
type Store struct {
	db *db.DB
}

// NewStore creates a new flow store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Save inserts a flow with its steps and edges. mermaid is the rendered
// diagram source and source the analyzed root, both kept for display.
// The generated flow ID is returned.
func (s *Store) Save(ctx context.Context, flow extract.Flow, mermaid, source string) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO flows (id, name, kind, description, mermaid, source, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, flow.Name, string(flow.Kind), flow.Description, mermaid, source, now, now,
	)
	if err != nil {
		return "", fmt.Errorf("saving flow: %w", err)
	}

	for i, step := range flow.Steps {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO steps (flow_id, position, identifier, display_name, description, docstring)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, step.Identifier, step.Name, step.Description, step.Docstring,
		)
		if err != nil {
			return "", fmt.Errorf("saving step %s: %w", step.Identifier, err)
		}
	}

	for i, edge := range flow.Edges {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO edges (flow_id, position, source, target, branch, line)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, edge.Source, edge.Target, string(edge.Branch), edge.Line,
		)
		if err != nil {
			return "", fmt.Errorf("saving edge %s->%s: %w", edge.Source, edge.Target, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing flow: %w", err)
	}
	return id, nil
}

// Get retrieves a flow by ID, including its steps and edges.
func (s *Store) Get(ctx context.Context, id string) (*StoredFlow, error) {
	f := &StoredFlow{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, kind, description, mermaid, source, created_at, updated_at
		 FROM flows WHERE id = ?`, id,
	).Scan(&f.ID, &f.Name, &f.Kind, &f.Description, &f.Mermaid, &f.Source, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting flow: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT identifier, display_name, description, docstring
		 FROM steps WHERE flow_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading steps: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var step extract.Step
		if err := rows.Scan(&step.Identifier, &step.Name, &step.Description, &step.Docstring); err != nil {
			return nil, fmt.Errorf("scanning step: %w", err)
		}
		f.Steps = append(f.Steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := s.db.QueryContext(ctx,
		`SELECT source, target, branch, line
		 FROM edges WHERE flow_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("loading edges: %w", err)
	}
	defer edgeRows.Close()
	for edgeRows.Next() {
		var edge extract.Edge
		var branch string
		if err := edgeRows.Scan(&edge.Source, &edge.Target, &branch, &edge.Line); err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		edge.Branch = extract.Branch(branch)
		f.Edges = append(f.Edges, edge)
	}
	return f, edgeRows.Err()
}

// List returns all stored flows without their steps and edges.
func (s *Store) List(ctx context.Context) ([]StoredFlow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, kind, description, source, created_at, updated_at
		 FROM flows ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing flows: %w", err)
	}
	defer rows.Close()

	var result []StoredFlow
	for rows.Next() {
		var f StoredFlow
		if err := rows.Scan(&f.ID, &f.Name, &f.Kind, &f.Description, &f.Source, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning flow: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

// Delete removes a flow and its steps and edges.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM flows WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting flow: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
