package groups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/model"
)

const queryTimeout = 5 * time.Second

// PostgresStore implements Store with PostgreSQL persistence. The membership
// column is a bigint array; AddMember and RemoveMember are single conditional
// UPDATE statements, so two concurrent membership writes cannot lose updates.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore wraps an open connection and ensures the schema exists.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	store := &PostgresStore{db: db}
	if err := store.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return store, nil
}

func (s *PostgresStore) migrate() error {
	schema := `
	CREATE SEQUENCE IF NOT EXISTS groups_id_seq;

	CREATE TABLE IF NOT EXISTS groups (
		id BIGINT PRIMARY KEY DEFAULT nextval('groups_id_seq'),
		name VARCHAR(100) NOT NULL,
		student_ids BIGINT[] NOT NULL DEFAULT '{}'
	);
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *PostgresStore) Create(ctx context.Context, in *model.GroupInput) (*model.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	members := pq.Int64Array(dedupe(in.StudentIDs))

	if in.ID == 0 {
		return scanGroup(s.db.QueryRowContext(ctx,
			`INSERT INTO groups (name, student_ids) VALUES ($1, $2)
			 RETURNING id, name, student_ids`,
			in.Name, members), 0)
	}

	// Explicit id: insert-if-absent, then read whichever row won. Repeated
	// lazy creation of the same id yields exactly one group.
	g, err := scanGroup(s.db.QueryRowContext(ctx,
		`INSERT INTO groups (id, name, student_ids) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING
		 RETURNING id, name, student_ids`,
		in.ID, in.Name, members), in.ID)
	if model.IsNotFound(err) {
		return s.Get(ctx, in.ID)
	}
	if err != nil {
		return nil, err
	}

	// Keep the sequence ahead of explicitly assigned ids.
	_, err = s.db.ExecContext(ctx,
		`SELECT setval('groups_id_seq', GREATEST((SELECT last_value FROM groups_id_seq), $1))`, in.ID)
	if err != nil {
		return nil, fmt.Errorf("advancing group id sequence: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*model.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanGroup(s.db.QueryRowContext(ctx,
		`SELECT id, name, student_ids FROM groups WHERE id = $1`, id), id)
}

func (s *PostgresStore) List(ctx context.Context) ([]*model.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, student_ids FROM groups ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing groups: %w", err)
	}
	defer rows.Close()

	var out []*model.Group
	for rows.Next() {
		var (
			g       model.Group
			members pq.Int64Array
		)
		if err := rows.Scan(&g.ID, &g.Name, &members); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		g.StudentIDs = []int64(members)
		out = append(out, &g)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, id int64, in *model.GroupInput) (*model.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if in.StudentIDs != nil {
		return scanGroup(s.db.QueryRowContext(ctx,
			`UPDATE groups SET name = $2, student_ids = $3 WHERE id = $1
			 RETURNING id, name, student_ids`,
			id, in.Name, pq.Int64Array(dedupe(in.StudentIDs))), id)
	}
	return scanGroup(s.db.QueryRowContext(ctx,
		`UPDATE groups SET name = $2 WHERE id = $1
		 RETURNING id, name, student_ids`,
		id, in.Name), id)
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.NotFoundf("group %d not found", id)
	}
	return nil
}

func (s *PostgresStore) AddMember(ctx context.Context, id, studentID int64) (*model.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanGroup(s.db.QueryRowContext(ctx,
		`UPDATE groups
		 SET student_ids = CASE
			WHEN student_ids @> ARRAY[$2]::bigint[] THEN student_ids
			ELSE array_append(student_ids, $2)
		 END
		 WHERE id = $1
		 RETURNING id, name, student_ids`,
		id, studentID), id)
}

func (s *PostgresStore) RemoveMember(ctx context.Context, id, studentID int64) (*model.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanGroup(s.db.QueryRowContext(ctx,
		`UPDATE groups SET student_ids = array_remove(student_ids, $2)
		 WHERE id = $1
		 RETURNING id, name, student_ids`,
		id, studentID), id)
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanGroup(row *sql.Row, id int64) (*model.Group, error) {
	var (
		g       model.Group
		members pq.Int64Array
	)
	if err := row.Scan(&g.ID, &g.Name, &members); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NotFoundf("group %d not found", id)
		}
		return nil, fmt.Errorf("scanning group: %w", err)
	}
	g.StudentIDs = []int64(members)
	return &g, nil
}
