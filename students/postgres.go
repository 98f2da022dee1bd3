package students

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/model"
)

const queryTimeout = 5 * time.Second

// PostgresStore implements Store with PostgreSQL persistence.
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
	CREATE TABLE IF NOT EXISTS students (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		group_id BIGINT
	);

	CREATE INDEX IF NOT EXISTS idx_students_group ON students(group_id);
	`

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *PostgresStore) Create(ctx context.Context, in *model.StudentInput) (*model.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	st := &model.Student{Name: in.Name, GroupID: copyID(in.GroupID)}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO students (name, group_id) VALUES ($1, $2) RETURNING id`,
		in.Name, nullableID(in.GroupID),
	).Scan(&st.ID)
	if err != nil {
		return nil, fmt.Errorf("inserting student: %w", err)
	}
	return st, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*model.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanStudent(s.db.QueryRowContext(ctx,
		`SELECT id, name, group_id FROM students WHERE id = $1`, id), id)
}

func (s *PostgresStore) List(ctx context.Context) ([]*model.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, group_id FROM students ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	defer rows.Close()

	var out []*model.Student
	for rows.Next() {
		var (
			st      model.Student
			groupID sql.NullInt64
		)
		if err := rows.Scan(&st.ID, &st.Name, &groupID); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if groupID.Valid {
			st.GroupID = &groupID.Int64
		}
		out = append(out, &st)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, id int64, in *model.StudentInput) (*model.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		`UPDATE students SET name = $2, group_id = $3 WHERE id = $1`,
		id, in.Name, nullableID(in.GroupID))
	if err != nil {
		return nil, fmt.Errorf("updating student: %w", err)
	}
	if err := requireRow(res, "student", id); err != nil {
		return nil, err
	}
	return &model.Student{ID: id, Name: in.Name, GroupID: copyID(in.GroupID)}, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting student: %w", err)
	}
	return requireRow(res, "student", id)
}

func (s *PostgresStore) AssignGroup(ctx context.Context, id, groupID int64) (*model.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanStudent(s.db.QueryRowContext(ctx,
		`UPDATE students SET group_id = $2 WHERE id = $1 RETURNING id, name, group_id`,
		id, groupID), id)
}

func (s *PostgresStore) ClearGroup(ctx context.Context, id int64) (*model.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return scanStudent(s.db.QueryRowContext(ctx,
		`UPDATE students SET group_id = NULL WHERE id = $1 RETURNING id, name, group_id`,
		id), id)
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanStudent(row *sql.Row, id int64) (*model.Student, error) {
	var (
		st      model.Student
		groupID sql.NullInt64
	)
	if err := row.Scan(&st.ID, &st.Name, &groupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.NotFoundf("student %d not found", id)
		}
		return nil, fmt.Errorf("scanning student: %w", err)
	}
	if groupID.Valid {
		st.GroupID = &groupID.Int64
	}
	return &st, nil
}

func requireRow(res sql.Result, resource string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.NotFoundf("%s %d not found", resource, id)
	}
	return nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
