// Package students implements the student store service: row-level CRUD for
// student records plus the two store-side relationship primitives (assign
// group, clear group) the coordinator builds on.
package students

import (
	"context"
	"sort"
	"sync"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/model"
)

// Store is the persistence contract for student records.
type Store interface {
	Create(ctx context.Context, in *model.StudentInput) (*model.Student, error)
	Get(ctx context.Context, id int64) (*model.Student, error)
	List(ctx context.Context) ([]*model.Student, error)
	Update(ctx context.Context, id int64, in *model.StudentInput) (*model.Student, error)
	Delete(ctx context.Context, id int64) error

	// AssignGroup sets group_id without checking that the group exists;
	// referential integrity is the coordinator's concern.
	AssignGroup(ctx context.Context, id, groupID int64) (*model.Student, error)

	// ClearGroup unsets group_id. Clearing an unassigned student is a no-op.
	ClearGroup(ctx context.Context, id int64) (*model.Student, error)
}

// MemoryStore implements Store without a database, for tests and demos.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*model.Student
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, rows: make(map[int64]*model.Student)}
}

func (s *MemoryStore) Create(ctx context.Context, in *model.StudentInput) (*model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &model.Student{ID: s.nextID, Name: in.Name, GroupID: copyID(in.GroupID)}
	s.nextID++
	s.rows[st.ID] = st
	return cloneStudent(st), nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.rows[id]
	if !ok {
		return nil, model.NotFoundf("student %d not found", id)
	}
	return cloneStudent(st), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*model.Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Student, 0, len(s.rows))
	for _, st := range s.rows {
		out = append(out, cloneStudent(st))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, in *model.StudentInput) (*model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rows[id]
	if !ok {
		return nil, model.NotFoundf("student %d not found", id)
	}
	st.Name = in.Name
	st.GroupID = copyID(in.GroupID)
	return cloneStudent(st), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return model.NotFoundf("student %d not found", id)
	}
	delete(s.rows, id)
	return nil
}

func (s *MemoryStore) AssignGroup(ctx context.Context, id, groupID int64) (*model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rows[id]
	if !ok {
		return nil, model.NotFoundf("student %d not found", id)
	}
	st.GroupID = &groupID
	return cloneStudent(st), nil
}

func (s *MemoryStore) ClearGroup(ctx context.Context, id int64) (*model.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.rows[id]
	if !ok {
		return nil, model.NotFoundf("student %d not found", id)
	}
	st.GroupID = nil
	return cloneStudent(st), nil
}

func cloneStudent(st *model.Student) *model.Student {
	out := *st
	out.GroupID = copyID(st.GroupID)
	return &out
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
