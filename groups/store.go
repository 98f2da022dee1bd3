// Package groups implements the group store service: row-level CRUD for group
// records plus atomic set-add/set-remove membership primitives, so concurrent
// relationship writes cannot lose updates to the membership list.
package groups

import (
	"context"
	"sort"
	"sync"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/model"
)

// Store is the persistence contract for group records.
type Store interface {
	// Create inserts a group. A zero input ID lets the store assign one.
	// Creating with an explicit id that already exists returns the existing
	// row unchanged, which makes lazy creation on first reference safe to
	// repeat.
	Create(ctx context.Context, in *model.GroupInput) (*model.Group, error)
	Get(ctx context.Context, id int64) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
	Update(ctx context.Context, id int64, in *model.GroupInput) (*model.Group, error)
	Delete(ctx context.Context, id int64) error

	// AddMember appends the student id to the membership list unless already
	// present. Idempotent.
	AddMember(ctx context.Context, id, studentID int64) (*model.Group, error)

	// RemoveMember drops the student id from the membership list. Removing a
	// non-member is a no-op.
	RemoveMember(ctx context.Context, id, studentID int64) (*model.Group, error)
}

// MemoryStore implements Store without a database, for tests and demos.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]*model.Group
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1, rows: make(map[int64]*model.Group)}
}

func (s *MemoryStore) Create(ctx context.Context, in *model.GroupInput) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := in.ID
	if id == 0 {
		id = s.nextID
	}
	if existing, ok := s.rows[id]; ok {
		return cloneGroup(existing), nil
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}

	g := &model.Group{ID: id, Name: in.Name, StudentIDs: dedupe(in.StudentIDs)}
	s.rows[id] = g
	return cloneGroup(g), nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.rows[id]
	if !ok {
		return nil, model.NotFoundf("group %d not found", id)
	}
	return cloneGroup(g), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Group, 0, len(s.rows))
	for _, g := range s.rows {
		out = append(out, cloneGroup(g))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Update(ctx context.Context, id int64, in *model.GroupInput) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.rows[id]
	if !ok {
		return nil, model.NotFoundf("group %d not found", id)
	}
	g.Name = in.Name
	if in.StudentIDs != nil {
		g.StudentIDs = dedupe(in.StudentIDs)
	}
	return cloneGroup(g), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return model.NotFoundf("group %d not found", id)
	}
	delete(s.rows, id)
	return nil
}

func (s *MemoryStore) AddMember(ctx context.Context, id, studentID int64) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.rows[id]
	if !ok {
		return nil, model.NotFoundf("group %d not found", id)
	}
	if !g.HasStudent(studentID) {
		g.StudentIDs = append(g.StudentIDs, studentID)
	}
	return cloneGroup(g), nil
}

func (s *MemoryStore) RemoveMember(ctx context.Context, id, studentID int64) (*model.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.rows[id]
	if !ok {
		return nil, model.NotFoundf("group %d not found", id)
	}
	kept := g.StudentIDs[:0]
	for _, sid := range g.StudentIDs {
		if sid != studentID {
			kept = append(kept, sid)
		}
	}
	g.StudentIDs = kept
	return cloneGroup(g), nil
}

func cloneGroup(g *model.Group) *model.Group {
	out := *g
	out.StudentIDs = append([]int64(nil), g.StudentIDs...)
	return &out
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
