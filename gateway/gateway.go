// Package gateway implements the university service: a facade composing the
// student and group stores into denormalized views and convenience
// operations. Every relationship-mutating call goes through the coordinator;
// the gateway never writes a binding or a membership list directly.
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/coordinator"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/model"
)

// StudentService is the full student store surface the gateway proxies.
type StudentService interface {
	coordinator.StudentDirectory
	Create(ctx context.Context, in *model.StudentInput) (*model.Student, error)
	List(ctx context.Context) ([]*model.Student, error)
	Update(ctx context.Context, id int64, in *model.StudentInput) (*model.Student, error)
	Delete(ctx context.Context, id int64) error
}

// GroupService is the full group store surface the gateway proxies.
type GroupService interface {
	coordinator.GroupDirectory
	List(ctx context.Context) ([]*model.Group, error)
	Update(ctx context.Context, id int64, in *model.GroupInput) (*model.Group, error)
	Delete(ctx context.Context, id int64) error
}

// Gateway composes the two stores and the coordinator.
type Gateway struct {
	students StudentService
	groups   GroupService
	coord    *coordinator.Coordinator
	log      *slog.Logger
}

// New creates a gateway over the given services.
func New(students StudentService, groups GroupService, coord *coordinator.Coordinator, log *slog.Logger) *Gateway {
	return &Gateway{students: students, groups: groups, coord: coord, log: log}
}

// CreateStudent creates the student record first, then, if a group id was
// supplied, attaches the student to that group, creating the group lazily
// when it does not exist yet. The returned student reflects the final
// binding.
func (g *Gateway) CreateStudent(ctx context.Context, in *model.StudentInput) (*model.Student, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	st, err := g.students.Create(ctx, &model.StudentInput{Name: in.Name})
	if err != nil {
		return nil, err
	}
	if in.GroupID == nil {
		return st, nil
	}

	studentID := st.ID
	st, err = g.coord.AddStudentToGroup(ctx, studentID, *in.GroupID)
	if err != nil {
		g.log.Error("student created but group attach failed",
			"student_id", studentID, "group_id", *in.GroupID, "err", err)
		return nil, err
	}
	return st, nil
}

// GetStudent fetches a single student record.
func (g *Gateway) GetStudent(ctx context.Context, id int64) (*model.Student, error) {
	return g.students.Get(ctx, id)
}

// ListStudents fetches all student records.
func (g *Gateway) ListStudents(ctx context.Context) ([]*model.Student, error) {
	return g.students.List(ctx)
}

// UpdateStudent renames a student. The group binding is not touched here;
// relationship changes go through the dedicated operations.
func (g *Gateway) UpdateStudent(ctx context.Context, id int64, in *model.StudentInput) (*model.Student, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	current, err := g.students.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return g.students.Update(ctx, id, &model.StudentInput{Name: in.Name, GroupID: current.GroupID})
}

// DeleteStudent detaches the student from its group, then deletes the record,
// so the group's membership list is not left pointing at a dead id.
func (g *Gateway) DeleteStudent(ctx context.Context, id int64) error {
	if _, err := g.coord.RemoveStudentFromGroup(ctx, id); err != nil {
		return err
	}
	return g.students.Delete(ctx, id)
}

// CreateGroup creates a group explicitly.
func (g *Gateway) CreateGroup(ctx context.Context, in *model.GroupInput) (*model.Group, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return g.groups.Create(ctx, in)
}

// ListGroups fetches all group records.
func (g *Gateway) ListGroups(ctx context.Context) ([]*model.Group, error) {
	return g.groups.List(ctx)
}

// UpdateGroup renames a group. Membership is managed by the coordinator.
func (g *Gateway) UpdateGroup(ctx context.Context, id int64, in *model.GroupInput) (*model.Group, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return g.groups.Update(ctx, id, &model.GroupInput{Name: in.Name})
}

// DeleteGroup clears every member's binding before deleting the group row,
// so no student is left referencing a group that no longer exists.
func (g *Gateway) DeleteGroup(ctx context.Context, id int64) error {
	if err := g.coord.DisbandGroup(ctx, id); err != nil {
		return err
	}
	return g.groups.Delete(ctx, id)
}

// GetGroupWithStudents fetches the group and resolves its membership list to
// full student records. A member that has since been deleted is omitted and
// logged, never an error; the policy is applied consistently on every call.
func (g *Gateway) GetGroupWithStudents(ctx context.Context, id int64) (*model.GroupWithStudents, error) {
	grp, err := g.groups.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &model.GroupWithStudents{
		ID:       grp.ID,
		Name:     grp.Name,
		Students: make([]*model.Student, 0, len(grp.StudentIDs)),
	}
	for _, sid := range grp.StudentIDs {
		st, err := g.students.Get(ctx, sid)
		if err != nil {
			if model.IsNotFound(err) {
				g.log.Warn("omitting dangling student reference", "group_id", id, "student_id", sid)
				continue
			}
			return nil, fmt.Errorf("resolving student %d: %w", sid, err)
		}
		out.Students = append(out.Students, st)
	}
	return out, nil
}

// AddStudentToGroup delegates to the coordinator.
func (g *Gateway) AddStudentToGroup(ctx context.Context, studentID, groupID int64) (*model.Student, error) {
	return g.coord.AddStudentToGroup(ctx, studentID, groupID)
}

// RemoveStudentFromGroup delegates to the coordinator.
func (g *Gateway) RemoveStudentFromGroup(ctx context.Context, studentID int64) (*model.Student, error) {
	return g.coord.RemoveStudentFromGroup(ctx, studentID)
}

// TransferStudent delegates to the coordinator.
func (g *Gateway) TransferStudent(ctx context.Context, studentID, newGroupID int64) (*model.Student, error) {
	return g.coord.TransferStudent(ctx, studentID, newGroupID)
}
