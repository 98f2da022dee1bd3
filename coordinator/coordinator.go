// Package coordinator keeps the student/group bidirectional relationship
// coherent across the two independently-failable stores.
//
// No transaction spans both stores, so every mutating operation is a fixed
// sequence of remote writes: fetch the student first (fail fast, learn the
// current binding), write the group side, then write the student side. A
// failure after the group write is surfaced as a partial-consistency error
// naming the failed step, logged, and counted; it is never collapsed into a
// generic failure indistinguishable from "nothing happened". There is no
// rollback log and no automatic retry.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/metrics"
	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/model"
)

// StudentDirectory is the slice of the student store the coordinator needs.
type StudentDirectory interface {
	Get(ctx context.Context, id int64) (*model.Student, error)
	AssignGroup(ctx context.Context, id, groupID int64) (*model.Student, error)
	ClearGroup(ctx context.Context, id int64) (*model.Student, error)
}

// GroupDirectory is the slice of the group store the coordinator needs.
type GroupDirectory interface {
	Get(ctx context.Context, id int64) (*model.Group, error)
	Create(ctx context.Context, in *model.GroupInput) (*model.Group, error)
	AddMember(ctx context.Context, id, studentID int64) (*model.Group, error)
	RemoveMember(ctx context.Context, id, studentID int64) (*model.Group, error)
}

// Step names used in partial-consistency errors and logs.
const (
	stepFetchStudent    = "fetch-student"
	stepGroupMembership = "group-membership"
	stepStudentBinding  = "student-binding"
)

// Coordinator executes relationship operations as ordered call sequences.
// Multi-step sequences against the same group are serialized in-process with
// a per-group mutex; the stores' membership primitives are additionally
// atomic, so concurrent single writes cannot lose updates either.
type Coordinator struct {
	students StudentDirectory
	groups   GroupDirectory
	log      *slog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// New creates a coordinator over the two store directories.
func New(students StudentDirectory, groups GroupDirectory, log *slog.Logger) *Coordinator {
	return &Coordinator{
		students: students,
		groups:   groups,
		log:      log,
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (c *Coordinator) groupLock(groupID int64) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.locks[groupID]
	if !ok {
		l = &sync.Mutex{}
		c.locks[groupID] = l
	}
	return l
}

// EnsureGroupExists fetches the group, creating it with the supplied id and
// name hint when absent. seedStudentIDs seeds the membership list of a newly
// created group; it is ignored for existing groups.
func (c *Coordinator) EnsureGroupExists(ctx context.Context, groupID int64, nameHint string, seedStudentIDs ...int64) (*model.Group, error) {
	g, err := c.groups.Get(ctx, groupID)
	if err == nil {
		return g, nil
	}
	if !model.IsNotFound(err) {
		return nil, err
	}

	g, err = c.groups.Create(ctx, &model.GroupInput{
		ID:         groupID,
		Name:       nameHint,
		StudentIDs: seedStudentIDs,
	})
	if err != nil {
		return nil, err
	}

	metrics.LazyGroupCreations.Inc()
	c.log.Info("lazily created group", "group_id", groupID, "seed_students", seedStudentIDs)
	return g, nil
}

// AddStudentToGroup binds the student to the group on both sides: membership
// list first, student binding second. The target group is created lazily when
// it does not exist. Re-adding an existing member is a no-op on the
// membership list.
func (c *Coordinator) AddStudentToGroup(ctx context.Context, studentID, groupID int64) (*model.Student, error) {
	st, err := c.addStudentToGroup(ctx, studentID, groupID)
	c.observe("add-student-to-group", err)
	return st, err
}

func (c *Coordinator) addStudentToGroup(ctx context.Context, studentID, groupID int64) (*model.Student, error) {
	// Read-only step: a missing student fails the operation before either
	// store is written.
	if _, err := c.students.Get(ctx, studentID); err != nil {
		return nil, err
	}

	lock := c.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	g, err := c.groups.Get(ctx, groupID)
	switch {
	case model.IsNotFound(err):
		if _, err := c.EnsureGroupExists(ctx, groupID, defaultGroupName(groupID), studentID); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if !g.HasStudent(studentID) {
			if _, err := c.groups.AddMember(ctx, groupID, studentID); err != nil {
				return nil, err
			}
		}
	}

	st, err := c.students.AssignGroup(ctx, studentID, groupID)
	if err != nil {
		return nil, c.partial(ctx, "add-student-to-group", stepStudentBinding, err,
			"student_id", studentID, "group_id", groupID)
	}
	return st, nil
}

// RemoveStudentFromGroup unbinds the student from its current group on both
// sides: membership list first, student binding second. A student with no
// group is a successful no-op.
func (c *Coordinator) RemoveStudentFromGroup(ctx context.Context, studentID int64) (*model.Student, error) {
	st, err := c.removeStudentFromGroup(ctx, studentID)
	c.observe("remove-student-from-group", err)
	return st, err
}

func (c *Coordinator) removeStudentFromGroup(ctx context.Context, studentID int64) (*model.Student, error) {
	st, err := c.students.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if st.GroupID == nil {
		return st, nil
	}
	groupID := *st.GroupID

	lock := c.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := c.groups.RemoveMember(ctx, groupID, studentID); err != nil {
		if !model.IsNotFound(err) {
			return nil, err
		}
		// The bound group is gone; nothing to clean up on that side.
		c.log.Warn("student bound to missing group", "student_id", studentID, "group_id", groupID)
	}

	st, err = c.students.ClearGroup(ctx, studentID)
	if err != nil {
		return nil, c.partial(ctx, "remove-student-from-group", stepStudentBinding, err,
			"student_id", studentID, "group_id", groupID)
	}
	return st, nil
}

// TransferStudent moves the student to a new group: remove from the old
// binding first, then add to the new one. Remove-then-add keeps the student
// out of two membership lists at once, at the cost of a window with no group
// at all if the add fails.
func (c *Coordinator) TransferStudent(ctx context.Context, studentID, newGroupID int64) (*model.Student, error) {
	st, err := c.transferStudent(ctx, studentID, newGroupID)
	c.observe("transfer-student", err)
	return st, err
}

func (c *Coordinator) transferStudent(ctx context.Context, studentID, newGroupID int64) (*model.Student, error) {
	st, err := c.students.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if st.GroupID != nil && *st.GroupID != newGroupID {
		if _, err := c.removeStudentFromGroup(ctx, studentID); err != nil {
			return nil, err
		}
	}
	return c.addStudentToGroup(ctx, studentID, newGroupID)
}

// DisbandGroup clears the group binding of every member, leaving the group
// row itself in place for the caller to delete. Used by the gateway so that
// deleting a group does not strand its members' group_id.
func (c *Coordinator) DisbandGroup(ctx context.Context, groupID int64) error {
	err := c.disbandGroup(ctx, groupID)
	c.observe("disband-group", err)
	return err
}

func (c *Coordinator) disbandGroup(ctx context.Context, groupID int64) error {
	lock := c.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	g, err := c.groups.Get(ctx, groupID)
	if err != nil {
		return err
	}

	for i, studentID := range g.StudentIDs {
		if _, err := c.students.ClearGroup(ctx, studentID); err != nil {
			if model.IsNotFound(err) {
				// Dangling membership entry; the student is already gone.
				c.log.Warn("group references missing student", "group_id", groupID, "student_id", studentID)
				continue
			}
			if i > 0 {
				return c.partial(ctx, "disband-group", stepStudentBinding, err,
					"group_id", groupID, "student_id", studentID)
			}
			return err
		}
	}
	return nil
}

func (c *Coordinator) partial(ctx context.Context, op, step string, err error, args ...any) error {
	metrics.PartialFailures.WithLabelValues(op, step).Inc()
	c.log.Error("relationship operation left stores inconsistent",
		append([]any{"op", op, "failed_step", step, "err", err}, args...)...)
	return model.PartialConsistency(op, step, err)
}

func (c *Coordinator) observe(op string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case model.KindOf(err) == model.KindPartialConsistency:
		outcome = "partial"
	default:
		outcome = "error"
	}
	metrics.CoordinatorOps.WithLabelValues(op, outcome).Inc()
}

func defaultGroupName(groupID int64) string {
	return fmt.Sprintf("Group %d", groupID)
}
