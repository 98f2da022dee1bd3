// Package model defines the entities shared by the student store, the group
// store, and the university gateway, together with the error taxonomy used
// across service boundaries.
package model

import "strings"

// Student is a student record as owned by the student store. GroupID is nil
// for students not assigned to any group. The store itself does not enforce
// that GroupID references an existing group; the coordinator does.
type Student struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	GroupID *int64 `json:"group_id,omitempty"`
}

// InGroup reports whether the student is bound to the given group.
func (s *Student) InGroup(groupID int64) bool {
	return s.GroupID != nil && *s.GroupID == groupID
}

// StudentInput is the creation/update payload for a student.
type StudentInput struct {
	Name    string `json:"name"`
	GroupID *int64 `json:"group_id,omitempty"`
}

// Validate rejects malformed input before any store call is issued.
func (in *StudentInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return Validationf("student name must not be empty")
	}
	if in.GroupID != nil && *in.GroupID <= 0 {
		return Validationf("group id must be positive")
	}
	return nil
}

// Group is a group record as owned by the group store. StudentIDs is
// semantically a set: the store guarantees no duplicates.
type Group struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	StudentIDs []int64 `json:"student_ids"`
}

// HasStudent reports whether the student id is in the membership list.
func (g *Group) HasStudent(studentID int64) bool {
	for _, id := range g.StudentIDs {
		if id == studentID {
			return true
		}
	}
	return false
}

// GroupInput is the creation/update payload for a group. A zero ID lets the
// store assign one; a positive ID requests that exact id, which makes lazy
// creation on first reference deterministic.
type GroupInput struct {
	ID         int64   `json:"id,omitempty"`
	Name       string  `json:"name"`
	StudentIDs []int64 `json:"student_ids,omitempty"`
}

// Validate rejects malformed input before any store call is issued.
func (in *GroupInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return Validationf("group name must not be empty")
	}
	if in.ID < 0 {
		return Validationf("group id must not be negative")
	}
	return nil
}

// GroupWithStudents is the denormalized view served by the gateway: the
// membership list resolved to full student records.
type GroupWithStudents struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Students []*Student `json:"students"`
}
