package groups

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matveeey/spbstuSoftwareForCloudPlatforms-Task2/model"
)

func TestCreate_StoreAssignedIDs(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	a, err := store.Create(ctx, &model.GroupInput{Name: "CS-101"})
	require.NoError(t, err)
	require.Equal(t, int64(1), a.ID)

	b, err := store.Create(ctx, &model.GroupInput{Name: "CS-102"})
	require.NoError(t, err)
	require.Equal(t, int64(2), b.ID)
}

func TestCreate_ExplicitIDIsIdempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, err := store.Create(ctx, &model.GroupInput{ID: 7, Name: "Group 7", StudentIDs: []int64{1}})
	require.NoError(t, err)
	require.Equal(t, int64(7), first.ID)
	require.Equal(t, []int64{1}, first.StudentIDs)

	// A second create with the same id returns the existing row untouched.
	again, err := store.Create(ctx, &model.GroupInput{ID: 7, Name: "Other Name", StudentIDs: []int64{2}})
	require.NoError(t, err)
	require.Equal(t, "Group 7", again.Name)
	require.Equal(t, []int64{1}, again.StudentIDs)

	// The id counter must not collide with the explicit id later.
	next, err := store.Create(ctx, &model.GroupInput{Name: "CS-103"})
	require.NoError(t, err)
	require.Equal(t, int64(8), next.ID)
}

func TestCreate_DeduplicatesSeedMembers(t *testing.T) {
	store := NewMemoryStore()

	g, err := store.Create(context.Background(), &model.GroupInput{Name: "CS-101", StudentIDs: []int64{3, 3, 5}})
	require.NoError(t, err)
	require.Equal(t, []int64{3, 5}, g.StudentIDs)
}

func TestAddMember_Idempotent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	g, err := store.Create(ctx, &model.GroupInput{Name: "CS-101"})
	require.NoError(t, err)

	g, err = store.AddMember(ctx, g.ID, 9)
	require.NoError(t, err)
	require.Equal(t, []int64{9}, g.StudentIDs)

	g, err = store.AddMember(ctx, g.ID, 9)
	require.NoError(t, err)
	require.Equal(t, []int64{9}, g.StudentIDs)
}

func TestRemoveMember_AbsentIsNoOp(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	g, err := store.Create(ctx, &model.GroupInput{Name: "CS-101", StudentIDs: []int64{1, 2}})
	require.NoError(t, err)

	g, err = store.RemoveMember(ctx, g.ID, 99)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, g.StudentIDs)

	g, err = store.RemoveMember(ctx, g.ID, 1)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, g.StudentIDs)
}

func TestMemberOps_MissingGroup(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.AddMember(ctx, 42, 1)
	require.True(t, model.IsNotFound(err))

	_, err = store.RemoveMember(ctx, 42, 1)
	require.True(t, model.IsNotFound(err))
}

func TestUpdate_NilMembersPreserved(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	g, err := store.Create(ctx, &model.GroupInput{Name: "CS-101", StudentIDs: []int64{4}})
	require.NoError(t, err)

	// Renaming without a membership list keeps the membership intact.
	g, err = store.Update(ctx, g.ID, &model.GroupInput{Name: "CS-101b"})
	require.NoError(t, err)
	require.Equal(t, "CS-101b", g.Name)
	require.Equal(t, []int64{4}, g.StudentIDs)
}

func TestCloneIsolation(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	g, err := store.Create(ctx, &model.GroupInput{Name: "CS-101", StudentIDs: []int64{1}})
	require.NoError(t, err)

	// Mutating a returned row must not leak into the store.
	g.StudentIDs[0] = 999
	fresh, err := store.Get(ctx, g.ID)
	require.NoError(t, err)
	require.Equal(t, []int64{1}, fresh.StudentIDs)
}
