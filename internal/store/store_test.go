package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"folderdeck/internal/model"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, names ...string) (Store, []model.Folder) {
	t.Helper()
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var out []model.Folder
	for i, name := range names {
		f, err := s.CreateFolder(ctx, name, now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		out = append(out, f)
	}
	return s, out
}

func TestCreateFolder_AppendsAtEnd(t *testing.T) {
	s, created := newTestStore(t, "Inbox", "Work", "Archive")

	folders, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, folders, 3)
	for i, f := range folders {
		require.Equal(t, i, f.Position)
		require.Equal(t, created[i].ID, f.ID)
		require.True(t, strings.HasPrefix(f.ID, "fld-"), f.ID)
	}
	require.Equal(t, []string{"Inbox", "Work", "Archive"}, []string{folders[0].Name, folders[1].Name, folders[2].Name})
}

func TestCreateFolder_RejectsEmptyName(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	_, err := s.CreateFolder(context.Background(), "   ", time.Now())
	require.Error(t, err)
}

func TestRemoveFolder_ClosesGap(t *testing.T) {
	s, created := newTestStore(t, "A", "B", "C", "D")
	ctx := context.Background()

	require.NoError(t, s.RemoveFolder(ctx, created[1].ID, time.Now()))

	folders, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{created[0].ID, created[2].ID, created[3].ID}, folderIDs(folders))
	for i, f := range folders {
		require.Equal(t, i, f.Position)
	}
}

func TestRemoveFolder_NotFound(t *testing.T) {
	s, _ := newTestStore(t, "A")
	err := s.RemoveFolder(context.Background(), "fld-missing", time.Now())

	var nf NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	require.Equal(t, "fld-missing", nf.ID)
}

func TestPersistOrder_RenumbersAndLogsEvent(t *testing.T) {
	s, created := newTestStore(t, "A", "B", "C")
	ctx := context.Background()

	next := []string{created[2].ID, created[0].ID, created[1].ID}
	require.NoError(t, s.PersistOrder(ctx, next))

	folders, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, next, folderIDs(folders))

	evs, err := s.Events(ctx, 1)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	require.Equal(t, model.EventFolderReorder, evs[0].Type)
	require.Contains(t, evs[0].Payload, created[2].ID)
}

func TestPersistOrder_UnchangedOrderWritesNoEvent(t *testing.T) {
	s, created := newTestStore(t, "A", "B")
	ctx := context.Background()

	before, err := s.Events(ctx, 0)
	require.NoError(t, err)

	require.NoError(t, s.PersistOrder(ctx, []string{created[0].ID, created[1].ID}))

	after, err := s.Events(ctx, 0)
	require.NoError(t, err)
	require.Len(t, after, len(before))
}

func TestPersistOrder_RejectsMismatchedSet(t *testing.T) {
	s, created := newTestStore(t, "A", "B", "C")
	ctx := context.Background()

	err := s.PersistOrder(ctx, []string{created[0].ID, created[0].ID, "fld-ghost"})
	var mm OrderMismatchError
	require.True(t, errors.As(err, &mm), "got %v", err)
	require.Equal(t, []string{created[0].ID}, mm.Duplicate)
	require.Equal(t, []string{"fld-ghost"}, mm.Unknown)
	require.ElementsMatch(t, []string{created[1].ID, created[2].ID}, mm.Missing)

	folders, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, folderIDs(created), folderIDs(folders))
}

func TestEvents_OldestFirstWithLimit(t *testing.T) {
	s, created := newTestStore(t, "A", "B", "C")

	evs, err := s.Events(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	require.Equal(t, created[1].ID, evs[0].EntityID)
	require.Equal(t, created[2].ID, evs[1].EntityID)
	require.Equal(t, model.EventFolderCreate, evs[1].Type)
}

func TestWorkspaceID_IsStable(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()
	a, err := s.WorkspaceID(ctx)
	require.NoError(t, err)
	b, err := s.WorkspaceID(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, a)
	require.Equal(t, a, b)
}

func TestDiscoverDir_WalksUp(t *testing.T) {
	root := t.TempDir()
	s := Store{Dir: root + "/" + dataDirName}
	require.NoError(t, s.Ensure())
	nested := root + "/a/b"
	require.NoError(t, Store{Dir: nested}.Ensure())

	got, ok := DiscoverDir(nested)
	require.True(t, ok)
	require.Equal(t, s.Dir, got)
}

func TestNewRandomID_Shape(t *testing.T) {
	id, err := newRandomID("fld")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(id, "fld-"))
	require.Len(t, strings.TrimPrefix(id, "fld-"), 8)
	require.Equal(t, strings.ToLower(id), id)
}
