package store

import (
	"context"
	"testing"
	"time"

	"folderdeck/internal/model"

	"github.com/stretchr/testify/require"
)

func issueCodes(r DoctorReport) []string {
	var out []string
	for _, it := range r.Issues {
		out = append(out, it.Code)
	}
	return out
}

func TestDiagnose_DenseShelfIsClean(t *testing.T) {
	r := diagnose([]model.Folder{{ID: "a", Position: 0}, {ID: "b", Position: 1}})
	require.False(t, r.HasErrors())
	require.Empty(t, r.Issues)
	require.Equal(t, 2, r.Folders)
}

func TestDiagnose_ReportsDuplicateAndGap(t *testing.T) {
	r := diagnose([]model.Folder{
		{ID: "a", Position: 0},
		{ID: "b", Position: 0},
		{ID: "c", Position: 2},
	})
	require.True(t, r.HasErrors())
	require.ElementsMatch(t, []string{"position_duplicate", "position_gap"}, issueCodes(r))
}

func TestDiagnose_ReportsOutOfRange(t *testing.T) {
	r := diagnose([]model.Folder{{ID: "a", Position: 0}, {ID: "b", Position: 7}})
	require.True(t, r.HasErrors())
	require.Contains(t, issueCodes(r), "position_out_of_range")
}

func TestRepair_RenumbersDamagedShelf(t *testing.T) {
	s, created := newTestStore(t, "A", "B", "C")
	ctx := context.Background()

	db, err := s.openSQLite(ctx)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `UPDATE folders SET position = position * 10`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	rep, err := s.Doctor(ctx)
	require.NoError(t, err)
	require.True(t, rep.HasErrors())

	changed, err := s.Repair(ctx, time.Now())
	require.NoError(t, err)
	require.Equal(t, 2, changed)

	rep, err = s.Doctor(ctx)
	require.NoError(t, err)
	require.Empty(t, rep.Issues)

	folders, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, folderIDs(created), folderIDs(folders))

	evs, err := s.Events(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, model.EventFolderRepair, evs[0].Type)
}
