package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"folderdeck/internal/model"
)

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level    DoctorIssueLevel `json:"level"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	FolderID string           `json:"folderId,omitempty"`
	Position int              `json:"position"`
}

type DoctorReport struct {
	Folders int           `json:"folders"`
	Issues  []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor checks that positions are exactly 0..N-1.
func (s Store) Doctor(ctx context.Context) (DoctorReport, error) {
	folders, err := s.Load(ctx)
	if err != nil {
		return DoctorReport{}, err
	}
	return diagnose(folders), nil
}

func diagnose(folders []model.Folder) DoctorReport {
	rep := DoctorReport{Folders: len(folders), Issues: []DoctorIssue{}}
	seen := map[int]string{}
	for _, f := range folders {
		if f.Position < 0 || f.Position >= len(folders) {
			rep.Issues = append(rep.Issues, DoctorIssue{
				Level:    DoctorIssueLevelError,
				Code:     "position_out_of_range",
				Message:  fmt.Sprintf("position %d outside [0,%d)", f.Position, len(folders)),
				FolderID: f.ID,
				Position: f.Position,
			})
			continue
		}
		if other, ok := seen[f.Position]; ok {
			rep.Issues = append(rep.Issues, DoctorIssue{
				Level:    DoctorIssueLevelError,
				Code:     "position_duplicate",
				Message:  fmt.Sprintf("position %d shared with %s", f.Position, other),
				FolderID: f.ID,
				Position: f.Position,
			})
			continue
		}
		seen[f.Position] = f.ID
	}
	for p := 0; p < len(folders); p++ {
		if _, ok := seen[p]; !ok {
			rep.Issues = append(rep.Issues, DoctorIssue{
				Level:    DoctorIssueLevelWarn,
				Code:     "position_gap",
				Message:  fmt.Sprintf("no folder at position %d", p),
				Position: p,
			})
		}
	}
	return rep
}

// Repair renumbers folders densely in their current sort order and reports how
// many rows changed.
func (s Store) Repair(ctx context.Context, now time.Time) (int, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	folders, err := loadFolders(ctx, tx)
	if err != nil {
		return 0, err
	}
	changed, err := renumber(ctx, tx, folderIDs(folders), now)
	if err != nil {
		return 0, err
	}
	if changed > 0 {
		if err := appendEvent(ctx, tx, model.EventFolderRepair, "", map[string]any{"changed": changed}, now); err != nil {
			return 0, err
		}
	}
	return changed, tx.Commit()
}
