package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"folderdeck/internal/model"
)

const (
	dataDirName = ".folderdeck"
	dbFileName  = "folderdeck.sqlite"
)

// Store is a folder shelf rooted at Dir (the .folderdeck data directory).
type Store struct {
	Dir string
}

func DiscoverDir(start string) (string, bool) {
	dir := start
	for {
		candidate := filepath.Join(dir, dataDirName)
		if st, err := os.Stat(candidate); err == nil && st.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DefaultDir finds the nearest .folderdeck directory above the working directory,
// falling back to the per-user shelf in the config dir.
func DefaultDir() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	if found, ok := DiscoverDir(cwd); ok {
		return found, nil
	}
	cfgDir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "shelf"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) dbPath() string {
	return filepath.Join(s.Dir, dbFileName)
}

// LogPath is where the TUI and CLI write their log file.
func (s Store) LogPath() string {
	return filepath.Join(s.Dir, "logs", "folderdeck.log")
}

// Load returns all folders sorted by position.
func (s Store) Load(ctx context.Context) ([]model.Folder, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return loadFolders(ctx, db)
}

func (s Store) FindFolder(ctx context.Context, id string) (model.Folder, error) {
	id = strings.TrimSpace(id)
	folders, err := s.Load(ctx)
	if err != nil {
		return model.Folder{}, err
	}
	for _, f := range folders {
		if f.ID == id {
			return f, nil
		}
	}
	return model.Folder{}, NotFoundError{Kind: "folder", ID: id}
}

// CreateFolder appends a new folder at the end of the shelf.
func (s Store) CreateFolder(ctx context.Context, name string, now time.Time) (model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Folder{}, errors.New("folder name is empty")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.Folder{}, err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return model.Folder{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM folders`).Scan(&n); err != nil {
		return model.Folder{}, err
	}

	id, err := nextFolderID(ctx, tx)
	if err != nil {
		return model.Folder{}, err
	}
	f := model.Folder{
		ID:        id,
		Name:      name,
		Position:  n,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO folders(id, name, position, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
		f.ID, f.Name, f.Position, f.CreatedAt.UnixMilli(), f.UpdatedAt.UnixMilli()); err != nil {
		return model.Folder{}, err
	}
	if err := appendEvent(ctx, tx, model.EventFolderCreate, f.ID, map[string]any{"name": f.Name, "position": f.Position}, now); err != nil {
		return model.Folder{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Folder{}, err
	}
	return f, nil
}

// RemoveFolder deletes a folder and closes the gap it leaves.
func (s Store) RemoveFolder(ctx context.Context, id string, now time.Time) error {
	id = strings.TrimSpace(id)
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return NotFoundError{Kind: "folder", ID: id}
	}

	folders, err := loadFolders(ctx, tx)
	if err != nil {
		return err
	}
	if _, err := renumber(ctx, tx, folderIDs(folders), now); err != nil {
		return err
	}
	if err := appendEvent(ctx, tx, model.EventFolderRemove, id, nil, now); err != nil {
		return err
	}
	return tx.Commit()
}

// PersistOrder stores orderedIDs as positions 0..N-1. The IDs must be exactly the
// stored folder set; anything else is rejected with an OrderMismatchError and
// nothing is written.
func (s Store) PersistOrder(ctx context.Context, orderedIDs []string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	folders, err := loadFolders(ctx, tx)
	if err != nil {
		return err
	}
	if err := checkSameSet(folderIDs(folders), orderedIDs); err != nil {
		return err
	}

	now := time.Now()
	changed, err := renumber(ctx, tx, orderedIDs, now)
	if err != nil {
		return err
	}
	if changed == 0 {
		return tx.Commit()
	}
	if err := appendEvent(ctx, tx, model.EventFolderReorder, "", map[string]any{"order": orderedIDs}, now); err != nil {
		return err
	}
	return tx.Commit()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func loadFolders(ctx context.Context, q queryer) ([]model.Folder, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, position, created_at_unixms, updated_at_unixms FROM folders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Folder
	for rows.Next() {
		var f model.Folder
		var created, updated int64
		if err := rows.Scan(&f.ID, &f.Name, &f.Position, &created, &updated); err != nil {
			return nil, err
		}
		f.CreatedAt = time.UnixMilli(created).UTC()
		f.UpdatedAt = time.UnixMilli(updated).UTC()
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	SortFolders(out)
	return out, nil
}

// SortFolders orders folders by position, then creation time, then ID, so a
// damaged shelf with duplicate positions still has a stable order.
func SortFolders(folders []model.Folder) {
	sort.SliceStable(folders, func(i, j int) bool {
		a, b := folders[i], folders[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

// renumber writes position i for orderedIDs[i], touching only rows that change.
func renumber(ctx context.Context, q queryer, orderedIDs []string, now time.Time) (int, error) {
	changed := 0
	for i, id := range orderedIDs {
		res, err := q.ExecContext(ctx, `UPDATE folders SET position = ?, updated_at_unixms = ? WHERE id = ? AND position != ?`,
			i, now.UTC().UnixMilli(), id, i)
		if err != nil {
			return changed, err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			changed++
		}
	}
	return changed, nil
}

func checkSameSet(stored, proposed []string) error {
	have := map[string]bool{}
	for _, id := range stored {
		have[id] = true
	}
	var mm OrderMismatchError
	seen := map[string]bool{}
	for _, id := range proposed {
		switch {
		case seen[id]:
			mm.Duplicate = append(mm.Duplicate, id)
		case !have[id]:
			mm.Unknown = append(mm.Unknown, id)
		}
		seen[id] = true
	}
	for _, id := range stored {
		if !seen[id] {
			mm.Missing = append(mm.Missing, id)
		}
	}
	if len(mm.Missing) > 0 || len(mm.Unknown) > 0 || len(mm.Duplicate) > 0 {
		return mm
	}
	return nil
}

func folderIDs(folders []model.Folder) []string {
	out := make([]string, 0, len(folders))
	for _, f := range folders {
		out = append(out, f.ID)
	}
	return out
}

func nextFolderID(ctx context.Context, tx *sql.Tx) (string, error) {
	for i := 0; i < 20; i++ {
		id, err := newRandomID("fld")
		if err != nil {
			return "", err
		}
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM folders WHERE id = ?`, id).Scan(&n); err != nil {
			return "", err
		}
		if n == 0 {
			return id, nil
		}
	}
	return "", fmt.Errorf("could not allocate a unique folder id")
}
