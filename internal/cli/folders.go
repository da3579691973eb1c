package cli

import (
	"slices"
	"strings"
	"time"

	"folderdeck/internal/model"
	"folderdeck/internal/reorder"
	"folderdeck/internal/store"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
)

func newFoldersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder", "f"},
		Short:   "List, create, remove and reorder folders",
	}
	cmd.AddCommand(newFoldersListCmd(app))
	cmd.AddCommand(newFoldersShowCmd(app))
	cmd.AddCommand(newFoldersAddCmd(app))
	cmd.AddCommand(newFoldersRmCmd(app))
	cmd.AddCommand(newFoldersMoveCmd(app))
	cmd.AddCommand(newFoldersFindCmd(app))
	cmd.AddCommand(newFoldersDoctorCmd(app))
	return cmd
}

func newFoldersListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List folders in shelf order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			folders, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": nonNilFolders(folders),
				"meta": map[string]any{"count": len(folders)},
			})
		},
	}
}

func newFoldersShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <folder-id>",
		Short: "Show one folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := s.FindFolder(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": f})
		},
	}
}

func newFoldersAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a folder at the end of the shelf",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			f, err := s.CreateFolder(cmd.Context(), strings.Join(args, " "), time.Now())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": f})
		},
	}
}

func newFoldersRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <folder-id>",
		Aliases: []string{"remove"},
		Short:   "Remove a folder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := s.RemoveFolder(cmd.Context(), args[0], time.Now()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"removed": args[0]}})
		},
	}
}

func newFoldersMoveCmd(app *App) *cobra.Command {
	var before string
	var after string
	var targetID string
	var edge string

	cmd := &cobra.Command{
		Use:   "move <folder-id>",
		Short: "Move a folder next to another one (same rules as a drag)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := moveTarget(targetID, edge, before, after)
			if err != nil {
				return writeErr(cmd, err)
			}

			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			folders, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}

			id := strings.TrimSpace(args[0])
			order := folderIDs(folders)
			for _, want := range []string{id, target.ID} {
				if !slices.Contains(order, want) {
					return writeErr(cmd, store.NotFoundError{Kind: "folder", ID: want})
				}
			}
			next, changed, err := reorder.PlanOrder(order, id, target)
			if err != nil {
				return writeErr(cmd, err)
			}
			if changed {
				if err := s.PersistOrder(cmd.Context(), next); err != nil {
					return writeErr(cmd, err)
				}
				if folders, err = s.Load(cmd.Context()); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": nonNilFolders(folders),
				"meta": map[string]any{"changed": changed, "target": target.String()},
			})
		},
	}
	cmd.Flags().StringVar(&targetID, "target", "", "Folder id to drop next to")
	cmd.Flags().StringVar(&edge, "edge", "above", "Side of --target to drop on (above|below)")
	cmd.Flags().StringVar(&before, "before", "", "Shorthand for --target <id> --edge above")
	cmd.Flags().StringVar(&after, "after", "", "Shorthand for --target <id> --edge below")
	return cmd
}

func moveTarget(targetID, edge, before, after string) (reorder.Target, error) {
	set := 0
	for _, v := range []string{targetID, before, after} {
		if strings.TrimSpace(v) != "" {
			set++
		}
	}
	if set != 1 {
		return reorder.Target{}, errMoveFlags
	}
	switch {
	case before != "":
		return reorder.Target{ID: strings.TrimSpace(before), Edge: reorder.EdgeAbove}, nil
	case after != "":
		return reorder.Target{ID: strings.TrimSpace(after), Edge: reorder.EdgeBelow}, nil
	}
	e, err := reorder.ParseEdge(edge)
	if err != nil {
		return reorder.Target{}, err
	}
	return reorder.Target{ID: strings.TrimSpace(targetID), Edge: e}, nil
}

type folderMatch struct {
	Folder  model.Folder `json:"folder"`
	Score   int          `json:"score"`
	Matched []int        `json:"matched"`
}

type folderNames []model.Folder

func (f folderNames) String(i int) string { return f[i].Name }
func (f folderNames) Len() int            { return len(f) }

func newFoldersFindCmd(app *App) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy-find folders by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			folders, err := s.Load(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			matches := fuzzy.FindFrom(strings.Join(args, " "), folderNames(folders))
			out := make([]folderMatch, 0, len(matches))
			for _, m := range matches {
				if limit > 0 && len(out) >= limit {
					break
				}
				out = append(out, folderMatch{Folder: folders[m.Index], Score: m.Score, Matched: m.MatchedIndexes})
			}
			return writeOut(cmd, app, map[string]any{
				"data": out,
				"meta": map[string]any{"count": len(out)},
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Max matches to return (0 = all)")
	return cmd
}

func newFoldersDoctorCmd(app *App) *cobra.Command {
	var fix bool
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that folder positions are dense and unique",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadStore(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			report, err := s.Doctor(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			meta := map[string]any{
				"issues":    len(report.Issues),
				"hasErrors": report.HasErrors(),
			}
			if fix && len(report.Issues) > 0 {
				changed, err := s.Repair(cmd.Context(), time.Now())
				if err != nil {
					return writeErr(cmd, err)
				}
				meta["repaired"] = changed
				if report, err = s.Doctor(cmd.Context()); err != nil {
					return writeErr(cmd, err)
				}
				meta["issues"] = len(report.Issues)
				meta["hasErrors"] = report.HasErrors()
			}
			hints := []string{}
			if report.HasErrors() {
				hints = append(hints, "folderdeck folders doctor --fix")
			}
			if err := writeOut(cmd, app, map[string]any{
				"data":   report,
				"meta":   meta,
				"_hints": hints,
			}); err != nil {
				return err
			}
			if fail && report.HasErrors() {
				return errDoctorIssuesFound
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&fix, "fix", false, "Renumber folders densely in their current order")
	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if errors remain")
	return cmd
}

func folderIDs(folders []model.Folder) []string {
	out := make([]string, 0, len(folders))
	for _, f := range folders {
		out = append(out, f.ID)
	}
	return out
}

func nonNilFolders(folders []model.Folder) []model.Folder {
	if folders == nil {
		return []model.Folder{}
	}
	return folders
}
