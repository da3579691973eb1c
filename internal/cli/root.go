package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"folderdeck/internal/format"
	"folderdeck/internal/logging"
	"folderdeck/internal/reorder"
	"folderdeck/internal/store"
	"folderdeck/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir    string
	Format string
	Pretty bool
	Debug  bool

	cfg *store.GlobalConfig
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "folderdeck",
		Short:        "Folder shelf with drag-and-drop reordering (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI (drag cards with the mouse)
  folderdeck

  # Scriptable commands
  folderdeck folders list
  folderdeck folders move fld-abc123de --before fld-xyz98765
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if _, err := format.Normalize(app.Format); err != nil {
			return writeErr(cmd, err)
		}
		cfg, err := store.LoadConfig()
		if err != nil {
			return writeErr(cmd, fmt.Errorf("load config: %w", err))
		}
		app.cfg = cfg
		dir, err := resolveDir(app)
		if err != nil {
			return writeErr(cmd, err)
		}
		s := store.Store{Dir: dir}
		if _, err := logging.Setup(s.LogPath(), app.Debug || cfg.LogDebug(), cfg.LogMaxSizeMB()); err != nil {
			// Logging is best-effort; a read-only shelf should still list folders.
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: logging disabled: %v\n", err)
		}
		slog.Debug("command start", "cmd", cmd.CommandPath(), "dir", dir)
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return logging.Close()
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("FOLDERDECK_DIR", ""), "Path to shelf dir (default: nearest .folderdeck, else the per-user shelf)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("FOLDERDECK_FORMAT", "json"), "Output format (json|edn)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Write debug logs")

	cmd.AddCommand(newFoldersCmd(app))
	cmd.AddCommand(newEventsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(app *App) error {
	s, err := loadStore(app)
	if err != nil {
		return err
	}
	return tui.Run(s, tui.Options{
		Drag:          dragConfig(app.cfg),
		Theme:         app.cfg.Theme(),
		DesktopNotify: app.cfg.DesktopNotify(),
	})
}

func resolveDir(app *App) (string, error) {
	if app.Dir != "" {
		return app.Dir, nil
	}
	d, err := store.DefaultDir()
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}

func loadStore(app *App) (store.Store, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return store.Store{}, err
	}
	s := store.Store{Dir: dir}
	if err := s.Ensure(); err != nil {
		return s, err
	}
	return s, nil
}

// dragConfig maps the user's drag settings onto engine tuning; unset or
// non-positive values keep the engine defaults.
func dragConfig(cfg *store.GlobalConfig) reorder.Config {
	out := reorder.DefaultConfig()
	if cfg == nil || cfg.Drag == nil {
		return out
	}
	if cfg.Drag.ThresholdPx > 0 {
		out.Threshold = cfg.Drag.ThresholdPx
	}
	if cfg.Drag.HysteresisPx > 0 {
		out.Margin = cfg.Drag.HysteresisPx
	}
	if cfg.Drag.ReachPx > 0 {
		out.Reach = cfg.Drag.ReachPx
	}
	return out
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
