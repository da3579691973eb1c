package cli

import (
	"fmt"
	"strconv"
	"strings"

	"folderdeck/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change user settings (~/.folderdeck/config.json)",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show settings and the drag tuning they resolve to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			drag := dragConfig(app.cfg)
			return writeOut(cmd, app, map[string]any{
				"data": app.cfg,
				"meta": map[string]any{
					"path": path,
					"dir":  app.Dir,
					"drag": map[string]any{
						"thresholdPx":  drag.Threshold,
						"hysteresisPx": drag.Margin,
						"reachPx":      drag.Reach,
					},
				},
			})
		},
	}
}

var configKeys = []string{
	"drag.thresholdPx",
	"drag.hysteresisPx",
	"drag.reachPx",
	"tui.theme",
	"tui.desktopNotify",
	"log.debug",
	"log.maxSizeMB",
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set one setting (" + strings.Join(configKeys, ", ") + ")",
		Args:      cobra.ExactArgs(2),
		ValidArgs: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.cfg
			if cfg == nil {
				cfg = &store.GlobalConfig{}
			}
			if err := applyConfigValue(cfg, args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			app.cfg = cfg
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	}
}

func applyConfigValue(cfg *store.GlobalConfig, key, value string) error {
	value = strings.TrimSpace(value)
	parseFloat := func() (float64, error) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return 0, fmt.Errorf("%s: want a non-negative number, got %q", key, value)
		}
		return f, nil
	}

	switch key {
	case "drag.thresholdPx", "drag.hysteresisPx", "drag.reachPx":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		if cfg.Drag == nil {
			cfg.Drag = &store.DragConfig{}
		}
		switch key {
		case "drag.thresholdPx":
			cfg.Drag.ThresholdPx = f
		case "drag.hysteresisPx":
			cfg.Drag.HysteresisPx = f
		default:
			cfg.Drag.ReachPx = f
		}
	case "tui.theme":
		switch strings.ToLower(value) {
		case "auto", "light", "dark":
		default:
			return fmt.Errorf("tui.theme: want auto, light or dark, got %q", value)
		}
		if cfg.TUI == nil {
			cfg.TUI = &store.TUIConfig{}
		}
		cfg.TUI.Theme = strings.ToLower(value)
	case "tui.desktopNotify", "log.debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: want true or false, got %q", key, value)
		}
		if key == "log.debug" {
			if cfg.Log == nil {
				cfg.Log = &store.LogConfig{}
			}
			cfg.Log.Debug = b
			return nil
		}
		if cfg.TUI == nil {
			cfg.TUI = &store.TUIConfig{}
		}
		cfg.TUI.DesktopNotify = b
	case "log.maxSizeMB":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("log.maxSizeMB: want a non-negative integer, got %q", value)
		}
		if cfg.Log == nil {
			cfg.Log = &store.LogConfig{}
		}
		cfg.Log.MaxSizeMB = n
	default:
		return fmt.Errorf("unknown config key %q (want one of %s)", key, strings.Join(configKeys, ", "))
	}
	return nil
}
