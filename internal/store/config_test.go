package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("FOLDERDECK_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Nil(t, cfg.Drag)
	require.Equal(t, "auto", cfg.Theme())
	require.Equal(t, 10, cfg.LogMaxSizeMB())
	require.False(t, cfg.DesktopNotify())
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FOLDERDECK_CONFIG_DIR", dir)

	in := &GlobalConfig{
		Drag: &DragConfig{ThresholdPx: 3, HysteresisPx: 12},
		TUI:  &TUIConfig{Theme: "Dark", DesktopNotify: true},
		Log:  &LogConfig{Debug: true, MaxSizeMB: 2},
	}
	require.NoError(t, SaveConfig(in))

	st, err := os.Stat(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	out, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 3.0, out.Drag.ThresholdPx)
	require.Equal(t, 12.0, out.Drag.HysteresisPx)
	require.Equal(t, "dark", out.Theme())
	require.True(t, out.DesktopNotify())
	require.True(t, out.LogDebug())
	require.Equal(t, 2, out.LogMaxSizeMB())
}

func TestSaveConfig_ConcurrentWritersLeaveValidJSON(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FOLDERDECK_CONFIG_DIR", dir)

	const n = 32
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg := &GlobalConfig{TUI: &TUIConfig{Theme: fmt.Sprintf("t-%d", i)}}
			if err := SaveConfig(cfg); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent SaveConfig: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	var cfg GlobalConfig
	require.NoError(t, json.Unmarshal(b, &cfg))
	require.NotNil(t, cfg.TUI)

	leftovers, err := filepath.Glob(filepath.Join(dir, "config.json.*.tmp"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestLoadConfig_RejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("FOLDERDECK_CONFIG_DIR", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{nope"), 0o600))

	_, err := LoadConfig()
	require.Error(t, err)
}
