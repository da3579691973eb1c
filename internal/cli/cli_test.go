package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"folderdeck/internal/store"

	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

type envelope struct {
	Data json.RawMessage `json:"data"`
	Meta map[string]any  `json:"meta"`
}

func mustRun(t *testing.T, args ...string) envelope {
	t.Helper()
	out, errOut, err := runCLI(t, args)
	require.NoError(t, err, "stderr: %s", errOut)
	var env envelope
	require.NoError(t, json.Unmarshal(out, &env), "stdout: %s", out)
	return env
}

func setupShelf(t *testing.T, names ...string) (dir string, ids []string) {
	t.Helper()
	t.Setenv("FOLDERDECK_CONFIG_DIR", t.TempDir())
	dir = t.TempDir()
	for _, name := range names {
		env := mustRun(t, "--dir", dir, "folders", "add", name)
		var f struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &f))
		ids = append(ids, f.ID)
	}
	return dir, ids
}

func listIDs(t *testing.T, dir string) []string {
	t.Helper()
	env := mustRun(t, "--dir", dir, "folders", "list")
	var folders []struct {
		ID       string `json:"id"`
		Position int    `json:"position"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &folders))
	out := make([]string, 0, len(folders))
	for i, f := range folders {
		require.Equal(t, i, f.Position)
		out = append(out, f.ID)
	}
	return out
}

func TestFoldersAddAndList(t *testing.T) {
	dir, ids := setupShelf(t, "Inbox", "Work", "Archive")
	require.Equal(t, ids, listIDs(t, dir))
}

func TestFoldersList_EmptyShelfIsEmptyArray(t *testing.T) {
	dir, _ := setupShelf(t)
	env := mustRun(t, "--dir", dir, "folders", "list")
	require.JSONEq(t, `[]`, string(env.Data))
}

func TestFoldersMove_BeforeAndAfter(t *testing.T) {
	dir, ids := setupShelf(t, "A", "B", "C", "D")

	env := mustRun(t, "--dir", dir, "folders", "move", ids[3], "--before", ids[0])
	require.Equal(t, true, env.Meta["changed"])
	require.Equal(t, []string{ids[3], ids[0], ids[1], ids[2]}, listIDs(t, dir))

	mustRun(t, "--dir", dir, "folders", "move", ids[3], "--after", ids[2])
	require.Equal(t, ids, listIDs(t, dir))
}

func TestFoldersMove_OntoOwnSlotIsNoop(t *testing.T) {
	dir, ids := setupShelf(t, "A", "B", "C")

	env := mustRun(t, "--dir", dir, "folders", "move", ids[1], "--after", ids[0])
	require.Equal(t, false, env.Meta["changed"])

	evs := mustRun(t, "--dir", dir, "events")
	require.EqualValues(t, 3, evs.Meta["count"])
}

func TestFoldersMove_RequiresExactlyOneFlag(t *testing.T) {
	dir, ids := setupShelf(t, "A", "B")

	_, stderr, err := runCLI(t, []string{"--dir", dir, "folders", "move", ids[0]})
	require.ErrorIs(t, err, errMoveFlags)
	require.Contains(t, string(stderr), "exactly one")

	_, _, err = runCLI(t, []string{"--dir", dir, "folders", "move", ids[0], "--before", ids[1], "--after", ids[1]})
	require.ErrorIs(t, err, errMoveFlags)
}

func TestFoldersMove_UnknownTarget(t *testing.T) {
	dir, ids := setupShelf(t, "A", "B")

	_, _, err := runCLI(t, []string{"--dir", dir, "folders", "move", ids[0], "--before", "fld-nope"})
	var nf store.NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
	require.Equal(t, "fld-nope", nf.ID)
	require.Equal(t, ids, listIDs(t, dir))
}

func TestFoldersShow(t *testing.T) {
	dir, ids := setupShelf(t, "A", "B")

	env := mustRun(t, "--dir", dir, "folders", "show", ids[1])
	var f struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Position int    `json:"position"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &f))
	require.Equal(t, ids[1], f.ID)
	require.Equal(t, "B", f.Name)
	require.Equal(t, 1, f.Position)

	_, _, err := runCLI(t, []string{"--dir", dir, "folders", "show", "fld-nope"})
	var nf store.NotFoundError
	require.True(t, errors.As(err, &nf), "got %v", err)
}

func TestFoldersRm(t *testing.T) {
	dir, ids := setupShelf(t, "A", "B", "C")
	mustRun(t, "--dir", dir, "folders", "rm", ids[0])
	require.Equal(t, ids[1:], listIDs(t, dir))

	_, _, err := runCLI(t, []string{"--dir", dir, "folders", "rm", ids[0]})
	require.Error(t, err)
}

func TestFoldersFind_Fuzzy(t *testing.T) {
	dir, ids := setupShelf(t, "Receipts 2025", "Recipes", "Taxes")

	env := mustRun(t, "--dir", dir, "folders", "find", "rcps")
	var matches []struct {
		Folder struct {
			ID string `json:"id"`
		} `json:"folder"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &matches))
	require.NotEmpty(t, matches)
	got := []string{}
	for _, m := range matches {
		got = append(got, m.Folder.ID)
	}
	require.Contains(t, got, ids[1])
	require.NotContains(t, got, ids[2])
}

func TestFoldersDoctor_CleanShelf(t *testing.T) {
	dir, _ := setupShelf(t, "A", "B")
	env := mustRun(t, "--dir", dir, "folders", "doctor", "--fail")
	require.Equal(t, false, env.Meta["hasErrors"])
	require.EqualValues(t, 0, env.Meta["issues"])
}

func TestEvents_Limit(t *testing.T) {
	dir, ids := setupShelf(t, "A", "B", "C")
	mustRun(t, "--dir", dir, "folders", "move", ids[0], "--after", ids[2])

	env := mustRun(t, "--dir", dir, "events", "--limit", "2")
	var evs []struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &evs))
	require.Len(t, evs, 2)
	require.Equal(t, "folder.create", evs[0].Type)
	require.Equal(t, "folder.reorder", evs[1].Type)
}

func TestConfigSetAndShow(t *testing.T) {
	dir, _ := setupShelf(t)

	mustRun(t, "--dir", dir, "config", "set", "drag.hysteresisPx", "12")
	mustRun(t, "--dir", dir, "config", "set", "tui.theme", "dark")

	env := mustRun(t, "--dir", dir, "config", "show")
	drag, ok := env.Meta["drag"].(map[string]any)
	require.True(t, ok)
	require.EqualValues(t, 12, drag["hysteresisPx"])
	require.EqualValues(t, 5, drag["thresholdPx"])
	require.Contains(t, string(env.Data), `"dark"`)

	_, _, err := runCLI(t, []string{"--dir", dir, "config", "set", "drag.nope", "1"})
	require.Error(t, err)
	_, _, err = runCLI(t, []string{"--dir", dir, "config", "set", "tui.theme", "neon"})
	require.Error(t, err)
}

func TestFormat_EDN(t *testing.T) {
	dir, _ := setupShelf(t, "A")
	out, _, err := runCLI(t, []string{"--dir", dir, "--format", "edn", "folders", "list"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(out), "{:data [{"), string(out))
}

func TestFormat_Unknown(t *testing.T) {
	dir, _ := setupShelf(t)
	_, _, err := runCLI(t, []string{"--dir", dir, "--format", "yaml", "folders", "list"})
	require.Error(t, err)
}

func TestDragConfig_FallsBackToDefaults(t *testing.T) {
	got := dragConfig(&store.GlobalConfig{Drag: &store.DragConfig{ThresholdPx: 3, HysteresisPx: -1}})
	require.Equal(t, 3.0, got.Threshold)
	require.Equal(t, 8.0, got.Margin)
	require.Equal(t, 64.0, got.Reach)
}

func TestFoldersMove_TargetAndEdge(t *testing.T) {
	dir, ids := setupShelf(t, "A", "B", "C")

	env := mustRun(t, "--dir", dir, "folders", "move", ids[0], "--target", ids[2], "--edge", "below")
	require.Equal(t, ids[2]+"/below", env.Meta["target"])
	require.Equal(t, []string{ids[1], ids[2], ids[0]}, listIDs(t, dir))

	_, _, err := runCLI(t, []string{"--dir", dir, "folders", "move", ids[0], "--target", ids[1], "--edge", "sideways"})
	require.Error(t, err)

	_, _, err = runCLI(t, []string{"--dir", dir, "folders", "move", ids[0], "--target", ids[1], "--after", ids[2]})
	require.ErrorIs(t, err, errMoveFlags)
}
