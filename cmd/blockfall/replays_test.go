package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/replay"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// finishedGame hard-drops pieces until the game ends and returns its journal.
func finishedGame(t *testing.T) replay.Journal {
	t.Helper()
	rc := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 3}
	g := tetris.NewWithConfig(tetris.IDMarathon, config.DefaultTetrisConfig())
	g.Reset(rc)
	rec := replay.NewRecorder(g.ID(), "tester", g.Config(), rc)

	step := func(a core.Action) {
		in := core.NewInputFrame()
		in.Set(a)
		rec.Record(in)
		g.Step(in)
	}

	step(core.ActionConfirm)
	for range 1000 {
		if g.State().GameOver {
			break
		}
		step(core.ActionHardDrop)
	}
	require.True(t, g.State().GameOver)
	return rec.Finish(g.State())
}

func writeJournal(t *testing.T, j replay.Journal) string {
	t.Helper()
	data, err := replay.Encode(j)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "game.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, tetris.IDMarathon)
	assert.Contains(t, out, tetris.IDFixed)
}

func TestReplaysCommands(t *testing.T) {
	db := filepath.Join(t.TempDir(), "replays.db")
	j := finishedGame(t)
	file := writeJournal(t, j)

	out, err := execute(t, "--db", db, "replays", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No replays")

	out, err = execute(t, "--db", db, "replays", "import", file)
	require.NoError(t, err)
	assert.Contains(t, out, "replay #1")

	out, err = execute(t, "--db", db, "replays", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "tester")

	out, err = execute(t, "--db", db, "replays", "verify", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")

	out, err = execute(t, "--db", db, "replays", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Seed:       3")

	exported := filepath.Join(t.TempDir(), "out.yaml")
	_, err = execute(t, "--db", db, "replays", "export", "1", "-o", exported)
	require.NoError(t, err)
	data, err := os.ReadFile(exported)
	require.NoError(t, err)
	back, err := replay.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, j.Result, back.Result)

	out, err = execute(t, "--db", db, "replays", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")

	_, err = execute(t, "--db", db, "replays", "show", "1")
	assert.ErrorContains(t, err, "not found")
}

func TestReplaysImportRejectsTamperedResult(t *testing.T) {
	db := filepath.Join(t.TempDir(), "replays.db")
	j := finishedGame(t)
	j.Result.Score += 100

	_, err := execute(t, "--db", db, "replays", "import", writeJournal(t, j))
	assert.ErrorIs(t, err, replay.ErrMismatch)
}

func TestReplaysImportRejectsOverlongJournal(t *testing.T) {
	db := filepath.Join(t.TempDir(), "replays.db")
	j := finishedGame(t)
	j.Ticks = 1 << 62

	_, err := execute(t, "--db", db, "replays", "import", writeJournal(t, j))
	assert.ErrorContains(t, err, "exceed")
}

func TestFPSOutOfRange(t *testing.T) {
	_, err := execute(t, "--fps", "5000", "list")
	assert.ErrorContains(t, err, "--fps")
	flagFPS = 60
}

func TestReplaysBadID(t *testing.T) {
	db := filepath.Join(t.TempDir(), "replays.db")
	_, err := execute(t, "--db", db, "replays", "verify", "abc")
	assert.ErrorContains(t, err, "invalid replay id")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "list")
	assert.ErrorContains(t, err, "invalid log level")
	flagLogLevel = "info"
}
