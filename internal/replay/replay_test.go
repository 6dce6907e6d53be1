package replay

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/core"
	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/storage"
)

// recordGame plays a scripted game and returns its journal.
func recordGame(t *testing.T, seed int64, ticks int) Journal {
	t.Helper()

	cfg := config.DefaultTetrisConfig()
	rc := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed}
	g := tetris.NewWithConfig(tetris.IDMarathon, cfg)
	g.Reset(rc)
	rec := NewRecorder(g.ID(), "tester", g.Config(), rc)

	script := [][]core.Action{
		{core.ActionConfirm},
		nil,
		{core.ActionLeft, core.ActionRotate},
		nil,
		{core.ActionHardDrop},
		{core.ActionRight, core.ActionRight},
		{core.ActionSoftDrop},
		{core.ActionHardDrop},
	}

	for i := range ticks {
		in := core.NewInputFrame()
		for _, a := range script[i%len(script)] {
			in.Set(a)
		}
		rec.Record(in)
		g.Step(in)
	}

	require.Equal(t, uint64(ticks), rec.Ticks())
	return rec.Finish(g.State())
}

func TestRecorderSkipsEmptyFrames(t *testing.T) {
	j := recordGame(t, 1, 16)

	assert.Equal(t, uint64(16), j.Ticks)
	assert.Len(t, j.Frames, 12)
	assert.Equal(t, Frame{Tick: 1, Actions: []string{"confirm"}}, j.Frames[0])
	assert.Equal(t, Frame{Tick: 3, Actions: []string{"left", "rotate"}}, j.Frames[1])
}

func TestVerifyReproducesResult(t *testing.T) {
	j := recordGame(t, 7, 900)
	require.Greater(t, j.Result.Score, 0)

	assert.NoError(t, Verify(j))
}

func TestVerifyDetectsTampering(t *testing.T) {
	j := recordGame(t, 7, 900)
	j.Result.Score += 10

	err := Verify(j)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	j := recordGame(t, 3, 120)

	data, err := Encode(j)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a: [left, rotate]")

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, j, got)
	assert.NoError(t, Verify(got))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Journal)
		errMsg string
	}{
		{"version", func(j *Journal) { j.Version = 9 }, "unsupported version"},
		{"game", func(j *Journal) { j.GameID = "" }, "missing game id"},
		{"tick rate", func(j *Journal) { j.TickRate = 0 }, "tick_rate"},
		{"tick rate too high", func(j *Journal) { j.TickRate = MaxTickRate + 1 }, "tick_rate"},
		{"too long", func(j *Journal) { j.Ticks = 1 << 62 }, "exceed"},
		{"one tick too long", func(j *Journal) { j.Ticks = MaxTicks(j.TickRate) + 1 }, "exceed"},
		{"config", func(j *Journal) { j.Config.Scoring.LinesPerLevel = 0 }, "lines_per_level"},
		{"order", func(j *Journal) { j.Frames[1].Tick = j.Frames[0].Tick }, "out of order"},
		{"beyond end", func(j *Journal) { j.Ticks = 1 }, "out of order or range"},
		{"action", func(j *Journal) { j.Frames[0].Actions = []string{"teleport"} }, "unknown action"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			j := recordGame(t, 1, 16)
			tc.mutate(&j)
			err := j.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestPlayRejectsOverlongJournal(t *testing.T) {
	j := recordGame(t, 1, 16)
	j.Ticks = 1 << 62

	_, err := Play(j)
	require.Error(t, err)
	assert.ErrorContains(t, Verify(j), "exceed")
}

type countingSaver struct{ calls int }

func (s *countingSaver) SaveReplay(storage.ReplayEntry) (int64, error) {
	s.calls++
	return int64(s.calls), nil
}

func TestSaveRejectsInvalidJournal(t *testing.T) {
	var saver countingSaver
	j := recordGame(t, 1, 16)
	j.Ticks = MaxTicks(j.TickRate) + 1

	_, err := Save(&saver, j)
	assert.Error(t, err)
	assert.Zero(t, saver.calls)

	j = recordGame(t, 1, 16)
	id, err := Save(&saver, j)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}

func TestMaxTicks(t *testing.T) {
	assert.Equal(t, uint64(12*3600*60), MaxTicks(60))
	assert.Zero(t, MaxTicks(-5))
}

func TestPlayRejectsUnknownGame(t *testing.T) {
	j := recordGame(t, 1, 16)
	j.GameID = "snake"

	_, err := Play(j)
	assert.Error(t, err)
}

func TestSaveAndLoadThroughStorage(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "replays.db"))
	require.NoError(t, err)
	defer store.Close()

	j := recordGame(t, 11, 600)
	id, err := Save(store, j)
	require.NoError(t, err)

	e, err := store.ReplayByID(id)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, j.Result.Score, e.Score)
	assert.Equal(t, int64(j.Ticks), e.Frames)

	got, err := FromEntry(*e)
	require.NoError(t, err)
	assert.Equal(t, j, got)
	assert.NoError(t, Verify(got))
}
