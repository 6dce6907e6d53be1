package tetris

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startedSession returns a playing session whose active piece is replaced
// with a fresh piece of kind k.
func startedSession(t *testing.T, k Kind) *Session {
	t.Helper()
	s := NewSession(DefaultRules(), 1)
	s.Start()
	require.Equal(t, PhasePlaying, s.Phase())
	s.active = NewPiece(k)
	return s
}

// fillColumns fills rows [top, Rows) in columns [from, to).
func fillColumns(b *Board, from, to, top int) {
	for y := top; y < Rows; y++ {
		for x := from; x < to; x++ {
			b[y][x] = Cell(KindJ)
		}
	}
}

func TestNewSessionIsIdle(t *testing.T) {
	s := NewSession(DefaultRules(), 1)
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.Equal(t, 1, s.Level())

	// Commands are ignored before Start.
	assert.False(t, s.MoveLeft())
	assert.False(t, s.Drop())
	assert.Equal(t, 0, s.HardDrop())
	assert.Equal(t, 0, s.Advance(10*time.Second))
}

func TestScoringTable(t *testing.T) {
	tests := []struct {
		lines, level, expected int
	}{
		{0, 1, 0},
		{1, 1, 100},
		{2, 3, 900},
		{3, 2, 1000},
		{4, 1, 800},
		{5, 1, 800},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, LineClearPoints(tc.lines, tc.level), "%d lines at level %d", tc.lines, tc.level)
	}
}

func TestLevelForLines(t *testing.T) {
	assert.Equal(t, 1, LevelForLines(0))
	assert.Equal(t, 1, LevelForLines(9))
	assert.Equal(t, 2, LevelForLines(10))
	assert.Equal(t, 3, LevelForLines(25))
}

func TestDropInterval(t *testing.T) {
	assert.Equal(t, time.Second, DropInterval(1))
	assert.Equal(t, 500*time.Millisecond, DropInterval(6))
	assert.Equal(t, 100*time.Millisecond, DropInterval(10))
	assert.Equal(t, 100*time.Millisecond, DropInterval(30))
}

func TestMoveStopsAtWalls(t *testing.T) {
	s := startedSession(t, KindO)

	for range Cols {
		s.MoveLeft()
	}
	assert.Equal(t, 0, s.active.X)
	assert.False(t, s.MoveLeft())

	for range Cols {
		s.MoveRight()
	}
	assert.Equal(t, Cols-2, s.active.X)
	assert.False(t, s.MoveRight())
}

func TestRotateKicksOffWall(t *testing.T) {
	s := startedSession(t, KindT)
	require.True(t, s.Rotate()) // vertical, two columns wide

	for range Cols {
		s.MoveRight()
	}
	require.Equal(t, Cols-2, s.active.X)

	require.True(t, s.Rotate())
	assert.Equal(t, Cols-3, s.active.X, "rotation should kick one column left")
	assert.Equal(t, 3, s.active.Shape.Width())
}

func TestRotateBlockedLeavesPiece(t *testing.T) {
	s := startedSession(t, KindI)
	s.active.Y = 10
	fillRow(&s.board, 11, Cell(KindZ))
	before := s.active.Clone()

	assert.False(t, s.Rotate())
	assert.True(t, s.active.Shape.Equal(before.Shape))
	assert.Equal(t, before.X, s.active.X)
}

func TestSoftDropScoresEvenWhenLocking(t *testing.T) {
	s := startedSession(t, KindO)

	assert.True(t, s.SoftDrop())
	assert.Equal(t, 1, s.active.Y)
	assert.Equal(t, 1, s.Score())

	s.active.Y = Rows - 2
	assert.False(t, s.SoftDrop(), "piece on the floor locks")
	assert.Equal(t, 2, s.Score())
	assert.Equal(t, 1, s.Pieces())
}

func TestHardDropClearsTwoLines(t *testing.T) {
	s := startedSession(t, KindO)
	fillColumns(&s.board, 0, Cols-2, Rows-2)

	for range 4 {
		s.MoveRight()
	}
	require.Equal(t, Cols-2, s.active.X)

	rows := s.HardDrop()
	assert.Equal(t, Rows-2, rows)
	assert.Equal(t, 2, s.LastClear())
	assert.Equal(t, 2, s.Lines())
	assert.Equal(t, 300+2*(Rows-2), s.Score())
	assert.Equal(t, 0, s.board.Height(), "board should be empty after the clear")
}

func TestFiveSquaresOnEmptyBoardClearTwoLines(t *testing.T) {
	s := NewSession(DefaultRules(), 1)
	s.Start()

	for _, x := range []int{0, 2, 4, 6, 8} {
		require.Equal(t, PhasePlaying, s.Phase())
		s.active = NewPiece(KindO)
		s.active.X = x
		assert.Equal(t, Rows-2, s.HardDrop())
	}

	assert.Equal(t, 2, s.Lines())
	assert.Equal(t, 2, s.LastClear())
	assert.Equal(t, 300+5*2*(Rows-2), s.Score())
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, 0, s.board.Height())
	assert.Equal(t, PhasePlaying, s.Phase())
}

func TestLineClearUsesLevelBeforeUpdate(t *testing.T) {
	s := startedSession(t, KindO)
	s.level = 3
	s.lines = 20
	s.active.X = Cols - 2
	s.active.Y = Rows - 2
	fillColumns(&s.board, 0, Cols-2, Rows-2)

	assert.False(t, s.Drop())
	assert.Equal(t, 900, s.Score())
	assert.Equal(t, 22, s.Lines())
	assert.Equal(t, 3, s.Level())
}

func TestLevelUpReschedulesGravity(t *testing.T) {
	s := startedSession(t, KindO)
	s.lines = 9
	s.active.X = Cols - 2
	s.active.Y = Rows - 2
	fillColumns(&s.board, 0, Cols-2, Rows-1)
	gen := s.Scheduler().Generation()

	s.Drop()

	assert.Equal(t, 10, s.Lines())
	assert.Equal(t, 2, s.Level())
	assert.Equal(t, 900*time.Millisecond, s.Scheduler().Period())
	assert.False(t, s.Scheduler().Current(gen), "old generation should be stale")
	assert.True(t, s.Scheduler().Running())
}

func TestGameOverFreezesSession(t *testing.T) {
	s := startedSession(t, KindO)
	fillColumns(&s.board, 2, Cols-2, 0)
	s.active.X = 0

	s.HardDrop()

	require.Equal(t, PhaseOver, s.Phase())
	assert.False(t, s.Scheduler().Running())

	score := s.Score()
	snap := s.Snapshot()
	assert.False(t, s.MoveLeft())
	assert.False(t, s.Rotate())
	assert.False(t, s.SoftDrop())
	assert.Equal(t, 0, s.HardDrop())
	assert.Equal(t, 0, s.Advance(time.Minute))
	s.TogglePause()

	assert.Equal(t, PhaseOver, s.Phase())
	assert.Equal(t, score, s.Score())
	assert.Equal(t, snap, s.Snapshot())
}

func TestStartAfterGameOverResets(t *testing.T) {
	s := startedSession(t, KindO)
	fillColumns(&s.board, 2, Cols-2, 0)
	s.active.X = 0
	s.HardDrop()
	require.Equal(t, PhaseOver, s.Phase())

	s.Start()

	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Equal(t, 0, s.Score())
	assert.Equal(t, 0, s.Pieces())
	assert.Equal(t, 0, s.board.Height())
	assert.Equal(t, 2, s.factory.Stats().Total(), "stats count only this game's draws")
}

func TestPauseStopsGravity(t *testing.T) {
	s := startedSession(t, KindO)

	s.TogglePause()
	require.Equal(t, PhasePaused, s.Phase())
	assert.Equal(t, 0, s.Advance(5*time.Second))
	assert.False(t, s.MoveLeft())
	assert.Equal(t, 0, s.active.Y)

	s.TogglePause()
	require.Equal(t, PhasePlaying, s.Phase())
	assert.Equal(t, 1, s.Advance(time.Second))
	assert.Equal(t, 1, s.active.Y)
}

func TestAdvanceAccumulates(t *testing.T) {
	s := startedSession(t, KindO)

	assert.Equal(t, 0, s.Advance(600*time.Millisecond))
	assert.Equal(t, 1, s.Advance(600*time.Millisecond))
	assert.Equal(t, 2, s.Advance(2*time.Second))
	assert.Equal(t, 3, s.active.Y)
}

func TestAdvanceStopsAtGameOver(t *testing.T) {
	s := startedSession(t, KindO)
	fillColumns(&s.board, 2, Cols-2, 0)
	s.active.X = 0
	s.active.Y = Rows - 3

	// One drop reaches the floor, the next locks and ends the game.
	assert.Equal(t, 2, s.Advance(time.Hour))
	assert.Equal(t, PhaseOver, s.Phase())
}

func TestGhostY(t *testing.T) {
	s := startedSession(t, KindO)
	assert.Equal(t, Rows-2, s.GhostY())

	s.board.Set(s.active.X, 10, Cell(KindZ))
	assert.Equal(t, 8, s.GhostY())
}

func TestSnapshotIsCopy(t *testing.T) {
	s := startedSession(t, KindT)
	snap := s.Snapshot()

	snap.Active.Shape[0][1] = 0
	snap.Active.X = 0
	snap.Board[19][0] = 7

	assert.Equal(t, Cell(KindT), s.active.Shape[0][1])
	assert.NotEqual(t, 0, s.active.X)
	assert.Equal(t, Empty, s.board.At(0, 19))
}

func TestSnapshotCellsOverlaysActive(t *testing.T) {
	s := startedSession(t, KindI)
	cells := s.Snapshot().Cells()
	for x := 3; x < 7; x++ {
		assert.Equal(t, Cell(KindI), cells[0][x])
	}
	assert.Equal(t, Empty, s.board.At(3, 0), "board itself is unchanged")
}

func TestSessionDeterminism(t *testing.T) {
	play := func() Snapshot {
		s := NewSession(DefaultRules(), 99)
		s.Start()
		for i := range 300 {
			switch i % 5 {
			case 0:
				s.MoveLeft()
			case 1:
				s.Rotate()
			case 2:
				s.MoveRight()
			case 3:
				s.SoftDrop()
			case 4:
				s.HardDrop()
			}
			s.Advance(250 * time.Millisecond)
		}
		return s.Snapshot()
	}

	assert.Equal(t, play(), play())
}
