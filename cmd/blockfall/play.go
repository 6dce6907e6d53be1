package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/games/tetris"
	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [mode]",
	Short: "Play a game",
	Long: `Start playing the given mode (default: tetris).

Controls:
  Left/Right, A/D  - Move
  Up, W, X         - Rotate
  Down, S          - Soft drop
  Space            - Hard drop
  Enter            - Start
  P                - Pause
  R                - Restart (after game over)
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slower gravity at every level
  normal - Default pacing
  hard   - Faster gravity at every level
  fixed  - Gravity never speeds up

Finished games are saved to the replay database unless --no-record is set.

Examples:
  blockfall play
  blockfall play tetris_fixed
  blockfall play --difficulty hard
  blockfall play --config ./my-tetris.yaml --seed 42`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE:        runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not save a replay of the game")
}

func runPlay(_ *cobra.Command, args []string) error {
	gameID := tetris.IDMarathon
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		return fmt.Errorf("unknown game %q (run 'blockfall list' to see modes)", gameID)
	}
	if err := configureGames(); err != nil {
		return err
	}

	game, err := registry.Create(gameID)
	if err != nil {
		return err
	}

	store := openStoreBestEffort()
	defer closeStore(store)

	logger.Debug("starting game", "game", gameID, "fps", flagFPS, "seed", flagSeed)
	return tui.Run(game, runtimeConfig(), tui.Options{
		Store:    store,
		Logger:   logger,
		Player:   playerName(),
		NoRecord: flagNoRecord,
	})
}
