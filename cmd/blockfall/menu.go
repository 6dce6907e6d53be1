package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a mode picker and replay browser",
	Long: `Start blockfall in interactive menu mode.

Use arrow keys or j/k to navigate and Enter to play. Tab opens the replay
browser, where recorded games can be watched, verified and deleted.
After a game ends, B or Esc returns to the menu.

Examples:
  blockfall menu
  blockfall menu --fps 30
  blockfall menu --db ./replays.db`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE:        runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	menuCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not save replays")
}

func runMenu(_ *cobra.Command, _ []string) error {
	if err := configureGames(); err != nil {
		return err
	}

	store := openStoreBestEffort()
	defer closeStore(store)

	return tui.RunSession(store, runtimeConfig(), tui.Options{
		Logger:   logger,
		Player:   playerName(),
		NoRecord: flagNoRecord,
	})
}
