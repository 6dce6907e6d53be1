package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/platform/tui"
	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/replay"
	"github.com/vovakirdan/blockfall/internal/storage"
)

var (
	flagReplayGame  string
	flagReplayLimit int
	flagExportOut   string
)

var replaysCmd = &cobra.Command{
	Use:   "replays",
	Short: "Manage recorded games",
	Long: `Every finished game is stored as a replay: the seed, the config and
the actions applied on each tick. A replay can be re-simulated to check
that it really produces its recorded score.

Examples:
  blockfall replays list
  blockfall replays list --game tetris_fixed --limit 5
  blockfall replays show 3
  blockfall replays verify 3
  blockfall replays export 3 -o game3.yaml
  blockfall replays import game3.yaml
  blockfall replays watch 3
  blockfall replays delete 3`,
}

var replaysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent replays",
	Args:  cobra.NoArgs,
	RunE:  runReplaysList,
}

var replaysShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a replay's details",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysShow,
}

var replaysVerifyCmd = &cobra.Command{
	Use:   "verify <id>",
	Short: "Re-simulate a replay and check its result",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysVerify,
}

var replaysExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write a replay as YAML",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysExport,
}

var replaysImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Verify and store a YAML replay",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysImport,
}

var replaysDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a replay",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplaysDelete,
}

var replaysWatchCmd = &cobra.Command{
	Use:         "watch <id>",
	Short:       "Watch a replay in the terminal",
	Long:        "Plays a replay back. Space pauses, +/- change speed, Esc or Q leaves.",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{tuiAnnotation: "true"},
	RunE:        runReplaysWatch,
}

func init() {
	replaysListCmd.Flags().StringVar(&flagReplayGame, "game", "", "Only list replays of this mode")
	replaysListCmd.Flags().IntVar(&flagReplayLimit, "limit", 20, "Maximum number of replays to list")
	replaysExportCmd.Flags().StringVarP(&flagExportOut, "output", "o", "", "Output file (default: stdout)")

	replaysCmd.AddCommand(
		replaysListCmd,
		replaysShowCmd,
		replaysVerifyCmd,
		replaysExportCmd,
		replaysImportCmd,
		replaysDeleteCmd,
		replaysWatchCmd,
	)
}

// withStore opens the replay database for the duration of fn. Replay
// commands need it, so failure to open is an error.
func withStore(fn func(*storage.Store) error) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer closeStore(store)
	return fn(store)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid replay id %q", arg)
	}
	return id, nil
}

// loadEntry fetches a replay by its command-line id.
func loadEntry(store *storage.Store, arg string) (storage.ReplayEntry, error) {
	id, err := parseID(arg)
	if err != nil {
		return storage.ReplayEntry{}, err
	}
	e, err := store.ReplayByID(id)
	if err != nil {
		return storage.ReplayEntry{}, err
	}
	if e == nil {
		return storage.ReplayEntry{}, fmt.Errorf("replay #%d not found", id)
	}
	return *e, nil
}

// loadJournal fetches and decodes a replay by its command-line id.
func loadJournal(store *storage.Store, arg string) (storage.ReplayEntry, replay.Journal, error) {
	e, err := loadEntry(store, arg)
	if err != nil {
		return e, replay.Journal{}, err
	}
	j, err := replay.FromEntry(e)
	return e, j, err
}

func runReplaysList(cmd *cobra.Command, _ []string) error {
	if flagReplayGame != "" && !registry.Exists(flagReplayGame) {
		return fmt.Errorf("unknown game %q", flagReplayGame)
	}

	return withStore(func(store *storage.Store) error {
		out := cmd.OutOrStdout()
		replays, err := store.RecentReplays(flagReplayGame, flagReplayLimit)
		if err != nil {
			return err
		}

		if len(replays) == 0 {
			fmt.Fprintln(out, "No replays recorded yet.")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Play 'blockfall play' to record one.")
			return nil
		}

		fmt.Fprintf(out, "  %-5s  %-13s  %-10s  %8s  %5s  %3s  %s\n", "ID", "Mode", "Player", "Score", "Lines", "Lvl", "Date")
		fmt.Fprintf(out, "  %-5s  %-13s  %-10s  %8s  %5s  %3s  %s\n", "--", "----", "------", "-----", "-----", "---", "----")
		for _, r := range replays {
			fmt.Fprintf(out, "  %-5d  %-13s  %-10s  %8d  %5d  %3d  %s\n",
				r.ID, r.GameID, r.Player, r.Score, r.Lines, r.Level, r.CreatedAt.Format("2006-01-02 15:04"))
		}

		if total, err := store.CountReplays(flagReplayGame); err == nil && total > len(replays) {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Showing %d of %d replays.\n", len(replays), total)
		}
		return nil
	})
}

func runReplaysShow(cmd *cobra.Command, args []string) error {
	return withStore(func(store *storage.Store) error {
		e, j, err := loadJournal(store, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Replay #%d\n\n", e.ID)
		fmt.Fprintf(out, "  Mode:       %s\n", j.GameID)
		fmt.Fprintf(out, "  Player:     %s\n", j.Player)
		fmt.Fprintf(out, "  Recorded:   %s\n", e.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "  Seed:       %d\n", j.Seed)
		fmt.Fprintf(out, "  Tick rate:  %d/s\n", j.TickRate)
		fmt.Fprintf(out, "  Ticks:      %d (%s)\n", j.Ticks, duration(j))
		fmt.Fprintf(out, "  Inputs:     %d frames\n", len(j.Frames))
		fmt.Fprintf(out, "  Score:      %d\n", j.Result.Score)
		fmt.Fprintf(out, "  Lines:      %d\n", j.Result.Lines)
		fmt.Fprintf(out, "  Level:      %d\n", j.Result.Level)
		return nil
	})
}

// duration is the wall-clock length of the recorded game.
func duration(j replay.Journal) string {
	secs := j.Ticks / uint64(j.TickRate)
	return fmt.Sprintf("%dm%02ds", secs/60, secs%60)
}

func runReplaysVerify(cmd *cobra.Command, args []string) error {
	return withStore(func(store *storage.Store) error {
		e, j, err := loadJournal(store, args[0])
		if err != nil {
			return err
		}

		if err := replay.Verify(j); err != nil {
			if errors.Is(err, replay.ErrMismatch) {
				logger.Warn("replay does not reproduce its result", "id", e.ID, "error", err)
			}
			return err
		}

		logger.Debug("replay verified", "id", e.ID, "ticks", j.Ticks)
		fmt.Fprintf(cmd.OutOrStdout(), "Replay #%d OK: score %d, %d lines, level %d reproduced.\n",
			e.ID, j.Result.Score, j.Result.Lines, j.Result.Level)
		return nil
	})
}

func runReplaysExport(cmd *cobra.Command, args []string) error {
	return withStore(func(store *storage.Store) error {
		e, err := loadEntry(store, args[0])
		if err != nil {
			return err
		}

		if flagExportOut == "" {
			_, err := cmd.OutOrStdout().Write(e.Journal)
			return err
		}
		if err := os.WriteFile(flagExportOut, e.Journal, 0o644); err != nil {
			return fmt.Errorf("cannot write %s: %w", flagExportOut, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Replay #%d written to %s\n", e.ID, flagExportOut)
		return nil
	})
}

func runReplaysImport(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	j, err := replay.Decode(data)
	if err != nil {
		return err
	}
	if err := replay.Verify(j); err != nil {
		return err
	}

	return withStore(func(store *storage.Store) error {
		id, err := replay.Save(store, j)
		if err != nil {
			return err
		}
		logger.Info("replay imported", "id", id, "game", j.GameID, "score", j.Result.Score)
		fmt.Fprintf(cmd.OutOrStdout(), "Imported as replay #%d\n", id)
		return nil
	})
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return data, nil
}

func runReplaysDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	return withStore(func(store *storage.Store) error {
		ok, err := store.DeleteReplay(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("replay #%d not found", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Replay #%d deleted\n", id)
		return nil
	})
}

func runReplaysWatch(_ *cobra.Command, args []string) error {
	return withStore(func(store *storage.Store) error {
		_, j, err := loadJournal(store, args[0])
		if err != nil {
			return err
		}
		width, height := terminalSize()
		return tui.RunPlayback(j, width, height)
	})
}
