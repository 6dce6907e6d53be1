// blockfall is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	blockfall list                 - List game modes
//	blockfall play [mode]          - Play a mode (default: tetris)
//	blockfall menu                 - Pick modes and browse replays interactively
//	blockfall serve                - Start SSH server for remote play
//	blockfall replays <command>    - Inspect, verify, export and watch replays
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Set RNG seed for reproducible gameplay
//	--db <path>          - Set replay database path (default: ~/.blockfall/replays.db)
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/replay"
	// Import games to register them
	_ "github.com/vovakirdan/blockfall/internal/games/tetris"
)

// Environment variables that provide flag defaults. A .env file in the
// working directory is loaded first.
const (
	envDB       = "BLOCKFALL_DB"
	envSSHAddr  = "BLOCKFALL_SSH_ADDR"
	envLogLevel = "BLOCKFALL_LOG_LEVEL"
)

// tuiAnnotation marks commands that take over the terminal. Their logs go
// to a file so they do not tear the alt screen.
const tuiAnnotation = "tui"

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string

	logger  = log.Default()
	logFile *os.File
)

func main() {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blockfall",
	Short: "Blockfall - falling blocks in your terminal",
	Long: `Blockfall is a falling-block puzzle game for the terminal.
Every finished game is recorded as a replay that can be verified,
exported and watched later.

Available commands:
  list      - Show the game modes
  play      - Play a mode directly
  menu      - Interactive mode picker and replay browser
  serve     - Start SSH server for remote play
  replays   - Manage recorded games

Examples:
  blockfall play
  blockfall play tetris_fixed --difficulty hard
  blockfall menu
  blockfall serve --ssh :2222
  blockfall replays verify 12`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/"+config.AppDir+"/replays.db", "Path to replay database (env "+envDB+")")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error (env "+envLogLevel+")")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(replaysCmd)
}

// setup loads .env, applies environment defaults to unset flags and
// configures the logger.
func setup(cmd *cobra.Command, _ []string) error {
	// A missing .env is normal.
	_ = godotenv.Load()

	envDefault(cmd, "db", envDB, &flagDBPath)
	envDefault(cmd, "log-level", envLogLevel, &flagLogLevel)

	if flagFPS <= 0 || flagFPS > replay.MaxTickRate {
		return fmt.Errorf("--fps must be between 1 and %d, got %d", replay.MaxTickRate, flagFPS)
	}

	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", flagLogLevel, err)
	}

	out := os.Stderr
	if cmd.Annotations[tuiAnnotation] != "" {
		f, err := openLogFile()
		if err != nil {
			return err
		}
		logFile = f
		out = f
	}

	logger = log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "blockfall",
		Level:           level,
	})
	return nil
}

// envDefault copies an environment variable into a flag the user did not set.
func envDefault(cmd *cobra.Command, flag, env string, dst *string) {
	if cmd.Flags().Changed(flag) {
		return
	}
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

// openLogFile opens ~/.blockfall/blockfall.log for appending.
func openLogFile() (*os.File, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, config.AppDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	path := filepath.Join(dir, "blockfall.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}

func closeLog() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}
