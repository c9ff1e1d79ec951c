package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"PawPlanner_WebClient/internal/config"
	"PawPlanner_WebClient/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	apiURL      string
	dbPath      string
	profileName string
	verbose     bool

	// From PAWPLAN_REQUEST_TIMEOUT; 0 means none.
	requestTimeout time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pawctl",
	Short: "PawPlanner terminal client",
	Long: `pawctl drives the PawPlanner backend from the terminal.

Each command runs one action and prints the output it produced. The backend
session cookie and the last created dog profile are kept in a local sqlite
file, so a login survives between runs. Use --profile to keep several
independent sessions in the same file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if apiURL == "" {
			apiURL = cfg.APIBaseURL
		}
		if dbPath == "" {
			dbPath = cfg.DBPath
		}
		requestTimeout = cfg.RequestTimeout

		logger, err = logging.New(cfg.LogLevel, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "backend origin (default $PAWPLAN_API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "local storage file (default $PAWPLAN_DB_PATH)")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "default", "local session profile")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringP("username", "u", "", "account username")
		c.Flags().StringP("password", "p", "", "account password")
	}

	addProfileFlags(profileCreateCmd)
	profileCmd.AddCommand(profileCreateCmd, profileShowCmd)

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd, profileCmd, recommendCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
