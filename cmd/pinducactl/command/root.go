package command

// root.go defines the root command for pinducactl and the shared
// database bootstrap used by every subcommand.

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pinduca/database"
	"pinduca/internal/config"
	"pinduca/internal/logging"
)

var envFile string // .env file path

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pinducactl",
	Short: "pinducactl - Pinduca Reviews administration",
	Long: `pinducactl manages a Pinduca Reviews deployment. It reads the same environment
(DATABASE_URL, LOG_LEVEL, ...) as the API server and can:
- apply, roll back and inspect database migrations
- promote users to ADMIN or demote them back to USER`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the environment")

	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newUserCmd())
}

// session is an open database plus the logger, closed by the caller.
type session struct {
	db     *gorm.DB
	logger *zap.Logger
}

func (s *session) Close() {
	_ = database.Close(s.db)
	_ = s.logger.Sync()
}

func openSession(ctx context.Context) (*session, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.IsDevelopment())
	if err != nil {
		return nil, err
	}

	db, err := database.OpenGorm(ctx, cfg.DatabaseURL, database.Options{MaxOpenConns: 2, MaxIdleConns: 1}, logger)
	if err != nil {
		return nil, err
	}
	return &session{db: db, logger: logger}, nil
}
