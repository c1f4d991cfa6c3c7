package main

import (
	"fmt"

	"github.com/shagor/portfolio-core/internal/config"
	"github.com/shagor/portfolio-core/internal/database"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type globalFlags struct {
	configPath string
	envFile    string
}

// env is what every subcommand needs once flags are parsed.
type env struct {
	cfg *config.AppConfig
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	e := &env{}

	root := &cobra.Command{
		Use:           "portfolioctl",
		Short:         "Administrative tasks for the portfolio backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(flags.envFile); err != nil {
				return err
			}
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			log, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			e.cfg, e.log = cfg, log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to YAML config file")
	root.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "dotenv file loaded before the config")

	root.AddCommand(newCreateAdminCmd(e), newImportMongoCmd(e))
	return root
}

// openDB connects to the SQL store and brings the schema up to date.
func (e *env) openDB() (*gorm.DB, func(), error) {
	db, err := database.Connect(e.cfg, true)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	e.log.Info("database ready", zap.String("target", database.Describe(e.cfg.Database.Driver, e.cfg.DSN)))
	return db, closeFn, nil
}
