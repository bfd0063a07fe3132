package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/saulfrancisco-ruizacevedo/go-neoviz/internal/config"
	"github.com/saulfrancisco-ruizacevedo/go-neoviz/internal/observability"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "neoviz",
		Short:         "neoviz draws a Neo4j graph in the browser.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.GetViper()
			if err := initializeConfig(v); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}
			if err := config.Load(v); err != nil {
				return err
			}
			cfg := config.Get()
			if err := cfg.Validate(); err != nil {
				observability.InitializeLogger(cfg.Logger)
				return fmt.Errorf("invalid configuration: %w", err)
			}
			observability.InitializeLogger(cfg.Logger)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")

	root.AddCommand(newServeCmd(), newQueryCmd(), newVersionCmd())
	return root
}

// Execute runs the command tree with ctx, which is cancelled on SIGINT/SIGTERM.
func Execute(ctx context.Context) error {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if ctx.Err() == nil || !errors.Is(err, context.Canceled) {
			observability.GetLogger().Error("command failed", zap.Error(err))
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return err
	}
	return nil
}

// initializeConfig layers defaults, .env, the environment and the config file
// onto v.
func initializeConfig(v *viper.Viper) error {
	config.SetDefaults(v)

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	if err := config.BindEnv(v); err != nil {
		return err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}
