package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/jrazmi/todokeeper/app/todokeeper/config"
	"github.com/jrazmi/todokeeper/sdk/environment"
	"github.com/jrazmi/todokeeper/sdk/logger"
	"github.com/jrazmi/todokeeper/sdk/telemetry"
	"github.com/spf13/cobra"
)

var build = "develop"

const serviceName = "todokeeper"

// app is the state shared by every command once flags are parsed.
type app struct {
	configPath string
	envFile    string

	cfg       config.Todokeeper
	log       *logger.Logger
	telemetry telemetry.Telemetry
}

func main() {
	a := &app{}
	if err := newRootCmd(a).ExecuteContext(context.Background()); err != nil {
		if a.log != nil {
			a.log.Error("shutdown", "err", err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           serviceName,
		Short:         "todokeeper - TODO task management API",
		Version:       build,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Flags().Changed("env-file"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), a)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "path to a .env file")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), a)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply pending schema migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context(), a)
			},
		},
	)

	return root
}

// setup loads the environment and configuration and builds the logger. A
// missing .env file is only an error when the flag was given explicitly.
func (a *app) setup(envFileRequired bool) error {
	var err error
	if envFileRequired {
		err = environment.LoadEnv(a.envFile)
	} else {
		err = environment.LoadEnvIfPresent(a.envFile)
	}
	if err != nil {
		return fmt.Errorf("loading env file %s: %w", a.envFile, err)
	}

	a.cfg, err = config.Load(a.configPath)
	if err != nil {
		return err
	}

	a.telemetry = telemetry.NewTelemetry()
	a.log = logger.New(a.cfg.Log,
		logger.WithService(serviceName),
		logger.WithTraceID(func(ctx context.Context) string {
			id, _ := telemetry.LookupTraceID(ctx)
			return id
		}),
	)

	a.log.Info("startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build, "driver", a.cfg.Driver)
	return nil
}
