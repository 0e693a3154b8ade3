// Command repomanage serves the repository and language record store over
// HTTP and offers offline snapshot and stats commands against the same
// durable store.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"repomanage/internal/config"
	"repomanage/internal/logger"
)

// Version is set at build time
var Version = "dev"

// app carries what PersistentPreRunE resolves for the subcommands
type app struct {
	cfgFile string
	cfg     *config.Config
	cfgPath string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "repomanage",
		Short: "Durable store for repositories and programming languages",
		Long: `repomanage keeps Repo and ProgrammingLanguage records in durable memory
regions and serves them over a JSON HTTP API.

Without a subcommand it runs the server.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if skipConfig(cmd) {
				return nil
			}
			return a.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: search ./repomanage.yaml, XDG, /etc)")
	pf.String("addr", "", "HTTP listen address")
	pf.String("backend", "", "storage backend (sqlite|bolt)")
	pf.String("db", "", "storage file path")
	pf.String("log-level", "", "log level (debug|info|warn|error)")
	pf.String("log-env", "", "log format (dev|prod)")
	pf.Bool("no-cache", false, "disable the entity frame cache")

	_ = root.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.BackendSQLite, config.BackendBolt}, cobra.ShellCompDirectiveNoFileComp
	})

	root.AddCommand(
		newServeCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newStatsCmd(a),
		newConfigCmd(a),
	)
	return root
}

// load reads .env, resolves the layered config and starts the logger
func (a *app) load(cmd *cobra.Command) error {
	// a missing .env is fine
	_ = godotenv.Load()

	cfg, path, err := config.Load(a.cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}
	a.cfg, a.cfgPath = cfg, path

	logger.Init(logger.Config{
		Env:         cfg.Log.Env,
		Level:       cfg.Log.Level,
		ServiceName: "repomanage",
		Version:     Version,
	})
	return nil
}

// skipConfig reports commands that must run without a valid config
func skipConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "help", "completion", "__complete", "init":
		return true
	}
	return false
}
