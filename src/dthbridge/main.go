package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uber/dthbridge/src/dthbridge/app"
	"github.com/uber/dthbridge/src/dthbridge/internal/core"
	"go.uber.org/config"
	"go.uber.org/fx"
)

const _version = "0.1.0"

var configDir string

var rootCmd = &cobra.Command{
	Use:   "dthbridge",
	Short: "Design time host bridge",
	Long: `dthbridge supervises a design time compilation host, keeps the project graph it reports
in sync with a consuming workspace and serves editors over JSON-RPC.`,
	Version:      _version,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fx.New(opts(configDir)).Run()
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&configDir, "config-dir", "",
		fmt.Sprintf("Directory holding meta.yaml (default: $%s or src/dthbridge/config)", core.EnvConfigDir))
}

func opts(dir string) fx.Option {
	cfg := core.ConfigModule
	if dir != "" {
		cfg = fx.Provide(func() (config.Provider, error) {
			return core.NewConfigFromDir(dir)
		})
	}
	return fx.Options(
		cfg,
		app.Module,
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
