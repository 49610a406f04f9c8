package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/playok/compliancemon/internal/config"
	"github.com/playok/compliancemon/internal/logging"
)

var version = "dev"

// globals are the persistent flags shared by every command.
type globals struct {
	configPath string
	flags      config.Flags
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:           "compliancemon",
		Short:         "Live GDPR compliance metrics dashboard",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file path (default: config.yaml)")
	config.BindFlags(root.PersistentFlags(), &g.flags)

	root.AddCommand(
		newRunCmd(g),
		newSnapshotCmd(g),
		newDemoCmd(),
		newNginxCmd(g),
		&cobra.Command{
			Use:   "version",
			Short: "Print version",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "compliancemon %s\n", version)
			},
		},
	)
	return root
}

// load resolves the layered configuration and the logger for cmd.
func (g *globals) load(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg.ApplyFlags(cmd.Flags(), &g.flags)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
