package main

import (
	"github.com/signalcraft/signalcraft/internal/probe"
	"github.com/signalcraft/signalcraft/pkg/logger"
	"github.com/spf13/cobra"
)

func newProbeCmd() *cobra.Command {
	var cfg probe.Config
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check a running server against the dashboard API contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(); err != nil {
				return err
			}
			_, err := probe.Run(cmd.Context(), cfg, nil)
			return err
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&cfg.BaseURL, "url", probe.DefaultBaseURL, "base URL of the service")
	fl.IntVar(&cfg.Workers, "workers", probe.DefaultWorkers, "concurrent checks")
	fl.DurationVar(&cfg.Timeout, "timeout", probe.DefaultTimeout, "HTTP request timeout")
	fl.IntVar(&cfg.Repeat, "repeat", probe.DefaultRepeat, "fetches per endpoint when comparing bytes")
	fl.BoolVarP(&cfg.Verbose, "verbose", "v", false, "log passing checks too")
	return cmd
}
