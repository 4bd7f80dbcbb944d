package main

import (
	"github.com/spf13/cobra"

	"github.com/philpot/sagemaker-go-sdk/pkg/check"
	"github.com/philpot/sagemaker-go-sdk/pkg/logger"
	"github.com/philpot/sagemaker-go-sdk/version"
)

type options struct {
	logger.Config
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:     "algocheck",
		Short:   "validate training configurations against algorithm specifications",
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindEnv("ALGOCHECK_", cmd); err != nil {
				return err
			}
			if err := check.Validate(opts.Config); err != nil {
				return err
			}
			logger.SetLogrus(opts.Config)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Level, "level", "l", "info",
		"set the logging level (can be one of: debug, info, warn, error, or fatal)")
	cmd.PersistentFlags().BoolVar(&opts.Color, "color", true, "enable colored output")
	cmd.PersistentFlags().BoolVar(&opts.Structured, "structured", false, "enable structured logging")

	cmd.AddCommand(newCompletionCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newValidateCmd())

	return cmd
}
