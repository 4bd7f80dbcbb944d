package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/philpot/sagemaker-go-sdk/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("algocheck %s (built with %s)\n", version.Version, runtime.Version())
		},
	}
}
