// Command rocketmentor runs the RocketMentor API server and offers offline
// access to the week-dump parser, the time parser and the coach rules.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title                      RocketMentor API
// @version                    1.0
// @description                Week planning, win tracking and promotion coaching for consultants.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rocketmentor",
		Short: "RocketMentor career-coaching engine",
		Long: `RocketMentor plans consulting weeks, tracks wins and coaches toward the
next promotion.

Run "rocketmentor serve" to start the HTTP API. The other commands work
offline and print to stdout.`,
		SilenceUsage: true,
	}
	root.Version = version

	root.AddCommand(
		newServeCmd(),
		newParseWeekCmd(),
		newParseTimeCmd(),
		newCoachCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
