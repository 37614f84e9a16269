package main

import (
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=...".
var (
	version  = "dev"
	revision = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "raznime",
	Short:         "Raznime anime catalog and player",
	Long:          "Raznime serves an anime catalog and video player on top of a Consumet API deployment.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web site",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("raznime %s (%s) %s/%s\n", version, revision, runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().Int("port", 0, "Listen port, overrides server.port")
		c.Flags().String("address", "", "Listen address, overrides server.address")
	}
	rootCmd.AddCommand(serveCmd, versionCmd)
}
