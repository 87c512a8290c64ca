package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var printerFile string

var rootCmd = &cobra.Command{
	Use:   "terrain3d",
	Short: "Turn elevation grids into printable STL models",
	Long: `terrain3d triangulates gridded elevation data, scales it for a 3D printer,
adds a base, writes STL, and checks the result against printer limits.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&printerFile, "printer", "", "JSON file with printer limits (defaults to a typical FDM printer).")
}

func main() {
	log.SetFlags(log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
