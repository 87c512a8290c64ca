package main

import (
	"encoding/json"

	"github.com/mastercactapus/terrain3d/printcheck"
	"github.com/mastercactapus/terrain3d/stl"
	"github.com/spf13/cobra"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check [model.stl]",
	Short: "Validate an existing STL model for printing",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the report as JSON.")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadPrinterConfig(printerFile)
	if err != nil {
		return err
	}

	m, err := stl.ReadFile(args[0])
	if err != nil {
		return err
	}

	cfg.Logger = stdLogger()
	res := newResult(m, printcheck.New(cfg).Validate(m))

	if checkJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	printResult(cmd.OutOrStdout(), res)
	return nil
}
