package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/mastercactapus/terrain3d/printcheck"
	"github.com/mastercactapus/terrain3d/stl"
	"github.com/spf13/cobra"
)

var (
	buildOpt   = defaultBuildOptions()
	buildOut   string
	buildASCII bool
)

var buildCmd = &cobra.Command{
	Use:   "build [grid.json]",
	Short: "Generate an STL model from an elevation grid",
	Long: `Build a triangle mesh from an elevation grid, scale it to the target size,
add a base and write it as STL. A JSON report with mesh statistics,
validation results and suggested print settings is written next to it.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	f := buildCmd.Flags()
	f.StringVarP(&buildOut, "out", "o", "", "Output STL file (defaults to the grid name with .stl).")
	f.BoolVar(&buildASCII, "ascii", false, "Write ASCII STL instead of binary.")
	f.BoolVar(&buildOpt.Delaunay, "delaunay", false, "Use Delaunay triangulation instead of the regular grid.")
	f.IntVar(&buildOpt.Decimation, "decimation", buildOpt.Decimation, "Keep every Nth row and column (Delaunay only).")
	f.Float64Var(&buildOpt.ScaleXY, "scale-xy", buildOpt.ScaleXY, "Horizontal scale applied before conversion to meters.")
	f.Float64Var(&buildOpt.ScaleZ, "scale-z", buildOpt.ScaleZ, "Vertical exaggeration.")
	f.Float64Var(&buildOpt.Size, "size", buildOpt.Size, "Target size of the largest dimension in mm (0 to disable).")
	f.Float64Var(&buildOpt.Base, "base", buildOpt.Base, "Base thickness in mm (0 to disable).")
}

func outputName(input, out string) string {
	if out != "" {
		return out
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".stl"
}

func reportName(stlName string) string {
	return strings.TrimSuffix(stlName, filepath.Ext(stlName)) + ".report.json"
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadPrinterConfig(printerFile)
	if err != nil {
		return err
	}

	g, err := loadGrid(args[0])
	if err != nil {
		return err
	}
	rows, cols := g.Shape()
	log.Printf("loaded %dx%d grid with %d valid samples", rows, cols, g.ValidCount())
	if ok, min, max := g.ElevationRange(); ok {
		log.Printf("elevation range: %.1f to %.1f", min, max)
	}

	m, err := buildOpt.Build(g, stdLogger())
	if err != nil {
		return err
	}

	cfg.Logger = stdLogger()
	r := printcheck.New(cfg).Validate(m)

	format := stl.Binary
	if buildASCII {
		format = stl.ASCII
	}
	name := outputName(args[0], buildOut)
	err = stl.WriteFile(name, m, format)
	if err != nil {
		return err
	}
	log.Printf("wrote %s STL '%s'", format, name)

	res := newResult(m, r)
	err = writeResult(reportName(name), res)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	printResult(cmd.OutOrStdout(), res)
	return nil
}
