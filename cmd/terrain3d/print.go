package main

import (
	"fmt"
	"io"
)

func printResult(w io.Writer, res result) {
	r := res.Validation
	s := r.Statistics

	fmt.Fprintln(w, "Model")
	fmt.Fprintf(w, "  Vertices: %d\n", s.Vertices)
	fmt.Fprintf(w, "  Faces: %d\n", s.Faces)
	fmt.Fprintf(w, "  Dimensions: %.1f x %.1f x %.1f mm\n", s.Dimensions.X, s.Dimensions.Y, s.Dimensions.Z)
	fmt.Fprintf(w, "  Volume: %.1f mm3\n", s.Volume)
	fmt.Fprintf(w, "  Surface area: %.1f mm2\n", s.SurfaceArea)
	fmt.Fprintf(w, "  Estimated print time: %.1f h\n", s.EstimatedPrintHours)
	fmt.Fprintf(w, "  Estimated filament: %.1f m\n\n", s.EstimatedFilamentMeters)

	fmt.Fprintf(w, "Printable: %t\n", r.Printable)
	for _, e := range r.CriticalErrors {
		fmt.Fprintf(w, "  ERROR: %s\n", e)
	}
	for _, iss := range r.Warnings {
		fmt.Fprintf(w, "  WARNING: %s\n", iss.Message)
	}
	for _, rec := range r.Recommendations {
		fmt.Fprintf(w, "  RECOMMENDATION: %s\n", rec.Message)
	}

	set := res.Settings
	fmt.Fprintln(w, "\nSuggested settings")
	fmt.Fprintf(w, "  Layer height: %gmm\n", set.LayerHeight)
	fmt.Fprintf(w, "  Infill: %d%%\n", set.InfillPercentage)
	fmt.Fprintf(w, "  Speed: %gmm/s\n", set.PrintSpeed)
	fmt.Fprintf(w, "  Supports: %t\n", set.SupportsNeeded)
	fmt.Fprintf(w, "  Bed adhesion: %s\n", set.BedAdhesion)
	for _, c := range set.SpecialConsiderations {
		fmt.Fprintf(w, "  - %s\n", c)
	}
}
