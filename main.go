// PhysiCode generates 3D-printable geometry from implicit scalar
// fields. It samples a field on a regular lattice, extracts the
// iso-surface with marching cubes, and writes the result as STL,
// with watertightness and material estimates on the side.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)

	root := &cobra.Command{
		Use:           "physicode",
		Short:         "Implicit-field geometry generator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newRunCmd())

	if err := root.Execute(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
