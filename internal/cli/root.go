// Package cli implements mindmapctl, an offline companion to the API: it builds
// canonical graphs from raw model output, rebuilds sidebars and previews label cleanup.
package cli

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mindmapctl",
		Short:         "mindmapctl builds and inspects mind-map graphs",
		Long:          brand.Sprint("mindmapctl") + " builds and inspects mind-map graphs\n" + subtle.Sprint("Works on raw model JSON, canonical graphs and legacy node lists"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("mindmapctl {{ .Version }}\n")
	root.AddCommand(
		buildCmd(),
		sidebarCmd(),
		cleanCmd(),
		tokenCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		bad.Fprintf(root.ErrOrStderr(), "mindmapctl: %v\n", err)
		return 1
	}
	return 0
}
