package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/labels"
)

func cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean <title>...",
		Short: "Show how raw titles are cleaned for display",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, raw := range args {
				cleaned := labels.Clean(raw)
				if cleaned == raw {
					fmt.Fprintf(w, "%s\n", cleaned)
					continue
				}
				fmt.Fprintf(w, "%s %s %s\n", subtle.Sprint(raw), subtle.Sprint("→"), good.Sprint(cleaned))
			}
			return nil
		},
	}
}
