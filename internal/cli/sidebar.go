package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/mindmap-backend/internal/modules/mindmap/sidebar"
)

func sidebarCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "sidebar <file|->",
		Short: "Reconstruct the topic sidebar from a graph JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			topics := sidebar.Reconstruct(data)
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(topics)
			}
			if len(topics) == 0 {
				warn.Fprintln(w, "  no topics found")
				return nil
			}
			for _, t := range topics {
				fmt.Fprintf(w, "  %s %s\n", brand.Sprint("•"), t.Title)
				for _, s := range t.Subtopics {
					fmt.Fprintf(w, "      %s %s\n", subtle.Sprint("-"), s.Title)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the sidebar as JSON")
	return cmd
}
