package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/bibwalk/format"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-10s %-6s %-12s %s\n", "Name", "Mode", "Extensions", "Description")
		for _, name := range format.List() {
			f, _ := format.Get(name)
			fmt.Fprintf(out, "%-10s %-6s %-12s %s\n",
				name, capability(f), strings.Join(f.Extensions(), ","), f.Description())
		}
		return nil
	},
}

// capability reports whether f reads ("r"), writes ("w") or both.
func capability(f format.Format) string {
	mode := ""
	if _, ok := f.(format.Parser); ok {
		mode += "r"
	}
	if _, ok := f.(format.Serializer); ok {
		mode += "w"
	}
	return mode
}
