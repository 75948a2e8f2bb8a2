package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/internal/catalog"
)

// sectionsCmd lists the registered sections
var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List sections with their card counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SECTION\tALIASES\tCAP\tSTOCK\tCARDS\tTITLE")
		for _, sch := range catalog.All() {
			v, err := a.sections.Read(cmd.Context(), sch)
			if err != nil {
				return fmt.Errorf("read %s: %w", sch.Key, err)
			}
			aliases := strings.Join(sch.Aliases, ",")
			if aliases == "" {
				aliases = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%t\t%d\t%s\n", sch.Key, aliases, sch.Cap, sch.Stock, len(v.Cards), v.Title)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
