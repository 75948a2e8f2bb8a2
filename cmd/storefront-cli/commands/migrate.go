package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"storefront/internal/migrate"
)

var legacyDir string

// migrateCmd imports legacy section documents
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import legacy JSON section documents",
	Long: `Import the legacy per-section JSON documents into the configured store.

Sections that already hold cards are skipped, so running it twice is safe.

Examples:
  storefront-cli migrate                     # use storage.legacy_dir
  storefront-cli migrate --dir ./old-data    # import from another directory`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		dir := legacyDir
		if dir == "" {
			dir = a.cfg.Storage.LegacyDir
		}
		results, err := migrate.Run(cmd.Context(), a.sections, dir, a.log)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SECTION\tIMPORTED\tNOTE")
		for _, r := range results {
			fmt.Fprintf(w, "%s\t%t\t%s\n", r.Section, r.Imported, r.Reason)
		}
		return w.Flush()
	},
}

func init() {
	migrateCmd.Flags().StringVar(&legacyDir, "dir", "", "directory holding the legacy JSON files")
	rootCmd.AddCommand(migrateCmd)
}
