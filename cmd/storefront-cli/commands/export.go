package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"storefront/internal/catalog"
)

var exportOut string

// exportCmd prints canonical section views
var exportCmd = &cobra.Command{
	Use:   "export [section...]",
	Short: "Print canonical section views as JSON",
	Long: `Print what GET /api/{section} would answer, for the named sections or for
all of them. The output is an object keyed by section.

Examples:
  storefront-cli export                       # every section
  storefront-cli export trending blogs        # two sections
  storefront-cli export --out backup.json     # write to a file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		schemas := catalog.All()
		if len(args) > 0 {
			schemas = schemas[:0]
			for _, name := range args {
				sch, ok := catalog.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown section %q", name)
				}
				schemas = append(schemas, sch)
			}
		}

		a, err := openApp(cmd.Context(), cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := make(map[string]catalog.View, len(schemas))
		for _, sch := range schemas {
			v, err := a.sections.Read(cmd.Context(), sch)
			if err != nil {
				return fmt.Errorf("read %s: %w", sch.Key, err)
			}
			out[sch.Key] = v
		}

		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		b = append(b, '\n')

		if strings.TrimSpace(exportOut) != "" {
			if err := os.WriteFile(exportOut, b, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d sections to %s\n", len(out), exportOut)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
