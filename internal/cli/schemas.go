package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/serdetable/internal/schemas"
)

var schemasJSON bool

var schemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List the schemas tables can be converted into",
	Args:  cobra.NoArgs,
	RunE:  runSchemas,
}

func init() {
	schemasCmd.Flags().BoolVar(&schemasJSON, "json", false, "output schemas as JSON")
	rootCmd.AddCommand(schemasCmd)
}

func runSchemas(cmd *cobra.Command, _ []string) error {
	defs := schemas.All()
	out := cmd.OutOrStdout()

	if schemasJSON {
		infos := make([]schemas.Info, len(defs))
		for i, def := range defs {
			infos[i] = def.Info
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	rows := [][]string{{"KEY", "GROUP", "LABEL", "COLUMNS"}}
	for _, def := range defs {
		rows = append(rows, []string{
			def.Info.Key,
			def.Info.Group,
			def.Info.Label,
			strings.Join(def.Info.Columns, " "),
		})
	}
	_, err := out.Write([]byte(renderGrid(rows) + "\n"))
	return err
}
