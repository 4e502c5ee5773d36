package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/serdetable/internal/schemas"
	"github.com/JonMunkholm/serdetable/table"
)

var templateCSV bool

var templateCmd = &cobra.Command{
	Use:   "template <schema>",
	Short: "Print a header-only table for a schema",
	Long: `Prints the header row of a schema as a text table, ready to have rows
appended and be fed back to 'serdetable parse'.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplate,
}

func init() {
	templateCmd.Flags().BoolVar(&templateCSV, "csv", false, "print the header comma-delimited")
	rootCmd.AddCommand(templateCmd)
}

func runTemplate(cmd *cobra.Command, args []string) error {
	def, err := schemas.Lookup(args[0])
	if err != nil {
		return err
	}

	t := schemas.Template(def)
	if templateCSV {
		data, err := table.Encode(t)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return err
}
