package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/serdetable/internal/schemas"
	"github.com/JonMunkholm/serdetable/table"
)

const watchDebounce = 200 * time.Millisecond

var (
	parseSchema       string
	parseFormat       string
	parseColumns      []string
	parseAllowUnknown bool
	parseWatch        bool
)

var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Convert a text table into records of a schema",
	Long: `Reads a text table from a file, or stdin when the argument is "-" or
missing, and prints the converted records. Cells are separated by
whitespace; wrap a cell in double quotes to keep its spaces.

The whole table fails on the first bad row; no partial output is written.`,
	Example: `  serdetable parse --schema people people.txt
  printf 'name age city\nBob 30 "New York"\n' | serdetable parse -s people -f table
  serdetable parse -s people --columns name,age,city --watch people.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseSchema, "schema", "s", "", "schema key (see 'serdetable schemas')")
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "", "output format: json, csv or table (default from config)")
	parseCmd.Flags().StringSliceVar(&parseColumns, "columns", nil, "decode positionally with these column names; every row is data")
	parseCmd.Flags().BoolVar(&parseAllowUnknown, "allow-unknown", false, "ignore header columns the schema does not declare")
	parseCmd.Flags().BoolVarP(&parseWatch, "watch", "w", false, "convert again whenever the file changes")
	_ = parseCmd.MarkFlagRequired("schema")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	def, err := schemas.Lookup(parseSchema)
	if err != nil {
		return err
	}

	format := parseFormat
	if format == "" {
		format = cfg.Parse.Format
	}

	var opts []table.Option
	if len(parseColumns) > 0 {
		opts = append(opts, table.WithColumns(parseColumns...))
	}
	if parseAllowUnknown || cfg.Parse.AllowUnknownColumns {
		opts = append(opts, table.AllowUnknownColumns())
	}

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}

	c := &conversion{
		def:    def,
		source: source,
		format: format,
		opts:   opts,
		in:     cmd.InOrStdin(),
		out:    cmd.OutOrStdout(),
	}

	if !parseWatch {
		return c.run()
	}

	if source == "-" {
		return errors.New("--watch needs a file argument")
	}
	return watchFile(cmd.Context(), source, watchDebounce, func() {
		if err := c.run(); err != nil {
			reportError(cmd, err)
		}
	})
}

// conversion is one parse invocation: where the table comes from, how to
// decode it and where the records go.
type conversion struct {
	def    schemas.Definition
	source string
	format string
	opts   []table.Option
	in     io.Reader
	out    io.Writer
}

func (c *conversion) run() error {
	log := slog.With("schema", c.def.Info.Key, "source", c.source)
	start := time.Now()

	t, err := c.read()
	if err != nil {
		return err
	}

	records, n, err := c.def.Parse(t, c.opts...)
	if err != nil {
		log.Debug("conversion failed", "code", table.MapError(err).Code, "error", err)
		return err
	}

	log.Info("table converted",
		"rows", len(t),
		"records", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return writeRecords(c.out, c.format, records)
}

func (c *conversion) read() (table.Table, error) {
	if c.source == "-" {
		t, err := table.Read(c.in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return t, nil
	}

	f, err := os.Open(c.source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := table.Read(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.source, err)
	}
	return t, nil
}
