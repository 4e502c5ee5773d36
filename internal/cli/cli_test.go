package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/serdetable/table"
)

// resetFlags restores package flag variables between runs of rootCmd.
func resetFlags() {
	parseSchema, parseFormat, parseColumns = "", "", nil
	parseAllowUnknown, parseWatch = false, false
	schemasJSON, templateCSV = false, false
	serveHost, servePort = "", 0
	configPath, envFile, logLevel = "", "", ""

	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	for _, name := range []string{"SERDETABLE_CONFIG", "PARSE_FORMAT", "PARSE_ALLOW_UNKNOWN_COLUMNS", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(name, "")
	}
	resetFlags()

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{"--env-file", ""}, args...))
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

const peopleTable = `name age city
Bob 30 "New York"
Alice 25 Paris
`

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, _, err := execute(t, "", "version")

	assert.NoError(t, err)
	assert.Contains(t, out, "serdetable version test-version-1.0.0")
}

func TestSchemasCmd(t *testing.T) {
	out, _, err := execute(t, "", "schemas")

	require.NoError(t, err)
	assert.Contains(t, out, "people")
	assert.Contains(t, out, "name age city")
	assert.Contains(t, out, "price_book")
}

func TestSchemasCmd_JSON(t *testing.T) {
	out, _, err := execute(t, "", "schemas", "--json")
	require.NoError(t, err)

	var infos []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.NotEmpty(t, infos)
}

func TestTemplateCmd(t *testing.T) {
	out, _, err := execute(t, "", "template", "people")
	require.NoError(t, err)
	assert.Equal(t, "name age city\n", out)

	out, _, err = execute(t, "", "template", "accounts", "--csv")
	require.NoError(t, err)
	assert.Equal(t, "id,name,opened,balance,active\n", out)
}

func TestTemplateCmd_UnknownSchema(t *testing.T) {
	_, _, err := execute(t, "", "template", "nope")
	require.Error(t, err)
	assert.Equal(t, "SCH001", table.MapError(err).Code)
}

func TestParseCmd_JSONFromStdin(t *testing.T) {
	out, stderr, err := execute(t, peopleTable, "parse", "--schema", "people")
	require.NoError(t, err)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "New York", records[0]["city"])
	assert.Equal(t, float64(25), records[1]["age"])

	// Logs go to stderr, never mixed into the records.
	assert.Contains(t, stderr, "table converted")
}

func TestParseCmd_CSV(t *testing.T) {
	out, _, err := execute(t, peopleTable, "parse", "-s", "people", "-f", "csv", "-")
	require.NoError(t, err)
	assert.Equal(t, "name,age,city\nBob,30,New York\nAlice,25,Paris\n", out)
}

func TestParseCmd_Table(t *testing.T) {
	out, _, err := execute(t, peopleTable, "parse", "-s", "people", "--format", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "New York")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "city")
}

func TestParseCmd_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.txt")
	require.NoError(t, os.WriteFile(path, []byte(peopleTable), 0o600))

	out, _, err := execute(t, "", "parse", "-s", "people", "-f", "csv", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Bob,30,New York")
}

func TestParseCmd_Columns(t *testing.T) {
	out, _, err := execute(t, "Bob 30 Paris\n", "parse", "-s", "people", "-f", "csv", "--columns", "name,age,city")
	require.NoError(t, err)
	assert.Equal(t, "name,age,city\nBob,30,Paris\n", out)
}

func TestParseCmd_AllowUnknown(t *testing.T) {
	input := "name age city email\nBob 30 Paris b@x\n"

	_, _, err := execute(t, input, "parse", "-s", "people")
	require.Error(t, err)
	assert.Equal(t, "DEC003", table.MapError(err).Code)

	_, _, err = execute(t, input, "parse", "-s", "people", "--allow-unknown")
	assert.NoError(t, err)
}

func TestParseCmd_EmptyInput(t *testing.T) {
	out, _, err := execute(t, "\n\n", "parse", "-s", "people")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestParseCmd_DecodeErrorFailsWholeTable(t *testing.T) {
	out, _, err := execute(t, "name age city\nBob 30 Paris\nEve abc Oslo\n", "parse", "-s", "people")
	require.Error(t, err)
	assert.Empty(t, out, "no partial output")

	var decErr *table.DecodeError
	require.True(t, errors.As(err, &decErr))
	assert.Equal(t, 3, decErr.Row)
}

func TestParseCmd_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing schema flag", []string{"parse"}, `required flag(s) "schema" not set`},
		{"unknown schema", []string{"parse", "-s", "nope"}, "unknown schema"},
		{"bad format", []string{"parse", "-s", "people", "-f", "xml"}, "unknown output format"},
		{"watch needs file", []string{"parse", "-s", "people", "--watch"}, "--watch needs a file"},
		{"missing file", []string{"parse", "-s", "people", "/nonexistent/people.txt"}, "no such file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, peopleTable, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServeCmd_InvalidPort(t *testing.T) {
	_, _, err := execute(t, "", "serve", "--port", "70000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serdetable.toml")
	require.NoError(t, os.WriteFile(path, []byte("[parse]\nformat = \"csv\"\n"), 0o600))

	out, _, err := execute(t, peopleTable, "--config", path, "parse", "-s", "people")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "name,age,city\n"), out)
}

func TestReportError(t *testing.T) {
	_, err := table.Parse[struct {
		Age int `csv:"age"`
	}]("age\nabc")
	require.Error(t, err)

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetErr(&buf)
	reportError(cmd, err)

	assert.Contains(t, buf.String(), "Error: decode row 2")
	assert.Contains(t, buf.String(), "(Code: DEC002)")
}

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.txt")
	require.NoError(t, os.WriteFile(path, []byte(peopleTable), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 10*time.Millisecond, func() { calls <- struct{}{} })
	}()

	waitCall := func(msg string) {
		t.Helper()
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatal(msg)
		}
	}

	waitCall("no initial conversion")

	require.NoError(t, os.WriteFile(path, []byte(peopleTable+"Eve 41 Oslo\n"), 0o600))
	waitCall("no conversion after write")

	// Let any trailing events from the write settle.
	time.Sleep(100 * time.Millisecond)
	for len(calls) > 0 {
		<-calls
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))
	select {
	case <-calls:
		t.Fatal("conversion triggered by an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not return after cancel")
	}
}
