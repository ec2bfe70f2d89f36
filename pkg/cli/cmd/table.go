package cmd

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/rzbill/signcfg/pkg/cli/format"
	"github.com/rzbill/signcfg/pkg/signing"
)

// Table renders rows with pterm into a writer.
type Table struct {
	Headers []string
	Out     io.Writer

	tableRenderer *pterm.TablePrinter
}

// NewTable creates a table with the cyan bold header style.
func NewTable(out io.Writer, headers ...string) *Table {
	table := pterm.DefaultTable.WithHasHeader(true)
	headerStyle := pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	table = table.WithHeaderStyle(headerStyle)

	return &Table{
		Headers:       headers,
		Out:           out,
		tableRenderer: table,
	}
}

// Render writes rows under the table headers.
func (t *Table) Render(rows [][]string) error {
	data := append([][]string{t.Headers}, rows...)
	out, err := t.tableRenderer.WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(t.Out, out)
	return err
}

// RenderCredentials renders one row per credential key.
func (t *Table) RenderCredentials(c signing.Credentials) error {
	if len(t.Headers) == 0 {
		t.Headers = []string{"KEY", "VALUE"}
	}
	return t.Render([][]string{
		{signing.KeyStoreFile, c.StoreFile},
		{signing.KeyStorePassword, c.StorePassword},
		{signing.KeyKeyAlias, c.KeyAlias},
		{signing.KeyKeyPassword, c.KeyPassword},
	})
}

// checkResult is one line of the check command's report.
type checkResult struct {
	Name   string
	OK     bool
	Detail string
}

// RenderChecks renders a status symbol per check.
func (t *Table) RenderChecks(results []checkResult) error {
	if len(t.Headers) == 0 {
		t.Headers = []string{"", "CHECK", "DETAIL"}
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{format.StatusSymbol(r.OK), r.Name, r.Detail})
	}
	return t.Render(rows)
}
