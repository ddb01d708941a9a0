package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

type LogCommand struct {
	Limit int `short:"n" long:"limit" description:"Number of entries to show (0 for all)" default:"20"`
}

// Log prints the activity log, most recent first
func (c CLI) Log() error {
	entries, err := c.audit.List(c.option.Log.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No activity recorded.")
		return nil
	}

	yellow := color.New(color.FgYellow).SprintFunc()

	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"When", "Action", "User", "Details"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, e := range entries {
		table.Append([]string{c.formatDate(e.Timestamp), yellow(e.Action), e.User, e.Details})
	}
	table.Render()
	return nil
}
