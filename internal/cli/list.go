package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/babarot/wardbin/internal/trash"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

type ListCommand struct {
	Query  string   `short:"q" long:"query" description:"Case-insensitive text matched against name, details and deleted-by"`
	Kinds  []string `short:"k" long:"kind" description:"Only show records of this kind (repeatable)"`
	Age    string   `long:"age" description:"Only show records deleted within this window" default:"all" choice:"all" choice:"today" choice:"week" choice:"month"`
	Newest bool     `long:"newest" description:"Sort by deletion time, newest first"`
	JSON   bool     `long:"json" description:"Print the entries as JSON"`
}

func (c CLI) List() error {
	slog.Debug("cli.list started")
	defer slog.Debug("cli.list finished")

	filter, err := c.listFilter()
	if err != nil {
		return err
	}

	entries, err := c.manager.List(filter)
	if err != nil {
		return err
	}

	if c.option.List.JSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(lo.Ternary(entries == nil, []trash.Entry{}, entries))
	}

	if len(entries) == 0 {
		fmt.Fprintln(c.out, "No records in trash.")
		return nil
	}
	c.printEntries(entries)
	return nil
}

func (c CLI) listFilter() (trash.Filter, error) {
	opt := c.option.List
	age, err := trash.ParseAge(opt.Age)
	if err != nil {
		return trash.Filter{}, err
	}

	kinds := make([]trash.Kind, 0, len(opt.Kinds))
	for _, s := range opt.Kinds {
		k, err := c.manager.Registry().Parse(s)
		if err != nil {
			return trash.Filter{}, err
		}
		kinds = append(kinds, k)
	}

	return trash.Filter{
		Query:  opt.Query,
		Kinds:  kinds,
		Age:    age,
		Newest: opt.Newest,
	}, nil
}

func (c CLI) printEntries(entries []trash.Entry) {
	green := color.New(color.FgHiGreen).SprintFunc()

	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"ID", "Kind", "Name", "Details", "Deleted By", "Deleted"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	for _, e := range entries {
		table.Append([]string{
			green(e.ID),
			c.kindLabel(e.Kind),
			e.Name,
			e.Details,
			e.DeletedBy,
			c.formatDate(e.DeletedAt),
		})
	}
	table.Render()
}

func (c CLI) kindLabel(k trash.Kind) string {
	if s, ok := c.manager.Registry().Lookup(k); ok {
		return s.Label
	}
	return string(k)
}

func (c CLI) formatDate(t time.Time) string {
	if c.config.UI.DateFormat == "absolute" {
		return t.Local().Format(time.DateTime)
	}
	return humanize.Time(t)
}
