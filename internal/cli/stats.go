package cli

import (
	"fmt"
	"log/slog"

	"github.com/babarot/wardbin/internal/trash"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

type StatsCommand struct{}

type kindStats struct {
	kind    trash.Kind
	label   string
	active  int
	trashed int
}

// Stats prints, per kind, how many records are live in their collection
// and how many sit in the trash
func (c CLI) Stats() error {
	slog.Debug("cli.stats started")
	defer slog.Debug("cli.stats finished")

	rows, err := c.collectStats()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"Kind", "Active", "Trashed"})
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetColumnSeparator("")
	table.SetCenterSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetFooter([]string{"Total",
		fmt.Sprint(lo.SumBy(rows, func(r kindStats) int { return r.active })),
		fmt.Sprint(lo.SumBy(rows, func(r kindStats) int { return r.trashed })),
	})
	table.SetFooterAlignment(tablewriter.ALIGN_LEFT)

	for _, r := range rows {
		table.Append([]string{r.label, fmt.Sprint(r.active), fmt.Sprint(r.trashed)})
	}
	table.Render()
	return nil
}

// collectStats loads every origin collection concurrently
func (c CLI) collectStats() ([]kindStats, error) {
	registry := c.manager.Registry()
	kinds := registry.Kinds()
	rows := make([]kindStats, len(kinds))

	trashed, err := c.manager.Stats()
	if err != nil {
		return nil, err
	}

	var eg errgroup.Group
	for i, k := range kinds {
		eg.Go(func() error {
			strategy, _ := registry.Lookup(k)
			records, err := c.store.Load(strategy.Collection)
			if err != nil {
				return fmt.Errorf("%s: %w", strategy.Collection, err)
			}
			rows[i] = kindStats{
				kind:    k,
				label:   strategy.Label,
				active:  len(records),
				trashed: trashed[k],
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}
