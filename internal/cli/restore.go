package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/babarot/wardbin/internal/session"
	"github.com/babarot/wardbin/internal/trash"
	"github.com/babarot/wardbin/internal/ui"
	"github.com/samber/lo"
)

type RestoreCommand struct {
	Yes bool `short:"y" long:"yes" description:"Do not ask for confirmation"`
}

// Restore puts the given entries back. Without ids the interactive picker
// lets the user choose among the (configured-filtered) trash.
func (c CLI) Restore(args []string) error {
	slog.Debug("cli.restore started")
	defer slog.Debug("cli.restore finished")

	ids := args
	if len(ids) == 0 {
		picked, err := c.pick()
		if err != nil {
			return err
		}
		ids = lo.Map(picked, func(e trash.Entry, _ int) string { return e.ID })
	}
	if len(ids) == 0 {
		return nil
	}

	if c.config.Core.Restore.Confirm && !c.option.Restore.Yes {
		if !c.confirm(fmt.Sprintf("Restore %d record(s)?", len(ids)), false) {
			fmt.Fprintln(c.out, "Restore canceled.")
			return nil
		}
	}

	result, err := c.manager.RestoreMany(ids)
	if c.config.Core.Restore.Verbose {
		for _, e := range result.Restored {
			fmt.Fprintf(c.out, "restored %s '%s' to %s\n", c.kindLabel(e.Kind), e.Name, c.collectionOf(e.Kind))
		}
	}
	fmt.Fprintf(c.out, "%d of %d record(s) restored\n", result.RestoredCount(), len(lo.Uniq(ids)))

	var errs []error
	for _, id := range result.NotFound {
		errs = append(errs, fmt.Errorf("%s: %w", id, trash.ErrNotFound))
	}
	if err != nil {
		errs = append(errs, err)
	}
	return formatErrors(errs)
}

func (c CLI) pick() ([]trash.Entry, error) {
	entries, err := c.manager.List(trash.Filter{Newest: true})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, errors.New("no records in trash")
	}

	var purger ui.Purger
	if session.IsAdmin(c.session) {
		purger = c.manager
	}
	return ui.RenderList(entries, c.kindLabel, purger, c.config.UI)
}

func (c CLI) collectionOf(k trash.Kind) string {
	if s, ok := c.manager.Registry().Lookup(k); ok {
		return s.Collection
	}
	return "?"
}

func confirmPrompt(prompt string, strict bool) bool {
	if strict {
		return ui.ConfirmStrict(prompt)
	}
	return ui.Confirm(prompt)
}
