package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/babarot/wardbin/internal/utils/duration"
)

var (
	ErrInvalidArgument = errors.New("prune requires a duration argument (e.g., 30d, \"2 weeks\")")
)

type PruneCommand struct {
	DryRun bool `short:"n" long:"dry-run" description:"Only show what would be purged"`
}

// Prune purges every entry that has been in the trash longer than the
// given duration
func (c CLI) Prune(args []string) error {
	slog.Debug("pruning trash contents started")
	defer slog.Debug("pruning trash contents finished")

	if len(args) == 0 {
		return ErrInvalidArgument
	}

	d, err := duration.Parse(strings.Join(args, " "))
	if err == nil && d <= 0 {
		err = errors.New("duration must be positive")
	}
	if err != nil {
		slog.Error("failed to parse duration", "error", err)
		return fmt.Errorf("unknown prune arguments: %s", strings.Join(args, " "))
	}
	slog.Debug("parse duration", "duration", d, "args", args)

	if c.option.Prune.DryRun {
		entries, err := c.manager.Expired(d)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(c.out, "Nothing to prune.")
			return nil
		}
		c.printEntries(entries)
		return nil
	}

	pruned, err := c.manager.Prune(d)
	if err != nil {
		return err
	}
	if len(pruned) == 0 {
		fmt.Fprintln(c.out, "Nothing to prune.")
		return nil
	}
	fmt.Fprintf(c.out, "Pruned %d record(s).\n", len(pruned))
	return nil
}
