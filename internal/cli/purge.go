package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/babarot/wardbin/internal/session"
	"github.com/babarot/wardbin/internal/utils/log"
)

var ErrAdminOnly = errors.New("emptying the trash requires the admin role")

type PurgeCommand struct {
	Force bool `short:"f" long:"force" description:"Do not ask for confirmation"`
}

type EmptyCommand struct {
	Force bool `short:"f" long:"force" description:"Do not ask for confirmation"`
}

// Purge deletes the given entries permanently
func (c CLI) Purge(args []string) error {
	slog.Debug("cli.purge started", "args", args)
	defer slog.Debug("cli.purge finished")

	if len(args) == 0 {
		return errors.New("too few arguments")
	}

	if c.config.Core.Purge.Confirm && !c.option.Purge.Force {
		prompt := fmt.Sprintf("Permanently delete %d record(s)? This cannot be undone.", len(args))
		if !c.confirm(prompt, false) {
			fmt.Fprintln(c.out, "Purge canceled.")
			return nil
		}
	}

	var errs []error
	for _, id := range args {
		entry, err := c.manager.Purge(id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(c.out, "permanently deleted: %s (%s)\n", entry.Name, entry.ID)
	}
	return formatErrors(errs)
}

// Empty purges the whole ledger. Only admins may do this.
func (c CLI) Empty() error {
	slog.Debug("cli.empty started")
	defer slog.Debug("cli.empty finished")

	if !session.IsAdmin(c.session) {
		return ErrAdminOnly
	}

	stats, err := c.manager.Stats()
	if err != nil {
		return err
	}
	total := 0
	for _, n := range stats {
		total += n
	}
	if total == 0 {
		fmt.Fprintln(c.out, "Trash is already empty.")
		return nil
	}

	if c.config.Core.Purge.Confirm && !c.option.Empty.Force {
		prompt := fmt.Sprintf("Permanently delete all %s record(s) in the trash? Type YES to confirm:",
			log.Highlight(fmt.Sprint(total)))
		if !c.confirm(prompt, true) {
			fmt.Fprintln(c.out, "Empty canceled.")
			return nil
		}
	}

	n, err := c.manager.PurgeAll()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "emptied trash: %d record(s) permanently deleted\n", n)
	return nil
}
