package cli

import (
	"errors"
	"fmt"
	"log/slog"
)

type PutCommand struct {
	Kind string `short:"k" long:"kind" description:"Kind of the records (patient, user, department, medicine, lab_test, backup)" required:"yes"`
}

// Put moves each record id from the collection of the given kind into the
// trash. Records are handled one by one; a failure does not stop the rest.
func (c CLI) Put(args []string) error {
	slog.Debug("cli.put started", "args", args)
	defer slog.Debug("cli.put finished")

	if len(args) == 0 {
		return errors.New("too few arguments")
	}

	kind, err := c.manager.Registry().Parse(c.option.Put.Kind)
	if err != nil {
		return err
	}

	var errs []error
	for _, id := range args {
		entry, err := c.manager.DeleteRecord(kind, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(c.out, "moved to trash: %s (%s)\n", entry.Name, entry.ID)
	}
	return formatErrors(errs)
}

// formatErrors renders a batch of failures as one error
func formatErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	msg := fmt.Sprintf("%d errors occurred:\n", len(errs))
	for _, err := range errs {
		msg += fmt.Sprintf("  * %v\n", err)
	}
	return errors.New(msg)
}
