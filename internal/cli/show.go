package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/k0kubun/pp/v3"
)

type ShowCommand struct {
	Raw bool `long:"raw" description:"Dump the stored payload only"`
}

// Show prints one entry with its full payload
func (c CLI) Show(args []string) error {
	if len(args) != 1 {
		return errors.New("show takes exactly one id")
	}

	entry, err := c.manager.Get(args[0])
	if err != nil {
		return err
	}

	printer := pp.New()
	printer.SetColoringEnabled(!color.NoColor)
	printer.SetOutput(c.out)

	if c.option.Show.Raw {
		_, err = printer.Println(entry.Data)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(c.out, "%s %s\n", bold("ID:"), entry.ID)
	fmt.Fprintf(c.out, "%s %s\n", bold("Kind:"), c.kindLabel(entry.Kind))
	fmt.Fprintf(c.out, "%s %s\n", bold("Name:"), entry.Name)
	fmt.Fprintf(c.out, "%s %s\n", bold("Details:"), entry.Details)
	fmt.Fprintf(c.out, "%s %s\n", bold("Deleted by:"), entry.DeletedBy)
	fmt.Fprintf(c.out, "%s %s (%s)\n", bold("Deleted at:"), entry.DeletedAt.Local().Format("2006-01-02 15:04:05"), c.formatDate(entry.DeletedAt))
	fmt.Fprintf(c.out, "%s\n", bold("Data:"))
	_, err = printer.Println(entry.Data)
	return err
}
