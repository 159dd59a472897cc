package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/academia/tuition/core/schoolyear"
	"github.com/academia/tuition/core/tuition"
)

func (cli *commandLine) table(args []string) error {
	tableCmd := newFlagSet("table", cli.out)
	year := tableCmd.String("year", "", "The school year, eg. 2024-2025. Defaults to the configured scale.")
	scaleFile := tableCmd.String("scale", "", "A YAML file holding a scale to try out instead of a school year's.")
	step := tableCmd.Float64("step", 0, "The income step between rows. Defaults to the configured step.")
	xlsxFile := tableCmd.String("xlsx", "", "Write the table to this spreadsheet instead of printing it.")
	comp := newComposition(tableCmd, 1)

	if err := parseFlags(tableCmd, args); err != nil {
		return err
	}
	if *year != "" && *scaleFile != "" {
		tableCmd.Usage()
		return errHelp
	}

	var table schoolyear.Table
	var err error
	if *scaleFile != "" {
		table, err = cli.scaleTable(*scaleFile, *comp.options(), *step)
	} else {
		table, err = cli.yearSvc.Table(context.Background(), *year, *comp.options(), *step)
	}
	if err != nil {
		return err
	}

	if *xlsxFile != "" {
		return writeXLSXFile(*xlsxFile, table)
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Income\tTuition\t")
	for _, b := range table.Brackets {
		fmt.Fprintf(w, "%s\t%s\t\n", tuition.FormatCurrency(b.Income), b.Formatted)
	}
	return w.Flush()
}

// scaleTable tabulates a scale read from a YAML file, eg.
//
//	min_income: 28000
//	max_income: 120000
//	min_tuition: 1000
//	max_tuition: 12500
//	steepness: 1.56
//
// Omitted bounds fall back to the configured defaults.
func (cli *commandLine) scaleTable(path string, opts tuition.Options, step float64) (schoolyear.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schoolyear.Table{}, errors.Wrap(err, "reading scale")
	}
	var scale tuition.Scale
	if err = yaml.Unmarshal(data, &scale); err != nil {
		return schoolyear.Table{}, errors.Wrap(err, "parsing scale")
	}

	settings := cli.yearSvc.Defaults()
	settings.Scale = scale.Or(settings.Scale)
	if err = settings.Validate(); err != nil {
		return schoolyear.Table{}, err
	}
	return cli.yearSvc.TableFor(settings, opts, step), nil
}

func writeXLSXFile(path string, table schoolyear.Table) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating spreadsheet")
	}
	defer func() {
		if cErr := f.Close(); err == nil {
			err = cErr
		}
	}()
	return tuition.WriteXLSX(f, table.Settings.Year, table.Brackets)
}
