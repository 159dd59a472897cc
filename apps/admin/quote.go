package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/academia/tuition/core/schoolyear"
	"github.com/academia/tuition/core/tuition"
)

func (cli *commandLine) quote(args []string) error {
	quoteCmd := newFlagSet("quote", cli.out)
	income := quoteCmd.String("income", "", "The family's yearly income.")
	optOut := quoteCmd.Bool("optout", false, "The family opted out of the sliding scale.")
	year := quoteCmd.String("year", "", "The school year, eg. 2024-2025. Defaults to the configured scale.")
	comp := newComposition(quoteCmd, 1)

	if err := parseFlags(quoteCmd, args); err != nil {
		return err
	}
	if *income == "" && !*optOut {
		quoteCmd.Usage()
		return errHelp
	}

	req := schoolyear.QuoteRequest{
		Year:     *year,
		OptedOut: *optOut,
		Options:  comp.options(),
	}
	if *income != "" {
		amount, err := strconv.ParseFloat(*income, 64)
		if err != nil {
			return fmt.Errorf("income must be a number (got '%s')", *income)
		}
		req.Income = null.Float64From(amount)
	}
	if err := req.Validate(cli.validate); err != nil {
		return err
	}

	q, err := cli.yearSvc.Quote(context.Background(), req)
	if err != nil {
		return err
	}

	label := q.Year
	if label == "" {
		label = "default scale"
	}
	fmt.Fprintf(cli.out, "Year:      %s\n", label)
	fmt.Fprintf(cli.out, "Students:  %d full-time, %d siblings, %d part-time\n", q.Options.FullTime, q.Options.Siblings, q.Options.PartTime)
	fmt.Fprintf(cli.out, "Base:      %s\n", tuition.FormatCurrency(q.Base))
	fmt.Fprintf(cli.out, "Suggested: %s\n", tuition.FormatCurrency(q.Suggested))
	fmt.Fprintf(cli.out, "Tuition:   %s\n", q.Formatted)
	return nil
}
