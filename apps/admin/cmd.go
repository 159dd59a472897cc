package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/academia/tuition/core"
	"github.com/academia/tuition/core/schoolyear"
	"github.com/academia/tuition/core/tuition"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sql.DB
	yearSvc    *schoolyear.Service
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, ...) against the database")
	fmt.Fprintln(cli.out, "  quote -income N [-optout] [-year NAME] [-full-time N] [-part-time N] [-siblings N] - compute a family's tuition")
	fmt.Fprintln(cli.out, "  table [-year NAME] [-scale FILE.yaml] [-step N] [-full-time N] [-part-time N] [-siblings N] [-xlsx FILE] - print the sliding scale")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "quote":
		return cli.quote(args[2:])
	case "table":
		return cli.table(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// composition registers the student-count flags shared by quote and table.
type composition struct {
	fullTime, partTime, siblings *int
}

func newComposition(fs *flag.FlagSet, defaultFullTime int) composition {
	return composition{
		fullTime: fs.Int("full-time", defaultFullTime, "Number of full-time students."),
		partTime: fs.Int("part-time", 0, "Number of part-time students."),
		siblings: fs.Int("siblings", 0, "Number of additional full-time siblings."),
	}
}

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// parseFlags parses args, reporting -h as errHelp.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (c composition) options() *tuition.Options {
	return &tuition.Options{FullTime: *c.fullTime, PartTime: *c.partTime, Siblings: *c.siblings}
}

// describeError flattens validation errors into "field: message" lines.
func (cli *commandLine) describeError(err error) string {
	var vErr *core.ValidationError
	if errors.As(err, &vErr) && len(vErr.Fields) > 0 {
		lines := make([]string, 0, len(vErr.Fields))
		for field, msg := range vErr.FieldMap() {
			lines = append(lines, field+": "+msg)
		}
		sort.Strings(lines)
		return strings.Join(lines, "\n")
	}
	var fErrs validator.ValidationErrors
	if errors.As(err, &fErrs) {
		lines := make([]string, 0, len(fErrs))
		for _, fe := range fErrs {
			lines = append(lines, fe.Field()+": "+fe.Translate(cli.translator))
		}
		return strings.Join(lines, "\n")
	}
	return err.Error()
}
