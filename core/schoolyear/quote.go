package schoolyear

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"net/mail"

	"github.com/divan/num2words"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/academia/tuition/core"
	"github.com/academia/tuition/core/tuition"
)

const quoteTemplate = "tuition_quote"

// QuoteRequest holds a family's inputs for a tuition quote.
// The composition comes from Decisions when set, from Options otherwise.
// A null Income means the family opted out of the sliding scale.
type QuoteRequest struct {
	Year      string            `json:"year" validate:"omitempty,schoolyear"`
	Income    null.Float64      `json:"income"`
	OptedOut  bool              `json:"opted_out"`
	Decisions tuition.Decisions `json:"decisions" validate:"decisions"`
	Options   *tuition.Options  `json:"options"`
	Prior     *tuition.Prior    `json:"prior"`
	Override  null.Float64      `json:"override"`
}

func (qr *QuoteRequest) Validate(validate *validator.Validate) error {
	qr.Year = core.CleanString(qr.Year)
	if err := validate.Struct(qr); err != nil {
		return err
	}

	var flds []core.FieldError
	if qr.Income.Valid && !(qr.Income.Float64 >= 0) {
		flds = append(flds, core.FieldError{Field: "income", Error: "must be greater than or equal to 0"})
	}
	if qr.Options != nil && (qr.Options.FullTime < 0 || qr.Options.PartTime < 0 || qr.Options.Siblings < 0) {
		flds = append(flds, core.FieldError{Field: "options", Error: "student counts must be greater than or equal to 0"})
	}
	if qr.Override.Valid && !(qr.Override.Float64 >= 0) {
		flds = append(flds, core.FieldError{Field: "override", Error: "must be greater than or equal to 0"})
	}
	if len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}

func (qr QuoteRequest) income() null.Float64 {
	if qr.OptedOut {
		return null.Float64{}
	}
	return qr.Income
}

func (qr QuoteRequest) options() tuition.Options {
	if qr.Decisions != nil {
		return tuition.CalculateOptions(qr.Decisions)
	}
	if qr.Options != nil {
		return tuition.Options{FullTime: qr.Options.FullTime, PartTime: qr.Options.PartTime, Siblings: qr.Options.Siblings}
	}
	return tuition.Options{FullTime: 1}
}

// Quote is the tuition computed for a family.
type Quote struct {
	Year       string          `json:"year"`
	Options    tuition.Options `json:"options"`
	Base       float64         `json:"base"`      // one full-time student
	Suggested  float64         `json:"suggested"` // the whole family, before the yearly change limit
	Minimum    float64         `json:"minimum"`
	Final      float64         `json:"final"`
	Clamped    bool            `json:"clamped"`
	Overridden bool            `json:"overridden"`
	Formatted  string          `json:"formatted"`
}

// Quote computes a family's tuition for the requested school year.
func (svc *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	settings, err := svc.Resolve(ctx, req.Year)
	if err != nil {
		if err == ErrNotFound {
			return Quote{}, core.NewValidationError(err, core.FieldError{Field: "year", Error: err.Error()})
		}
		return Quote{}, errors.Wrap(err, "resolving school year")
	}
	return computeQuote(settings, req)
}

func computeQuote(settings Settings, req QuoteRequest) (Quote, error) {
	opts := settings.Options(req.options())
	q := Quote{Year: settings.Year, Options: opts}

	// explicit decisions without any attending student owe nothing
	if opts.Students() == 0 && req.Decisions != nil {
		q.Formatted = tuition.FormatCurrency(0)
		return q, nil
	}

	income := req.income()
	q.Base = tuition.ForIncome(income, settings.Options(tuition.Options{FullTime: 1}))
	q.Suggested = tuition.ForIncome(income, opts)
	q.Minimum = tuition.MinimumTuition(income, opts)

	adjusted := tuition.AdjustForPrior(q.Suggested, req.Decisions, opts, req.Prior, settings.MaxChange)
	q.Clamped = adjusted != q.Suggested
	q.Final = math.Round(adjusted)

	if req.Override.Valid {
		floor := q.Minimum
		if req.Prior.Applies(req.Decisions, opts) {
			floor, _ = req.Prior.Band(settings.MaxChange)
		}
		floor = math.Round(floor)
		if req.Override.Float64 < floor {
			msg := fmt.Sprintf("must be at least %s", tuition.FormatCurrency(floor))
			return Quote{}, core.NewValidationError(nil, core.FieldError{Field: "override", Error: msg})
		}
		q.Final = math.Round(req.Override.Float64)
		q.Overridden = true
	}

	q.Formatted = tuition.FormatCurrency(q.Final)
	return q, nil
}

// Table is a year's sliding scale tabulated for a composition.
type Table struct {
	Settings Settings          `json:"settings"`
	Options  tuition.Options   `json:"options"`
	Step     float64           `json:"step"`
	Brackets []tuition.Bracket `json:"brackets"`
}

// Table tabulates the tuition of the named school year every step of income.
func (svc *Service) Table(ctx context.Context, year string, opts tuition.Options, step float64) (Table, error) {
	settings, err := svc.Resolve(ctx, year)
	if err != nil {
		return Table{}, err
	}
	return svc.TableFor(settings, opts, step), nil
}

// TableFor tabulates settings that may not belong to any saved school year.
// A non-positive step falls back to the configured one.
func (svc *Service) TableFor(settings Settings, opts tuition.Options, step float64) Table {
	if !(step > 0) {
		step = svc.conf.Tuition.TableStep
	}
	opts = settings.Options(opts)
	return Table{
		Settings: settings,
		Options:  opts,
		Step:     step,
		Brackets: tuition.Brackets(opts, step),
	}
}

// QuoteEmail asks for a quote to be emailed to a guardian.
type QuoteEmail struct {
	Name    string       `json:"name" validate:"required"`
	Email   string       `json:"email" validate:"required,email"`
	Request QuoteRequest `json:"quote"`
}

func (qe *QuoteEmail) Validate(validate *validator.Validate) error {
	qe.Name = core.CleanString(qe.Name)
	qe.Email = core.CleanString(qe.Email, true /* lower */)
	qe.Request.Year = core.CleanString(qe.Request.Year)
	if err := validate.Struct(qe); err != nil {
		return err
	}

	err := qe.Request.Validate(validate)
	if vErr, ok := err.(*core.ValidationError); ok {
		for i := range vErr.Fields {
			vErr.Fields[i].Field = "quote." + vErr.Fields[i].Field
		}
	}
	return err
}

type quoteEmailData struct {
	Name          string
	AmountInWords string
	Quote         Quote
}

// EmailQuote computes a quote and sends it to the guardian, with the year's
// sliding-scale table attached as a spreadsheet.
func (svc *Service) EmailQuote(ctx context.Context, qe QuoteEmail) (Quote, error) {
	q, err := svc.Quote(ctx, qe.Request)
	if err != nil {
		return Quote{}, err
	}
	table, err := svc.Table(ctx, qe.Request.Year, q.Options, 0)
	if err != nil {
		return Quote{}, errors.Wrap(err, "building table")
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: qe.Name, Address: qe.Email}},
		Subject:      "Your tuition quote",
		TemplateName: quoteTemplate,
		TemplateData: quoteEmailData{
			Name:          qe.Name,
			AmountInWords: num2words.Convert(int(q.Final)),
			Quote:         q,
		},
	}

	var buf bytes.Buffer
	if err := tuition.WriteXLSX(&buf, table.Settings.Year, table.Brackets); err != nil {
		return Quote{}, errors.Wrap(err, "writing table")
	}
	if err := msg.Attach(&buf, TableFilename(table.Settings.Year), tuition.XLSXContentType); err != nil {
		return Quote{}, errors.Wrap(err, "attaching table")
	}

	svc.mailSvc.SendMessages(msg)
	return q, nil
}

// TableFilename names the spreadsheet of a year's table.
func TableFilename(year string) string {
	if year == "" {
		return "tuition.xlsx"
	}
	return "tuition-" + year + ".xlsx"
}
