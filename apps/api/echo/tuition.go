package echoapi

import (
	"bytes"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academia/tuition/core"
	"github.com/academia/tuition/core/schoolyear"
	"github.com/academia/tuition/core/tuition"
)

type tuitionApi struct {
	svc      *schoolyear.Service
	validate *validator.Validate
}

func registerTuitionAPI(g *echo.Group, svc *schoolyear.Service, validate *validator.Validate) {
	api := tuitionApi{
		svc:      svc,
		validate: validate,
	}

	tg := g.Group("/tuition")
	tg.GET("/defaults", api.defaults)
	tg.POST("/options", api.options)
	tg.POST("/quote", api.quote)
	// TODO: rate limit `/quote/email`
	tg.POST("/quote/email", api.emailQuote)
	tg.GET("/table", api.table)
}

// Handlers

func (api *tuitionApi) defaults(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Defaults())
}

func (api *tuitionApi) options(ctx echo.Context) error {
	var data OptionsRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to OptionsRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, tuition.CalculateOptions(data.Decisions))
}

func (api *tuitionApi) quote(ctx echo.Context) error {
	var data schoolyear.QuoteRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuoteRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	q, err := api.svc.Quote(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "computing quote")
	}
	return ctx.JSON(http.StatusOK, q)
}

func (api *tuitionApi) emailQuote(ctx echo.Context) error {
	var data schoolyear.QuoteEmail
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to QuoteEmail")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	q, err := api.svc.EmailQuote(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "emailing quote")
	}
	return ctx.JSON(http.StatusAccepted, q)
}

func (api *tuitionApi) table(ctx echo.Context) error {
	var query TableRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to TableRequest")
	}
	if err := query.Validate(api.validate); err != nil {
		return err
	}

	table, err := api.svc.Table(ctx.Request().Context(), query.Year, query.options(), query.Step)
	if err != nil {
		if errors.Cause(err) == schoolyear.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building table")
	}

	if query.Format == "xlsx" {
		var buf bytes.Buffer
		if err := tuition.WriteXLSX(&buf, table.Settings.Year, table.Brackets); err != nil {
			return errors.Wrap(err, "writing table")
		}
		ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+schoolyear.TableFilename(table.Settings.Year)+`"`)
		return ctx.Blob(http.StatusOK, tuition.XLSXContentType, buf.Bytes())
	}
	return ctx.JSON(http.StatusOK, table)
}

type (
	OptionsRequest struct {
		Decisions tuition.Decisions `json:"decisions" validate:"decisions"`
	}

	TableRequest struct {
		Year     string  `json:"year" query:"year" validate:"omitempty,schoolyear"`
		Step     float64 `json:"step" query:"step" validate:"gte=0"`
		FullTime int     `json:"full_time" query:"full_time" validate:"gte=0"`
		PartTime int     `json:"part_time" query:"part_time" validate:"gte=0"`
		Siblings int     `json:"siblings" query:"siblings" validate:"gte=0"`
		Format   string  `json:"format" query:"format" validate:"omitempty,oneof=json xlsx"`
	}
)

func (tr *TableRequest) Validate(validate *validator.Validate) error {
	tr.Year = core.CleanString(tr.Year)
	tr.Format = core.CleanString(tr.Format, true /* lower */)
	return validate.Struct(tr)
}

func (tr TableRequest) options() tuition.Options {
	return tuition.Options{FullTime: tr.FullTime, PartTime: tr.PartTime, Siblings: tr.Siblings}
}
