package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/academia/tuition/core/schoolyear"
)

var errYearNotFoundInCtx = errors.New("school year object not found in echo.Context")

const contextObjectKey = "object"

type schoolYearApi struct {
	svc      *schoolyear.Service
	validate *validator.Validate
}

func registerSchoolYearAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *schoolyear.Service, validate *validator.Validate) {
	api := schoolYearApi{
		svc:      svc,
		validate: validate,
	}

	yg := g.Group("/years")
	yg.GET("", api.query)
	yg.POST("", api.create, jwt, adminMiddleware)

	// detail endpoints
	yg.GET("/:id", api.retrieve, api.objectMiddleware)
	yg.PUT("/:id", api.update, jwt, adminMiddleware, api.objectMiddleware)
	yg.DELETE("/:id", api.destroy, jwt, adminMiddleware, api.objectMiddleware)
}

// Handlers

func (api *schoolYearApi) create(ctx echo.Context) error {
	var data schoolyear.NewSchoolYear
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchoolYear")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	sy, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating school year")
	}
	return ctx.JSON(http.StatusCreated, sy)
}

func (api *schoolYearApi) query(ctx echo.Context) error {
	filter := new(schoolyear.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []schoolyear.SchoolYear{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	years, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying school years")
	}
	if years == nil {
		years = []schoolyear.SchoolYear{}
	}
	return ctx.JSON(http.StatusOK, years)
}

func (api *schoolYearApi) retrieve(ctx echo.Context) error {
	sy, ok := ctx.Get(contextObjectKey).(schoolyear.SchoolYear)
	if !ok {
		return errors.Wrap(errYearNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, sy)
}

func (api *schoolYearApi) update(ctx echo.Context) error {
	sy, ok := ctx.Get(contextObjectKey).(schoolyear.SchoolYear)
	if !ok {
		return errors.Wrap(errYearNotFoundInCtx, "retrieving object from context")
	}

	var data schoolyear.UpdateSchoolYear
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSchoolYear")
	}
	if err := data.Validate(ctx.Request().Context(), sy, api.validate, api.svc); err != nil {
		return err
	}

	sy, err := api.svc.Update(ctx.Request().Context(), sy.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating school year")
	}
	return ctx.JSON(http.StatusOK, sy)
}

func (api *schoolYearApi) destroy(ctx echo.Context) error {
	sy, ok := ctx.Get(contextObjectKey).(schoolyear.SchoolYear)
	if !ok {
		return errors.Wrap(errYearNotFoundInCtx, "retrieving object from context")
	}
	if err := api.svc.Delete(ctx.Request().Context(), sy.ID); err != nil {
		return errors.Wrap(err, "deleting school year")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// objectMiddleware loads the school year named by the :id path parameter.
func (api *schoolYearApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sy, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			if errors.Cause(err) == schoolyear.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding school year by ID")
		}
		ctx.Set(contextObjectKey, sy)
		return next(ctx)
	}
}
