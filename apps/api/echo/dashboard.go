package echoapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/services/schoolapi"
)

type dashboardAPI struct {
	svc      *dashboard.Service
	validate *validator.Validate
	trackers *dashboard.Trackers
}

func registerDashboardAPI(g *echo.Group, auth echo.MiddlewareFunc, s *Server) {
	api := dashboardAPI{
		svc:      s.deps.Dashboard,
		validate: s.deps.Validate,
		trackers: s.trackers,
	}

	classes := g.Group("/classes/:id", auth)
	classes.GET("/performance", api.performance)
	classes.GET("/subjects", api.subjects)
	classes.GET("/attendance", api.attendance)
	classes.GET("/trend", api.trend)
	classes.GET("/overview", api.overview)
}

func (api dashboardAPI) performance(ctx echo.Context) error {
	return serveView(ctx, api, "performance", api.svc.ClassPerformance)
}

func (api dashboardAPI) subjects(ctx echo.Context) error {
	return serveView(ctx, api, "subjects", api.svc.SubjectPerformance)
}

func (api dashboardAPI) attendance(ctx echo.Context) error {
	return serveView(ctx, api, "attendance", api.svc.AttendanceOverview)
}

func (api dashboardAPI) trend(ctx echo.Context) error {
	return serveView(ctx, api, "trend", api.svc.ExamTrend)
}

func (api dashboardAPI) overview(ctx echo.Context) error {
	return serveView(ctx, api, "overview", api.svc.ClassOverview)
}

// serveView runs one dashboard pass with the caller's token. A newer request for the
// same view from the same caller cancels this one, which then answers 409.
func serveView[T any](ctx echo.Context, api dashboardAPI, view string, load func(context.Context, dashboard.Query) (T, error)) error {
	q, err := bindClassQuery(ctx, api.validate)
	if err != nil {
		return err
	}

	token := contextToken(ctx)
	caller := token
	if id := contextIdentity(ctx); !id.IsZero() {
		caller = fmt.Sprintf("%d:%s", id.ID, id.Username)
	}
	key := fmt.Sprintf("%s|%s|%d|%d", caller, view, q.ClassID, q.SectionID)

	out, err := dashboard.Track(ctx.Request().Context(), api.trackers.Get(key), func(c context.Context) (T, error) {
		return load(schoolapi.WithToken(c, token), q)
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, out)
}
