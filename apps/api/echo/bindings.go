package echoapi

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/core/school"
)

type classQuery struct {
	SectionID int    `query:"section_id" validate:"omitempty,gt=0"`
	From      string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To        string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// bindClassQuery reads the class id path param and the query string into a dashboard.Query.
func bindClassQuery(ctx echo.Context, validate *validator.Validate) (dashboard.Query, error) {
	classID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || classID <= 0 {
		return dashboard.Query{}, core.NewValidationError(nil, core.FieldError{Field: "id", Error: "must be a positive integer"})
	}

	var cq classQuery
	if err := ctx.Bind(&cq); err != nil {
		return dashboard.Query{}, core.NewValidationError(errors.New("invalid query params"))
	}
	if err := validate.Struct(cq); err != nil {
		return dashboard.Query{}, err
	}

	q := dashboard.Query{ClassID: classID, SectionID: cq.SectionID}
	if q.From, err = parseDay(cq.From); err != nil {
		return dashboard.Query{}, err
	}
	if q.To, err = parseDay(cq.To); err != nil {
		return dashboard.Query{}, err
	}
	if !q.From.IsZero() && !q.To.IsZero() && q.To.Before(q.From) {
		return dashboard.Query{}, core.NewValidationError(nil, core.FieldError{Field: "to", Error: "must not be before from"})
	}
	return q, nil
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	d, err := school.ParseDate(s)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "parsing date")
	}
	return d.Time, nil
}
