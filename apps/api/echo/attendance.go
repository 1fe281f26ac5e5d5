package echoapi

import (
	"net/http"
	"net/mail"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/absensi/core"
	"github.com/sekolahku/absensi/core/attendance"
)

type attendanceApi struct {
	svc      attendance.ServiceInterface
	mailSvc  core.EmailService
	conf     *core.Config
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, deps ServerDeps) {
	api := attendanceApi{
		svc:      deps.AttendanceSvc,
		mailSvc:  deps.MailSvc,
		conf:     deps.Conf,
		validate: deps.Validate,
	}

	ag := g.Group("/attendance")
	ag.POST("", api.create)
	ag.POST("/scan", api.scan)
	ag.GET("", api.forDate)
	ag.GET("/stats", api.stats)
	ag.POST("/report", api.report)

	g.GET("/students/:id/attendance", api.studentHistory)
}

// Handlers

func (api *attendanceApi) create(ctx echo.Context) error {
	var data attendance.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Record(data)
	if err != nil {
		return errors.Wrap(err, "recording attendance")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) scan(ctx echo.Context) error {
	var data ScanRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ScanRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Scan(data.Data, data.ActorID)
	if err != nil {
		return errors.Wrap(err, "processing badge scan")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) forDate(ctx echo.Context) error {
	date, err := dateParam(ctx)
	if err != nil {
		return err
	}
	recs, err := api.svc.RecordsForDate(date)
	if err != nil {
		return errors.Wrap(err, "querying records")
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

func (api *attendanceApi) stats(ctx echo.Context) error {
	date, err := dateParam(ctx)
	if err != nil {
		return err
	}
	st, err := api.svc.Stats(date)
	if err != nil {
		return errors.Wrap(err, "querying statistics")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *attendanceApi) studentHistory(ctx echo.Context) error {
	var limit int
	if raw := ctx.QueryParam("limit"); raw != "" {
		var err error
		if limit, err = strconv.Atoi(raw); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "limit", Error: "must be an integer"})
		}
	}

	recs, err := api.svc.RecordsForStudent(ctx.Param("id"), limit)
	if err != nil {
		return errors.Wrap(err, "querying student history")
	}
	if recs == nil {
		recs = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, recs)
}

// dateParam reads the optional `date` query param, defaulting to today (UTC).
func dateParam(ctx echo.Context) (string, error) {
	date := core.CleanString(ctx.QueryParam("date"))
	if date == "" {
		return time.Now().UTC().Format(attendance.DateLayout), nil
	}
	if _, err := time.Parse(attendance.DateLayout, date); err != nil {
		return "", core.NewValidationError(nil, core.FieldError{Field: "date", Error: "must be formatted as " + attendance.DateLayout})
	}
	return date, nil
}

// report emails the daily recap (text body + CSV attachment) to the
// requested address, defaulting to the configured admin address.
func (api *attendanceApi) report(ctx echo.Context) error {
	var data ReportRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReportRequest")
	}
	if data.Email == "" {
		data.Email = api.conf.AdminEmail
	}
	if data.Date == "" {
		data.Date = time.Now().UTC().Format(attendance.DateLayout)
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	recs, err := api.svc.RecordsForDate(data.Date)
	if err != nil {
		return errors.Wrap(err, "querying records")
	}
	st, err := api.svc.Stats(data.Date)
	if err != nil {
		return errors.Wrap(err, "querying statistics")
	}
	csv, err := attendance.RecapCSV(recs)
	if err != nil {
		return errors.Wrap(err, "rendering recap CSV")
	}

	api.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Address: data.Email}},
		Subject: "Rekap Absensi " + data.Date,
		BodyStr: attendance.FormatRecap(data.Date, recs, st),
		Attachments: []core.Attachment{{
			Content:     csv,
			ContentType: "text/csv",
			Filename:    "rekap-" + data.Date + ".csv",
		}},
	})
	return ctx.JSON(http.StatusAccepted, SuccessResponse{Success: "Recap for " + data.Date + " is being sent to " + data.Email})
}

type (
	ScanRequest struct {
		Data    string `json:"data" validate:"required"`
		ActorID string `json:"actor_id" validate:"required"`
	}

	ReportRequest struct {
		Date  string `json:"date" validate:"required,datetime=2006-01-02"`
		Email string `json:"email" validate:"required,email"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (sr *ScanRequest) Validate(validate *validator.Validate) error {
	sr.Data = core.CleanString(sr.Data)
	sr.ActorID = core.CleanString(sr.ActorID)
	return validate.Struct(sr)
}

func (rr *ReportRequest) Validate(validate *validator.Validate) error {
	rr.Date = core.CleanString(rr.Date)
	rr.Email = core.CleanString(rr.Email, true /* lower */)
	return validate.Struct(rr)
}
