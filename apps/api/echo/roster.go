package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sekolahku/absensi/core/roster"
)

type rosterApi struct {
	svc      roster.ServiceInterface
	validate *validator.Validate
}

func registerRosterAPI(g *echo.Group, svc roster.ServiceInterface, validate *validator.Validate) {
	api := rosterApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/students")
	sg.POST("", api.register)
	sg.GET("", api.allGrouped)
	sg.POST("/badges", api.generateBadges)
}

// Handlers

func (api *rosterApi) register(ctx echo.Context) error {
	var data roster.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	std, err := api.svc.Register(data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	std.PasswordHash = ""
	return ctx.JSON(http.StatusCreated, std)
}

func (api *rosterApi) allGrouped(ctx echo.Context) error {
	grouped, kelasList, err := api.svc.AllGroupedByClass()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}

	// password hashes stay out of API responses
	for kelas, students := range grouped {
		for i := range students {
			students[i].PasswordHash = ""
		}
		grouped[kelas] = students
	}
	if kelasList == nil {
		kelasList = []string{}
	}
	return ctx.JSON(http.StatusOK, GroupedStudentsResponse{KelasList: kelasList, Students: grouped})
}

func (api *rosterApi) generateBadges(ctx echo.Context) error {
	n, err := api.svc.GenerateBadges()
	if err != nil {
		return errors.Wrap(err, "generating badges")
	}
	return ctx.JSON(http.StatusOK, GenerateBadgesResponse{Generated: n})
}

type (
	GroupedStudentsResponse struct {
		KelasList []string                    `json:"kelas_list"`
		Students  map[string][]roster.Student `json:"students"`
	}

	GenerateBadgesResponse struct {
		Generated int `json:"generated"`
	}
)
