package echoapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/sekolahku/absensi/core"
	"github.com/sekolahku/absensi/core/attendance"
	"github.com/sekolahku/absensi/core/roster"
	emailsvc "github.com/sekolahku/absensi/services/email"
	inmemdoc "github.com/sekolahku/absensi/storage/document/inmem"
)

type testLogger struct{}

func (testLogger) Enable(bool)                  {}
func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

func setup(t *testing.T) (Server, roster.ServiceInterface) {
	t.Helper()

	conf := &core.Config{
		TestMode:         true,
		AppName:          "Absensi",
		AdminEmail:       "admin@sekolah.sch.id",
		DefaultFromName:  "Absensi",
		DefaultFromEmail: "noreply@localhost",
	}

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	roster.InitValidators(validate, translator)
	attendance.InitValidators(validate, translator)

	store := inmemdoc.Open()
	rosterSvc := roster.NewService(store)

	server := NewServer(ServerDeps{
		Conf:          conf,
		Logger:        testLogger{},
		AttendanceSvc: attendance.NewService(store, rosterSvc),
		RosterSvc:     rosterSvc,
		MailSvc:       emailsvc.NewConsoleServiceMock(conf),
		Validate:      validate,
		Translator:    translator,
	})
	return server, rosterSvc
}

func request(server Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func registerStudent(t *testing.T, svc roster.ServiceInterface, uname, name, kelas string) roster.Student {
	t.Helper()
	std, err := svc.Register(roster.NewStudent{
		Username: uname,
		FullName: name,
		Kelas:    kelas,
		Password: "kudaHijau99",
	})
	if err != nil {
		t.Fatalf("registerStudent(%s) failed: %v", uname, err)
	}
	return std
}

func today() string {
	return time.Now().UTC().Format(attendance.DateLayout)
}

func Test_home(t *testing.T) {
	server, _ := setup(t)

	rec := request(server, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Absensi API!", rec.Body.String())
}

func Test_rosterApi_register(t *testing.T) {
	server, _ := setup(t)

	body := echo.Map{
		"username":         "budi",
		"fullName":         "Budi Santoso",
		"kelas":            "10A",
		"email":            "budi@sekolah.sch.id",
		"password":         "kudaHijau99",
		"password_confirm": "kudaHijau99",
	}
	rec := request(server, http.MethodPost, "/v1/students", body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var std roster.Student
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &std))
	assert.Equal(t, "1", std.ID)
	assert.Equal(t, "budi", std.Username)
	assert.NotContains(t, rec.Body.String(), "password")

	// duplicate username
	rec = request(server, http.MethodPost, "/v1/students", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username")

	// invalid payload: kelas carries the badge delimiter
	body["username"] = "siti"
	body["kelas"] = "XI-IPA"
	rec = request(server, http.MethodPost, "/v1/students", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "kelas")
}

func Test_rosterApi_allGrouped(t *testing.T) {
	server, rosterSvc := setup(t)
	registerStudent(t, rosterSvc, "siti", "Siti Rahma", "10A")
	registerStudent(t, rosterSvc, "budi", "Budi Santoso", "10A")
	registerStudent(t, rosterSvc, "agus", "Agus Wijaya", "11B")

	rec := request(server, http.MethodGet, "/v1/students", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp GroupedStudentsResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"10A", "11B"}, resp.KelasList)
	assert.Len(t, resp.Students["10A"], 2)
	assert.Equal(t, "Budi Santoso", resp.Students["10A"][0].FullName)
	assert.NotContains(t, rec.Body.String(), "password")
}

func Test_rosterApi_generateBadges(t *testing.T) {
	server, rosterSvc := setup(t)
	registerStudent(t, rosterSvc, "budi", "Budi Santoso", "10A")
	registerStudent(t, rosterSvc, "siti", "Siti Rahma", "11B")

	rec := request(server, http.MethodPost, "/v1/students/badges", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateBadgesResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Generated)

	// idempotent: nothing left to generate
	rec = request(server, http.MethodPost, "/v1/students/badges", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Generated)
}

func Test_attendanceApi_create(t *testing.T) {
	server, rosterSvc := setup(t)
	std := registerStudent(t, rosterSvc, "budi", "Budi Santoso", "10A")

	body := echo.Map{
		"student_id": std.ID,
		"kelas":      "10A",
		"status":     "sakit",
		"actor_id":   "guru-1",
		"note":       "flu",
	}
	rec := request(server, http.MethodPost, "/v1/attendance", body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var record attendance.Record
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, attendance.RecordID(today(), std.ID), record.ID)
	assert.Equal(t, attendance.StatusSick, record.Status)
	assert.Equal(t, attendance.ScanMethodManual, record.ScanMethod)
	assert.Equal(t, "flu", record.Note)

	// manual path overwrites, so a second post is not a conflict
	body["status"] = "hadir"
	rec = request(server, http.MethodPost, "/v1/attendance", body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// invalid status
	body["status"] = "bolos"
	rec = request(server, http.MethodPost, "/v1/attendance", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "status")

	// unknown student
	body["status"] = "hadir"
	body["student_id"] = "99"
	rec = request(server, http.MethodPost, "/v1/attendance", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func Test_attendanceApi_scan(t *testing.T) {
	server, rosterSvc := setup(t)
	std := registerStudent(t, rosterSvc, "budi", "Budi Santoso", "10A")

	body := echo.Map{"data": fmt.Sprintf("SMK-%s-10A", std.ID), "actor_id": "guru-1"}
	rec := request(server, http.MethodPost, "/v1/attendance/scan", body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var record attendance.Record
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, attendance.StatusPresent, record.Status)
	assert.Equal(t, attendance.ScanMethodBarcode, record.ScanMethod)

	// double scan
	rec = request(server, http.MethodPost, "/v1/attendance/scan", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// malformed payload
	rec = request(server, http.MethodPost, "/v1/attendance/scan", echo.Map{"data": "SMK-1", "actor_id": "guru-1"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// missing actor
	rec = request(server, http.MethodPost, "/v1/attendance/scan", echo.Map{"data": "SMK-1-10A"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_attendanceApi_forDateAndStats(t *testing.T) {
	server, rosterSvc := setup(t)
	std := registerStudent(t, rosterSvc, "budi", "Budi Santoso", "10A")

	rec := request(server, http.MethodPost, "/v1/attendance/scan", echo.Map{"data": "SMK-" + std.ID + "-10A", "actor_id": "guru-1"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = request(server, http.MethodGet, "/v1/attendance?date="+today(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var records []attendance.Record
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 1)

	// date defaults to today
	rec = request(server, http.MethodGet, "/v1/attendance", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 1)

	// empty day returns an empty list, not null
	rec = request(server, http.MethodGet, "/v1/attendance?date=2020-01-01", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	// malformed date
	rec = request(server, http.MethodGet, "/v1/attendance?date=01/02/2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(server, http.MethodGet, "/v1/attendance/stats?date="+today(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var st attendance.DailyStats
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, attendance.DailyStats{Total: 1, Present: 1}, st)
}

func Test_attendanceApi_studentHistory(t *testing.T) {
	server, rosterSvc := setup(t)
	std := registerStudent(t, rosterSvc, "budi", "Budi Santoso", "10A")

	rec := request(server, http.MethodPost, "/v1/attendance", echo.Map{
		"student_id": std.ID, "kelas": "10A", "status": "hadir", "actor_id": "guru-1",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = request(server, http.MethodGet, "/v1/students/"+std.ID+"/attendance", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var records []attendance.Record
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	assert.Len(t, records, 1)

	// unknown student has an empty history
	rec = request(server, http.MethodGet, "/v1/students/99/attendance", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())

	// non-integer limit
	rec = request(server, http.MethodGet, "/v1/students/"+std.ID+"/attendance?limit=lol", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func Test_attendanceApi_report(t *testing.T) {
	server, rosterSvc := setup(t)
	std := registerStudent(t, rosterSvc, "budi", "Budi Santoso", "10A")

	rec := request(server, http.MethodPost, "/v1/attendance/scan", echo.Map{"data": "SMK-" + std.ID + "-10A", "actor_id": "guru-1"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	sentBefore := len(emailsvc.SentMessages)
	rec = request(server, http.MethodPost, "/v1/attendance/report", echo.Map{"email": "kepsek@sekolah.sch.id"})
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "kepsek@sekolah.sch.id")

	assert.Len(t, emailsvc.SentMessages, sentBefore+1)
	msg := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	assert.Equal(t, "Rekap Absensi "+today(), msg.Subject)
	assert.Contains(t, msg.BodyStr, "Budi Santoso")
	assert.Len(t, msg.Attachments, 1)
	assert.Equal(t, "text/csv", msg.Attachments[0].ContentType)

	// email defaults to the configured admin address
	rec = request(server, http.MethodPost, "/v1/attendance/report", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin@sekolah.sch.id")

	// malformed date
	rec = request(server, http.MethodPost, "/v1/attendance/report", echo.Map{"date": "lol"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
