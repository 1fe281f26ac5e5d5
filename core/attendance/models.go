package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/sekolahku/absensi/core"
)

// DateLayout is the calendar-day format used throughout the ledger.
const DateLayout = "2006-01-02"

// Status is the closed set of attendance statuses. The values are the wire
// literals persisted in the absensi document.
type Status string

const (
	StatusPresent    Status = "hadir"
	StatusSick       Status = "sakit"
	StatusPermission Status = "izin"
	StatusAbsent     Status = "alpha"
)

var AllStatuses = []Status{StatusPresent, StatusSick, StatusPermission, StatusAbsent}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusSick, StatusPermission, StatusAbsent:
		return true
	}
	return false
}

// ScanMethod records how an attendance entry was produced.
type ScanMethod string

const (
	ScanMethodManual  ScanMethod = "manual"
	ScanMethodBarcode ScanMethod = "barcode"
)

// Record is a single per-day, per-student attendance entry.
//
// StudentName and Kelas are value snapshots taken at write time; they are
// never re-resolved against the roster, so records stay meaningful after a
// student is renamed or transferred.
type Record struct {
	ID          string     `json:"id"` // "<date>_<studentID>"
	Date        string     `json:"date"`
	StudentID   string     `json:"studentId"`
	StudentName string     `json:"studentName"`
	Kelas       string     `json:"kelas"`
	Status      Status     `json:"status"`
	Timestamp   time.Time  `json:"timestamp"` // UTC
	ActorID     string     `json:"guruId"`
	ScanMethod  ScanMethod `json:"scanMethod"`
	Note        string     `json:"keterangan,omitempty"`
}

// RecordID is the canonical record identifier. Deriving it from the
// (date, studentID) pair guarantees at most one record per student per day.
func RecordID(date, studentID string) string {
	return date + "_" + studentID
}

// DailyStats holds the derived per-day counts. Total always equals the sum
// of the per-status counts and the number of records for the day.
type DailyStats struct {
	Total      int `json:"total"`
	Present    int `json:"hadir"`
	Sick       int `json:"sakit"`
	Permission int `json:"izin"`
	Absent     int `json:"alpha"`
}

// Document is the persisted shape of the absensi document.
type Document struct {
	Records    []Record              `json:"records"`
	Statistics map[string]DailyStats `json:"statistics"`
}

// NewAttendance contains information needed to record attendance manually.
type NewAttendance struct {
	StudentID string `json:"student_id" validate:"required"`
	Kelas     string `json:"kelas" validate:"required"`
	Status    Status `json:"status" validate:"required,status"`
	ActorID   string `json:"actor_id" validate:"required"`
	Note      string `json:"note"`
	Date      string `json:"date" validate:"omitempty,datetime=2006-01-02"` // defaults to today
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	na.StudentID = core.CleanString(na.StudentID)
	na.Kelas = core.CleanString(na.Kelas)
	na.ActorID = core.CleanString(na.ActorID)
	na.Note = core.CleanString(na.Note)
	na.Date = core.CleanString(na.Date)
	return validate.Struct(na)
}
