package attendance

import (
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sekolahku/absensi/core"
	"github.com/sekolahku/absensi/core/badge"
	"github.com/sekolahku/absensi/core/roster"
)

// DocumentName is the logical name of the absensi document.
const DocumentName = "absensi"

var (
	// errors
	ErrAlreadyRecorded = errors.New("student already checked in today")
	ErrInvalidStatus   = errors.New("invalid attendance status")
)

type (
	// Roster is the read-only roster collaborator the ledger validates
	// students against.
	Roster interface {
		Lookup(id, kelas string) (roster.Student, error)
	}

	ServiceInterface interface {
		Record(na NewAttendance) (Record, error)
		Scan(raw, actorID string) (Record, error)
		CheckIn(b badge.Badge, actorID string) (Record, error)
		RecordsForDate(date string) ([]Record, error)
		RecordsForStudent(studentID string, limit int) ([]Record, error)
		Stats(date string) (DailyStats, error)
	}

	// Service is the attendance ledger: the single source of truth for
	// "did student X attend on day D".
	//
	// Every mutation is a whole-document load-mutate-save; mu serializes
	// them so a concurrent writer can never overwrite another's effect.
	// Reads go against the last-saved state and do not block writers.
	Service struct {
		mu     sync.Mutex
		store  core.DocumentStore
		roster Roster

		nowFunc func() time.Time // mockable
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(store core.DocumentStore, rst Roster) *Service {
	return &Service{store: store, roster: rst, nowFunc: time.Now}
}

func (svc *Service) today() string {
	return svc.nowFunc().UTC().Format(DateLayout)
}

func (svc *Service) load() (Document, error) {
	var doc Document
	if err := svc.store.Load(DocumentName, &doc); err != nil {
		return Document{}, errors.Wrap(err, "loading absensi document")
	}
	return doc, nil
}

// save recomputes the statistics for date and persists the whole document.
// Must be called with mu held.
func (svc *Service) save(doc Document, date string) error {
	if doc.Statistics == nil {
		doc.Statistics = make(map[string]DailyStats)
	}
	doc.Statistics[date] = Recompute(doc.Records, date)
	if err := svc.store.Save(DocumentName, doc); err != nil {
		return errors.Wrap(err, "saving absensi document")
	}
	return nil
}

// Record marks attendance through the manual path. A record already existing
// for the (date, student) pair is overwritten in place: manual marking is an
// authoritative correction, so the call is idempotent and last-write-wins.
func (svc *Service) Record(na NewAttendance) (Record, error) {
	if !na.Status.Valid() {
		return Record{}, ErrInvalidStatus
	}
	date := na.Date
	if date == "" {
		date = svc.today()
	}

	std, err := svc.roster.Lookup(na.StudentID, na.Kelas)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:          RecordID(date, std.ID),
		Date:        date,
		StudentID:   std.ID,
		StudentName: std.FullName,
		Kelas:       std.Kelas,
		Status:      na.Status,
		Timestamp:   svc.nowFunc().UTC(),
		ActorID:     na.ActorID,
		ScanMethod:  ScanMethodManual,
		Note:        na.Note,
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	doc, err := svc.load()
	if err != nil {
		return Record{}, err
	}
	if i := indexOf(doc.Records, rec.ID); i >= 0 {
		doc.Records[i] = rec
	} else {
		doc.Records = append(doc.Records, rec)
	}
	if err := svc.save(doc, date); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Scan parses a raw badge payload and checks the student in.
func (svc *Service) Scan(raw, actorID string) (Record, error) {
	b, err := badge.Parse(raw)
	if err != nil {
		return Record{}, err
	}
	return svc.CheckIn(b, actorID)
}

// CheckIn marks a student present through the barcode path. Unlike the
// manual path, an existing record for the day is never overwritten: a badge
// scan is a check-in event and must not be double-counted, so a second scan
// is rejected with ErrAlreadyRecorded.
func (svc *Service) CheckIn(b badge.Badge, actorID string) (Record, error) {
	std, err := svc.roster.Lookup(b.StudentID, b.Kelas)
	if err != nil {
		return Record{}, err
	}

	date := svc.today()
	rec := Record{
		ID:          RecordID(date, std.ID),
		Date:        date,
		StudentID:   std.ID,
		StudentName: std.FullName,
		Kelas:       std.Kelas,
		Status:      StatusPresent,
		Timestamp:   svc.nowFunc().UTC(),
		ActorID:     actorID,
		ScanMethod:  ScanMethodBarcode,
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	doc, err := svc.load()
	if err != nil {
		return Record{}, err
	}
	if indexOf(doc.Records, rec.ID) >= 0 {
		return Record{}, ErrAlreadyRecorded
	}
	doc.Records = append(doc.Records, rec)
	if err := svc.save(doc, date); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// RecordsForDate returns the records for a calendar day in insertion order.
func (svc *Service) RecordsForDate(date string) ([]Record, error) {
	doc, err := svc.load()
	if err != nil {
		return nil, err
	}
	var recs []Record
	for _, r := range doc.Records {
		if r.Date == date {
			recs = append(recs, r)
		}
	}
	return recs, nil
}

// RecordsForStudent returns a student's records, most recent first.
// A limit <= 0 means no limit.
func (svc *Service) RecordsForStudent(studentID string, limit int) ([]Record, error) {
	doc, err := svc.load()
	if err != nil {
		return nil, err
	}
	var recs []Record
	for _, r := range doc.Records {
		if r.StudentID == studentID {
			recs = append(recs, r)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Timestamp.After(recs[j].Timestamp) })
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Stats returns the daily statistics for a calendar day.
func (svc *Service) Stats(date string) (DailyStats, error) {
	doc, err := svc.load()
	if err != nil {
		return DailyStats{}, err
	}
	if st, ok := doc.Statistics[date]; ok {
		return st, nil
	}
	return Recompute(doc.Records, date), nil
}

func indexOf(records []Record, id string) int {
	for i, r := range records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
