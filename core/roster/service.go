package roster

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sekolahku/absensi/core"
	"github.com/sekolahku/absensi/core/badge"
)

// DocumentName is the logical name of the users document.
const DocumentName = "users"

var (
	// errors
	ErrNotFound       = errors.New("student not found")
	ErrUsernameExists = errors.New("a student with this username already exists")
)

type (
	ServiceInterface interface {
		Lookup(id, kelas string) (Student, error)
		GetByID(id string) (Student, error)
		AllGroupedByClass() (map[string][]Student, []string, error)
		Register(ns NewStudent) (Student, error)
		GenerateBadges() (int, error)
	}

	Service struct {
		mu    sync.Mutex
		store core.DocumentStore

		nowFunc func() time.Time // mockable
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(store core.DocumentStore) *Service {
	return &Service{store: store, nowFunc: time.Now}
}

func (svc *Service) load() (Document, error) {
	var doc Document
	if err := svc.store.Load(DocumentName, &doc); err != nil {
		return Document{}, errors.Wrap(err, "loading users document")
	}
	return doc, nil
}

// Lookup resolves a student by id and kelas. Both must match exactly: a
// scanned badge carrying a stale kelas for a since-transferred student must
// not resolve.
func (svc *Service) Lookup(id, kelas string) (Student, error) {
	doc, err := svc.load()
	if err != nil {
		return Student{}, err
	}
	for _, s := range doc.Students {
		if s.ID == id && s.Kelas == kelas {
			return s, nil
		}
	}
	return Student{}, ErrNotFound
}

func (svc *Service) GetByID(id string) (Student, error) {
	doc, err := svc.load()
	if err != nil {
		return Student{}, err
	}
	for _, s := range doc.Students {
		if s.ID == id {
			return s, nil
		}
	}
	return Student{}, ErrNotFound
}

// AllGroupedByClass returns students grouped by kelas, each group sorted by
// full name, along with the sorted kelas list.
func (svc *Service) AllGroupedByClass() (map[string][]Student, []string, error) {
	doc, err := svc.load()
	if err != nil {
		return nil, nil, err
	}

	grouped := make(map[string][]Student)
	for _, s := range doc.Students {
		grouped[s.Kelas] = append(grouped[s.Kelas], s)
	}

	kelasList := make([]string, 0, len(grouped))
	for kelas, students := range grouped {
		kelasList = append(kelasList, kelas)
		sort.Slice(students, func(i, j int) bool { return students[i].FullName < students[j].FullName })
	}
	sort.Strings(kelasList)
	return grouped, kelasList, nil
}

// Register creates a new Student with the next available id and persists the
// users document. Badge safety of username and kelas is re-checked here so
// the invariant holds even for callers that skip NewStudent.Validate.
func (svc *Service) Register(ns NewStudent) (Student, error) {
	var flds []core.FieldError
	if !badge.Safe(ns.Username) {
		flds = append(flds, core.FieldError{Field: "username", Error: badgeSafeText})
	}
	if !badge.Safe(ns.Kelas) {
		flds = append(flds, core.FieldError{Field: "kelas", Error: badgeSafeText})
	}
	if len(flds) > 0 {
		return Student{}, core.NewValidationError(nil, flds...)
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	doc, err := svc.load()
	if err != nil {
		return Student{}, err
	}

	for _, s := range doc.Students {
		if s.Username == ns.Username {
			return Student{}, core.NewValidationError(
				ErrUsernameExists,
				core.FieldError{Field: "username", Error: ErrUsernameExists.Error()},
			)
		}
	}

	std := Student{
		ID:        nextID(doc.Students),
		Username:  ns.Username,
		FullName:  ns.FullName,
		Kelas:     ns.Kelas,
		Email:     ns.Email,
		CreatedAt: svc.nowFunc().UTC(),
	}
	if err := std.SetPassword(ns.Password); err != nil {
		return Student{}, errors.Wrap(err, "hashing password")
	}

	doc.Students = append(doc.Students, std)
	if err := svc.store.Save(DocumentName, doc); err != nil {
		return Student{}, errors.Wrap(err, "saving users document")
	}
	return std, nil
}

// GenerateBadges fills in the badge payload for every student that does not
// have one yet. It returns the number of badges generated.
func (svc *Service) GenerateBadges() (int, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	doc, err := svc.load()
	if err != nil {
		return 0, err
	}

	var n int
	for i, s := range doc.Students {
		if s.Barcode == "" {
			doc.Students[i].Barcode = badge.Format(s.ID, s.Kelas)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	if err := svc.store.Save(DocumentName, doc); err != nil {
		return 0, errors.Wrap(err, "saving users document")
	}
	return n, nil
}

// nextID picks the next sequential numeric id. Non-numeric ids are ignored.
func nextID(students []Student) string {
	var max int
	for _, s := range students {
		if id, err := strconv.Atoi(s.ID); err == nil && id > max {
			max = id
		}
	}
	return strconv.Itoa(max + 1)
}
