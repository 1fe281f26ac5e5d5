package roster

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/sekolahku/absensi/core"
)

// Student is a roster entry a badge can resolve to.
//
// ID, Username and Kelas must never contain the badge delimiter; NewStudent
// validation enforces this before a Student is created.
type Student struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Kelas        string    `json:"kelas"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"password,omitempty"`
	Barcode      string    `json:"barcode,omitempty"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
}

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = string(hash)
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(pwd))
}

// Staff is an admin or teacher account. Staff never check in by badge; the
// roster only carries them so the users document keeps its full shape.
type Staff struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	Email        string `json:"email,omitempty"`
	PasswordHash string `json:"password,omitempty"`
}

// Document is the persisted shape of the users document.
type Document struct {
	Students []Student `json:"students"`
	Admins   []Staff   `json:"admins"`
	Teachers []Staff   `json:"teachers"`
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Username        string `json:"username" validate:"required,min=3,alphanum_,badgesafe"`
	FullName        string `json:"fullName" validate:"required"`
	Kelas           string `json:"kelas" validate:"required,badgesafe"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Username = core.CleanString(ns.Username, true /* lower */)
	ns.FullName = core.CleanString(ns.FullName)
	ns.Kelas = core.CleanString(ns.Kelas)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	return validate.Struct(ns)
}
