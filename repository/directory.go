package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/ariebrainware/monorec/model"
	"github.com/ariebrainware/monorec/util"
	"gorm.io/gorm"
)

// DefaultAutoAssociations is how many counterparts a newly linked doctor or
// patient is associated with.
const DefaultAutoAssociations = 3

// Identity is the account a doctor or patient row is linked to.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// displayName falls back to the local part of the email when the account has no name.
func (i Identity) displayName(fallback string) string {
	if name := util.NormalizeName(i.Name); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(i.Email, "@"); ok && local != "" {
		return local
	}
	if i.Email != "" {
		return i.Email
	}
	return fallback
}

// LinkResult describes what Link did.
type LinkResult struct {
	Role         string `json:"role"`
	EntityID     uint   `json:"entityId"`
	Created      bool   `json:"created"`
	Associations int    `json:"associations"`
}

// DirectoryLinker gives a signed-in account its Doctor or Patient row on
// first login and associates it with random counterparts.
type DirectoryLinker struct {
	db    *gorm.DB
	rng   *rand.Rand
	limit int
}

// LinkerOption configures a DirectoryLinker.
type LinkerOption func(*DirectoryLinker)

// WithRand sets the random source used to pick counterparts.
func WithRand(rng *rand.Rand) LinkerOption {
	return func(l *DirectoryLinker) {
		l.rng = rng
	}
}

// WithAutoAssociations overrides DefaultAutoAssociations. Negative values
// disable auto-association.
func WithAutoAssociations(n int) LinkerOption {
	return func(l *DirectoryLinker) {
		l.limit = max(n, 0)
	}
}

func NewDirectoryLinker(db *gorm.DB, opts ...LinkerOption) *DirectoryLinker {
	l := &DirectoryLinker{
		db:    db,
		rng:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		limit: DefaultAutoAssociations,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Link finds or creates the row for id in the table of role, then, if the
// row has no associations yet, associates it with up to the configured number
// of random counterparts. Everything runs in one transaction.
func (l *DirectoryLinker) Link(ctx context.Context, id Identity, role string) (LinkResult, error) {
	if id.UserID == "" {
		return LinkResult{}, fmt.Errorf("link without user id: %w", ErrInvalidInput)
	}

	var result LinkResult
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		switch role {
		case model.RoleDoctor:
			result, err = l.linkDoctor(tx, id)
		case model.RolePatient:
			result, err = l.linkPatient(tx, id)
		default:
			err = fmt.Errorf("unknown role %q: %w", role, ErrInvalidInput)
		}
		return err
	})
	if err != nil {
		return LinkResult{}, err
	}
	return result, nil
}

func optionalEmail(email string) *string {
	if email == "" {
		return nil
	}
	return &email
}

func (l *DirectoryLinker) linkDoctor(tx *gorm.DB, id Identity) (LinkResult, error) {
	result := LinkResult{Role: model.RoleDoctor}

	var doctor model.Doctor
	err := tx.Where("user_id = ?", id.UserID).First(&doctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		userID := id.UserID
		doctor = model.Doctor{
			DoctorName:  id.displayName(model.RoleDoctor),
			DoctorEmail: optionalEmail(id.Email),
			UserID:      &userID,
		}
		if err := tx.Create(&doctor).Error; err != nil {
			return result, fmt.Errorf("create doctor for user: %w", err)
		}
		result.Created = true
	} else if err != nil {
		return result, fmt.Errorf("load doctor for user: %w", err)
	}
	result.EntityID = doctor.DoctorID

	var existing int64
	if err := tx.Model(&model.DoctorPatient{}).Where("doctor_id = ?", doctor.DoctorID).Count(&existing).Error; err != nil {
		return result, fmt.Errorf("count associations: %w", err)
	}
	if existing > 0 {
		return result, nil
	}

	var patientIDs []uint
	if err := tx.Model(&model.Patient{}).Order("patient_id").Pluck("patient_id", &patientIDs).Error; err != nil {
		return result, fmt.Errorf("list patients: %w", err)
	}
	for _, patientID := range l.pick(patientIDs) {
		if err := tx.Create(&model.DoctorPatient{DoctorID: doctor.DoctorID, PatientID: patientID}).Error; err != nil {
			return result, fmt.Errorf("associate patient %d: %w", patientID, err)
		}
		result.Associations++
	}
	return result, nil
}

func (l *DirectoryLinker) linkPatient(tx *gorm.DB, id Identity) (LinkResult, error) {
	result := LinkResult{Role: model.RolePatient}

	var patient model.Patient
	err := tx.Where("user_id = ?", id.UserID).First(&patient).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		userID := id.UserID
		patient = model.Patient{
			PatientName:  id.displayName(model.RolePatient),
			PatientEmail: optionalEmail(id.Email),
			UserID:       &userID,
		}
		if err := tx.Create(&patient).Error; err != nil {
			return result, fmt.Errorf("create patient for user: %w", err)
		}
		result.Created = true
	} else if err != nil {
		return result, fmt.Errorf("load patient for user: %w", err)
	}
	result.EntityID = patient.PatientID

	var existing int64
	if err := tx.Model(&model.DoctorPatient{}).Where("patient_id = ?", patient.PatientID).Count(&existing).Error; err != nil {
		return result, fmt.Errorf("count associations: %w", err)
	}
	if existing > 0 {
		return result, nil
	}

	var doctorIDs []uint
	if err := tx.Model(&model.Doctor{}).Order("doctor_id").Pluck("doctor_id", &doctorIDs).Error; err != nil {
		return result, fmt.Errorf("list doctors: %w", err)
	}
	for _, doctorID := range l.pick(doctorIDs) {
		if err := tx.Create(&model.DoctorPatient{DoctorID: doctorID, PatientID: patient.PatientID}).Error; err != nil {
			return result, fmt.Errorf("associate doctor %d: %w", doctorID, err)
		}
		result.Associations++
	}
	return result, nil
}

// pick returns up to l.limit distinct ids in random order.
func (l *DirectoryLinker) pick(ids []uint) []uint {
	l.rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if len(ids) > l.limit {
		ids = ids[:l.limit]
	}
	return ids
}
