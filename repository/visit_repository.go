package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ariebrainware/monorec/model"
	"gorm.io/gorm"
)

// VisitUpdate is a partial visit update. Nil fields are left unchanged.
type VisitUpdate struct {
	Date *time.Time
	Note *string
}

// VisitRepository covers the visit history between doctors and patients.
type VisitRepository interface {
	ListVisits(ctx context.Context) ([]model.Visit, error)
	GetVisit(ctx context.Context, id uint) (model.Visit, error)
	CreateVisit(ctx context.Context, patientID, doctorID uint) (model.Visit, error)
	UpdateVisit(ctx context.Context, id uint, update VisitUpdate) (model.Visit, error)
	ListVisitsByPatient(ctx context.Context, patientID uint) ([]model.Visit, error)
	ListVisitsByDoctor(ctx context.Context, doctorID uint) ([]model.Visit, error)
	ListVisitsByDoctorAndPatient(ctx context.Context, doctorID, patientID uint) ([]model.Visit, error)
	DeleteVisit(ctx context.Context, id uint) (model.Visit, error)
	ListUpcomingVisits(ctx context.Context) ([]model.Visit, error)
}

// GormVisitRepository implements VisitRepository on gorm.
type GormVisitRepository struct {
	db  *gorm.DB
	now func() time.Time
}

var _ VisitRepository = (*GormVisitRepository)(nil)

// VisitOption configures a GormVisitRepository.
type VisitOption func(*GormVisitRepository)

// WithClock overrides the time source used for default visit dates and the
// upcoming visits cutoff.
func WithClock(now func() time.Time) VisitOption {
	return func(r *GormVisitRepository) {
		r.now = now
	}
}

func NewVisitRepository(db *gorm.DB, opts ...VisitOption) *GormVisitRepository {
	r := &GormVisitRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *GormVisitRepository) findVisits(ctx context.Context, query string, args ...interface{}) ([]model.Visit, error) {
	visits := []model.Visit{}
	tx := r.db.WithContext(ctx)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	if err := tx.Order("visit_id").Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("list visits: %w", err)
	}
	return visits, nil
}

func (r *GormVisitRepository) ListVisits(ctx context.Context) ([]model.Visit, error) {
	return r.findVisits(ctx, "")
}

func (r *GormVisitRepository) GetVisit(ctx context.Context, id uint) (model.Visit, error) {
	var visit model.Visit
	err := r.db.WithContext(ctx).First(&visit, "visit_id = ?", id).Error
	return visit, translateFirst(err, "visit", id)
}

// CreateVisit records a visit dated now with no note. Both participants must exist.
func (r *GormVisitRepository) CreateVisit(ctx context.Context, patientID, doctorID uint) (model.Visit, error) {
	if _, err := findPatient(ctx, r.db, patientID); err != nil {
		return model.Visit{}, err
	}
	if _, err := findDoctor(ctx, r.db, doctorID); err != nil {
		return model.Visit{}, err
	}

	visit := model.Visit{
		PatientID: patientID,
		DoctorID:  doctorID,
		VisitDate: r.now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&visit).Error; err != nil {
		return model.Visit{}, fmt.Errorf("create visit: %w", err)
	}
	return visit, nil
}

func (r *GormVisitRepository) UpdateVisit(ctx context.Context, id uint, update VisitUpdate) (model.Visit, error) {
	visit, err := r.GetVisit(ctx, id)
	if err != nil {
		return model.Visit{}, err
	}

	changes := map[string]interface{}{}
	if update.Date != nil {
		visit.VisitDate = update.Date.UTC()
		changes["visit_date"] = visit.VisitDate
	}
	if update.Note != nil {
		note := *update.Note
		visit.VisitNote = &note
		changes["visit_note"] = note
	}
	if len(changes) == 0 {
		return visit, nil
	}

	err = r.db.WithContext(ctx).Model(&model.Visit{}).Where("visit_id = ?", id).Updates(changes).Error
	if err != nil {
		return model.Visit{}, fmt.Errorf("update visit %d: %w", id, err)
	}
	return visit, nil
}

func (r *GormVisitRepository) ListVisitsByPatient(ctx context.Context, patientID uint) ([]model.Visit, error) {
	if _, err := findPatient(ctx, r.db, patientID); err != nil {
		return nil, err
	}
	return r.findVisits(ctx, "patient_id = ?", patientID)
}

func (r *GormVisitRepository) ListVisitsByDoctor(ctx context.Context, doctorID uint) ([]model.Visit, error) {
	if _, err := findDoctor(ctx, r.db, doctorID); err != nil {
		return nil, err
	}
	return r.findVisits(ctx, "doctor_id = ?", doctorID)
}

func (r *GormVisitRepository) ListVisitsByDoctorAndPatient(ctx context.Context, doctorID, patientID uint) ([]model.Visit, error) {
	if _, err := findDoctor(ctx, r.db, doctorID); err != nil {
		return nil, err
	}
	if _, err := findPatient(ctx, r.db, patientID); err != nil {
		return nil, err
	}
	return r.findVisits(ctx, "doctor_id = ? AND patient_id = ?", doctorID, patientID)
}

// DeleteVisit removes the visit and returns it as it was before deletion.
func (r *GormVisitRepository) DeleteVisit(ctx context.Context, id uint) (model.Visit, error) {
	visit, err := r.GetVisit(ctx, id)
	if err != nil {
		return model.Visit{}, err
	}
	res := r.db.WithContext(ctx).Delete(&model.Visit{}, "visit_id = ?", id)
	if res.Error != nil {
		return model.Visit{}, fmt.Errorf("delete visit %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return model.Visit{}, notFound("visit", id)
	}
	return visit, nil
}

// ListUpcomingVisits returns visits dated on or after the start of the
// current UTC day, earliest first.
func (r *GormVisitRepository) ListUpcomingVisits(ctx context.Context) ([]model.Visit, error) {
	now := r.now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	visits := []model.Visit{}
	err := r.db.WithContext(ctx).
		Where("visit_date >= ?", startOfDay).
		Order("visit_date").
		Order("visit_id").
		Find(&visits).Error
	if err != nil {
		return nil, fmt.Errorf("list upcoming visits: %w", err)
	}
	return visits, nil
}
