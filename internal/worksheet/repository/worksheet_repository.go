package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/jgirmay/mathlab/internal/common/errors"
	"github.com/jgirmay/mathlab/pkg/models"
)

// WorksheetRecord is the stored form of a worksheet.
type WorksheetRecord struct {
	ID        string          `gorm:"primaryKey;size:36"`
	Count     int             `gorm:"not null"`
	MaxNumber int             `gorm:"not null"`
	Operation string          `gorm:"size:16;not null"`
	Density   string          `gorm:"size:16"`
	CreatedAt time.Time
	Problems  []ProblemRecord `gorm:"foreignKey:WorksheetID;constraint:OnDelete:CASCADE"`
}

func (WorksheetRecord) TableName() string { return "worksheets" }

// ProblemRecord keeps the problem's position so a worksheet reads back in
// the order it was generated.
type ProblemRecord struct {
	ID            string `gorm:"primaryKey;size:36"`
	WorksheetID   string `gorm:"index;size:36;not null"`
	Position      int    `gorm:"not null"`
	FirstOperand  int
	SecondOperand int
	Operator      string `gorm:"size:4"`
	Answer        int
}

func (ProblemRecord) TableName() string { return "worksheet_problems" }

// WorksheetStore keeps worksheets for the lifetime of the process.
type WorksheetStore interface {
	Save(ctx context.Context, ws models.Worksheet) error
	Get(ctx context.Context, id string) (models.Worksheet, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Prune(ctx context.Context, keep int) (int64, error)
	Ping(ctx context.Context) error
}

type GormWorksheetStore struct {
	db *gorm.DB
}

// NewWorksheetStore migrates the schema and returns a store on db.
func NewWorksheetStore(db *gorm.DB) (*GormWorksheetStore, error) {
	if err := db.AutoMigrate(&WorksheetRecord{}, &ProblemRecord{}); err != nil {
		return nil, apperrors.Internal("failed to migrate worksheet tables", err.Error())
	}
	return &GormWorksheetStore{db: db}, nil
}

// Save stores ws, replacing any worksheet with the same id.
func (s *GormWorksheetStore) Save(ctx context.Context, ws models.Worksheet) error {
	rec := toRecord(ws)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteWorksheet(tx, ws.ID); err != nil {
			return err
		}
		return tx.Create(&rec).Error
	})
	if err != nil {
		return apperrors.Internal("failed to save worksheet", err.Error())
	}
	return nil
}

// Get loads a worksheet with its problems in generation order.
func (s *GormWorksheetStore) Get(ctx context.Context, id string) (models.Worksheet, error) {
	var rec WorksheetRecord
	err := s.db.WithContext(ctx).
		Preload("Problems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Worksheet{}, apperrors.NotFound("worksheet")
	}
	if err != nil {
		return models.Worksheet{}, apperrors.Internal("failed to fetch worksheet", err.Error())
	}
	return rec.toModel(), nil
}

// Delete removes a worksheet and its problems. An unknown id is NotFound.
func (s *GormWorksheetStore) Delete(ctx context.Context, id string) error {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("worksheet_id = ?", id).Delete(&ProblemRecord{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&WorksheetRecord{})
		removed = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return apperrors.Internal("failed to delete worksheet", err.Error())
	}
	if removed == 0 {
		return apperrors.NotFound("worksheet")
	}
	return nil
}

func (s *GormWorksheetStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&WorksheetRecord{}).Count(&n).Error; err != nil {
		return 0, apperrors.Internal("failed to count worksheets", err.Error())
	}
	return n, nil
}

// Prune evicts the oldest worksheets until at most keep remain and returns
// how many were removed. keep <= 0 disables eviction.
func (s *GormWorksheetStore) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}

	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	excess := n - int64(keep)
	if excess <= 0 {
		return 0, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		err := tx.Model(&WorksheetRecord{}).
			Order("created_at ASC").
			Order("rowid ASC").
			Limit(int(excess)).
			Pluck("id", &ids).Error
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("worksheet_id IN ?", ids).Delete(&ProblemRecord{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&WorksheetRecord{}).Error
	})
	if err != nil {
		return 0, apperrors.Internal("failed to prune worksheets", err.Error())
	}
	return excess, nil
}

func (s *GormWorksheetStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func deleteWorksheet(tx *gorm.DB, id string) error {
	if err := tx.Where("worksheet_id = ?", id).Delete(&ProblemRecord{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&WorksheetRecord{}).Error
}

func toRecord(ws models.Worksheet) WorksheetRecord {
	rec := WorksheetRecord{
		ID:        ws.ID,
		Count:     ws.Config.Count,
		MaxNumber: ws.Config.MaxNumber,
		Operation: string(ws.Config.Operation),
		Density:   ws.Density,
		CreatedAt: ws.CreatedAt,
		Problems:  make([]ProblemRecord, 0, len(ws.Problems)),
	}
	for i, p := range ws.Problems {
		rec.Problems = append(rec.Problems, ProblemRecord{
			ID:            p.ID,
			WorksheetID:   ws.ID,
			Position:      i,
			FirstOperand:  p.FirstOperand,
			SecondOperand: p.SecondOperand,
			Operator:      p.Operator,
			Answer:        p.Answer,
		})
	}
	return rec
}

func (r WorksheetRecord) toModel() models.Worksheet {
	ws := models.Worksheet{
		ID: r.ID,
		Config: models.WorksheetConfig{
			Count:     r.Count,
			MaxNumber: r.MaxNumber,
			Operation: models.Operation(r.Operation),
		},
		Density:   r.Density,
		CreatedAt: r.CreatedAt,
		Problems:  make([]models.MathProblem, 0, len(r.Problems)),
	}
	for _, p := range r.Problems {
		ws.Problems = append(ws.Problems, models.MathProblem{
			ID:            p.ID,
			FirstOperand:  p.FirstOperand,
			SecondOperand: p.SecondOperand,
			Operator:      p.Operator,
			Answer:        p.Answer,
		})
	}
	return ws
}
