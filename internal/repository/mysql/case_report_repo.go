package mysql

import (
	"context"

	"Child_Shield/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CaseReportRepository struct {
	DB *gorm.DB
}

func NewCaseReportRepository(db *gorm.DB) *CaseReportRepository {
	return &CaseReportRepository{DB: db}
}

// Create inserts the report and, when ob is not nil, its outbox row in one transaction.
// ob.AggregateID is filled from the new report id.
func (r *CaseReportRepository) Create(ctx context.Context, report *model.CaseReport, ob *model.Outbox) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		if ob == nil {
			return nil
		}
		ob.AggregateID = report.ID
		return tx.Create(ob).Error
	})
}

func (r *CaseReportRepository) List(ctx context.Context) ([]model.CaseReport, error) {
	var list []model.CaseReport
	err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *CaseReportRepository) ListByUser(ctx context.Context, userID uint64) ([]model.CaseReport, error) {
	var list []model.CaseReport
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *CaseReportRepository) FindByID(ctx context.Context, id uint64) (*model.CaseReport, error) {
	var report model.CaseReport
	if err := r.DB.WithContext(ctx).First(&report, id).Error; err != nil {
		return nil, translate(err)
	}
	return &report, nil
}

// Update locks the row, lets apply mutate it and saves the result together with
// the outbox row apply returns (if any). An error from apply rolls everything back.
func (r *CaseReportRepository) Update(ctx context.Context, id uint64, apply func(report *model.CaseReport) (*model.Outbox, error)) (*model.CaseReport, error) {
	var report model.CaseReport
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&report, id).Error; err != nil {
			return translate(err)
		}

		ob, err := apply(&report)
		if err != nil {
			return err
		}

		if err := tx.Save(&report).Error; err != nil {
			return err
		}
		if ob == nil {
			return nil
		}
		ob.AggregateID = report.ID
		return tx.Create(ob).Error
	})
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *CaseReportRepository) Delete(ctx context.Context, id uint64) error {
	tx := r.DB.WithContext(ctx).Delete(&model.CaseReport{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
