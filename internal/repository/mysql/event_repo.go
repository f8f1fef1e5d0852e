package mysql

import (
	"context"

	"Child_Shield/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(ctx context.Context, ev *model.Event) error {
	return r.DB.WithContext(ctx).Create(ev).Error
}

// List returns upcoming-first ordering by date and time.
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	var list []model.Event
	err := r.DB.WithContext(ctx).Order("date ASC, time ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *EventRepository) FindByID(ctx context.Context, id uint64) (*model.Event, error) {
	var ev model.Event
	if err := r.DB.WithContext(ctx).First(&ev, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ev, nil
}

func (r *EventRepository) Update(ctx context.Context, id uint64, apply func(ev *model.Event) error) (*model.Event, error) {
	var ev model.Event
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ev, id).Error; err != nil {
			return translate(err)
		}
		if err := apply(&ev); err != nil {
			return err
		}
		return tx.Save(&ev).Error
	})
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint64) error {
	tx := r.DB.WithContext(ctx).Delete(&model.Event{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
