package db

import (
	"context"

	"socialcal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScheduleRepository struct {
	orm *gorm.DB
}

func NewScheduleRepository(orm *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{orm: orm}
}

func (r *ScheduleRepository) FindByUserID(ctx context.Context, userID string) (*models.Schedule, error) {
	var schedule models.Schedule
	err := readDB(ctx, r.orm).Where("user_id = ?", userID).First(&schedule).Error
	if err != nil {
		return nil, translate(err)
	}
	schedule.Entries = []models.ScheduleEntry{}
	err = readDB(ctx, r.orm).Where("user_id = ?", userID).Order("position").Find(&schedule.Entries).Error
	if err != nil {
		return nil, err
	}
	return &schedule, nil
}

func (r *ScheduleRepository) CreateEmpty(ctx context.Context, userID string) error {
	return writeDB(ctx, r.orm).Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Schedule{UserID: userID}).Error
}

// AppendEntry puts the entry after the user's last one.
func (r *ScheduleRepository) AppendEntry(ctx context.Context, userID string, entry models.ScheduleEntry) error {
	return writeDB(ctx, r.orm).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Schedule{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return models.ErrNotFound
		}
		var last struct{ Position int64 }
		err := tx.Model(&models.ScheduleEntry{}).Select("COALESCE(MAX(position), 0) AS position").
			Where("user_id = ?", userID).Scan(&last).Error
		if err != nil {
			return err
		}
		entry.UserID = userID
		entry.Position = last.Position + 1
		return translate(tx.Create(&entry).Error)
	})
}

func (r *ScheduleRepository) ReplaceEntryByKey(ctx context.Context, userID string, entry models.ScheduleEntry) (bool, error) {
	res := writeDB(ctx, r.orm).Model(&models.ScheduleEntry{}).
		Where("user_id = ? AND entry_key = ?", userID, entry.Key).
		Updates(map[string]interface{}{
			"work":       entry.Work,
			"place":      entry.Place,
			"date":       entry.Date,
			"start_time": entry.StartTime,
			"end_time":   entry.EndTime,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *ScheduleRepository) RemoveEntryByKey(ctx context.Context, userID, key string) (bool, error) {
	res := writeDB(ctx, r.orm).Where("user_id = ? AND entry_key = ?", userID, key).Delete(&models.ScheduleEntry{})
	return res.RowsAffected > 0, res.Error
}
