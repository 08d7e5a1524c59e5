package db

import (
	"errors"
	"fmt"

	"socialcal/models"

	"gorm.io/gorm"
)

type migration struct {
	name string
	run  func(orm *gorm.DB) error
}

// migrations run in order, each at most once; applied names are kept in the
// migrations table.
var migrations = []migration{
	{
		name: "001_accounts",
		run: func(orm *gorm.DB) error {
			return orm.AutoMigrate(&models.User{}, &models.Profile{})
		},
	},
	{
		name: "002_schedules",
		run: func(orm *gorm.DB) error {
			return orm.AutoMigrate(&models.Schedule{}, &models.ScheduleEntry{})
		},
	},
	{
		name: "003_friend_graphs",
		run: func(orm *gorm.DB) error {
			return orm.AutoMigrate(&models.FriendGraphRecord{}, &models.FriendGraphMember{})
		},
	},
	{
		// accounts created before friend graphs existed
		name: "004_backfill_friend_graphs",
		run: func(orm *gorm.DB) error {
			return orm.Exec(`INSERT INTO friend_graphs (user_id, created_at)
				SELECT u.id, CURRENT_TIMESTAMP FROM users u
				WHERE NOT EXISTS (SELECT 1 FROM friend_graphs g WHERE g.user_id = u.id)`).Error
		},
	},
}

// Migrate applies pending schema migrations.
func Migrate(orm *gorm.DB) error {
	if err := orm.AutoMigrate(&models.Migration{}); err != nil {
		return err
	}
	for _, m := range migrations {
		var applied models.Migration
		err := orm.Where("name = ?", m.name).First(&applied).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err = m.run(orm); err != nil {
			return fmt.Errorf("migration %s: %w", m.name, err)
		}
		if err = orm.Create(&models.Migration{Name: m.name}).Error; err != nil {
			return err
		}
	}
	return nil
}
