package models

// ScheduleEntry is one calendar entry. Key is generated server-side.
// UserID and Position only matter to the relational store.
type ScheduleEntry struct {
	Key       string `gorm:"primaryKey;column:entry_key;size:36" bson:"key" json:"key"`
	UserID    string `gorm:"size:36;index" bson:"-" json:"-"`
	Position  int64  `gorm:"index" bson:"-" json:"-"`
	Work      string `gorm:"size:255" bson:"work" json:"work"`
	Place     string `gorm:"size:255" bson:"place" json:"place"`
	Date      string `gorm:"size:10" bson:"date" json:"date"`
	StartTime string `gorm:"size:5" bson:"start_time" json:"start_time"`
	EndTime   string `gorm:"size:5" bson:"end_time" json:"end_time"`
}

func (ScheduleEntry) TableName() string {
	return "schedule_entries"
}

type Schedule struct {
	UserID  string          `gorm:"primaryKey;size:36" bson:"_id" json:"user_id"`
	Entries []ScheduleEntry `gorm:"-" bson:"entries" json:"entries"`
}

func (Schedule) TableName() string {
	return "schedules"
}
