package models

import (
	"time"
)

type Gender string

const (
	MALE   Gender = "Male"
	FEMALE Gender = "Female"
	HIDE   Gender = "Hide"
)

func (g Gender) Valid() bool {
	switch g {
	case MALE, FEMALE, HIDE:
		return true
	}
	return false
}

// User is the identity anchor. Password holds the encoded argon2id hash.
type User struct {
	ID        string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex" bson:"email" json:"email"`
	Password  string    `gorm:"size:255" bson:"password" json:"-"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// Profile is the public-facing part of a user. Nickname is indexed but not
// unique at the storage level, uniqueness is checked on update.
type Profile struct {
	UserID       string    `gorm:"primaryKey;size:36" bson:"_id" json:"user_id"`
	Nickname     string    `gorm:"size:60;index" bson:"nickname" json:"nickname"`
	PhoneNumber  string    `gorm:"size:32" bson:"phone_number" json:"phone_number"`
	Age          int       `bson:"age" json:"age"`
	Gender       Gender    `gorm:"size:10;default:Hide" bson:"gender" json:"gender"`
	Address      string    `gorm:"size:255" bson:"address" json:"address"`
	ProfileImage string    `gorm:"size:512" bson:"profile_image" json:"profile_image"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}

func (Profile) TableName() string {
	return "profiles"
}

type Migration struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"size:60;uniqueIndex" json:"name"`
	AppliedAt time.Time `gorm:"autoCreateTime" json:"applied_at"`
}
