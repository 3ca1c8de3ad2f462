package model

import (
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name     string   `gorm:"size:100;not null" json:"Name"`
	Email    string   `gorm:"size:100;unique;not null" json:"Email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'user'" json:"Role"`
	// XP 总经验值，只增不减；Level 由 XP 推导
	XP        int       `gorm:"default:0" json:"XP"`
	Level     int       `gorm:"default:1" json:"Level"`
	Bio       string    `gorm:"size:500" json:"Bio"`
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"Disabled"`
	LastLogin time.Time `json:"LastLogin"`
	LastSeen  time.Time `json:"LastSeen"`
}

func (User) TableName() string {
	return "users"
}
