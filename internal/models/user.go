package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleUser   UserRole = "USER"
	RoleViewer UserRole = "VIEWER"
)

// порядок ролей: VIEWER < USER < ADMIN
var roleRank = map[UserRole]int{
	RoleViewer: 1,
	RoleUser:   2,
	RoleAdmin:  3,
}

func (r UserRole) Rank() int {
	return roleRank[r]
}

func (r UserRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Username     string   `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Name         string   `gorm:"size:255;not null" json:"name"`
	Email        string   `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
	Enabled      bool     `gorm:"not null;default:true" json:"enabled"`
}
