package model

import "time"

const (
	RoleMember = 0
	RoleAdmin  = 1
)

type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      int       `gorm:"not null;default:0" json:"role"`
	Email     string    `gorm:"uniqueIndex;size:64;not null" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserBrief is the owner projection attached to listed discussions.
type UserBrief struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func (u *User) Brief() *UserBrief {
	return &UserBrief{ID: u.ID, Username: u.Username, Email: u.Email}
}
