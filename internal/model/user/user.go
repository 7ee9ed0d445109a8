package user

import (
	"time"

	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"
)

const (
	RoleAdmin = authsdk.RoleAdmin
	RoleUser  = authsdk.RoleUser
)

// User 后台账号
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"type:varchar(20);not null;default:'USER';index" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Identity 转为请求身份
func (u *User) Identity() *authsdk.UserContext {
	return &authsdk.UserContext{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}
}
