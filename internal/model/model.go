// Package model 数据库模型
package model

import (
	"time"
)

// 账号角色
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Account 登录账号
type Account struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Password string `gorm:"size:128;not null" json:"-"`
	Email    string `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Role     string `gorm:"size:16;not null;default:USER" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Account) TableName() string {
	return "account"
}

// AccountInfo 账号资料
type AccountInfo struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID int64     `gorm:"column:aid;uniqueIndex;not null" json:"aid"`
	Name      string    `gorm:"size:64" json:"name"`
	Sex       int       `gorm:"default:0" json:"sex"` // 0 未知 1 男 2 女
	Age       int       `json:"age"`
	Text      string    `gorm:"type:text" json:"text"`
	AvatarURL string    `gorm:"size:256" json:"avatar_url"`
	CreatedAt time.Time `gorm:"column:register_time" json:"register_time"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (AccountInfo) TableName() string {
	return "account_info"
}

// Carousel 首页轮播图
type Carousel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID      string    `gorm:"size:64;uniqueIndex;not null" json:"uuid"`
	Title     string    `gorm:"size:128" json:"title"`
	Text      string    `gorm:"type:text" json:"text"`
	ImageURL  string    `gorm:"size:256;not null" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

func (Carousel) TableName() string {
	return "carousel"
}
