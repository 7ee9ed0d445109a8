// Package wiki 指南 wiki 的内容模型
package wiki

import "time"

// Category 指南分类
type Category struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(100);not null" json:"name"`
	Slug        string      `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Description *string     `gorm:"type:text" json:"description"`
	Guidelines  []Guideline `json:"guidelines,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}
