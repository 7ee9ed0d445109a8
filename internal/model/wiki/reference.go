package wiki

import "time"

// Reference 指南引用的文献，随指南一起整体替换
type Reference struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GuidelineID uint      `gorm:"not null;index" json:"guidelineId"`
	Title       string    `gorm:"type:varchar(300);not null" json:"title"`
	URL         *string   `gorm:"type:varchar(2048)" json:"url"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
