package wiki

import "time"

// Guideline 治疗指南，content 为 markdown 原文
type Guideline struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Title      string      `gorm:"type:varchar(200);not null" json:"title"`
	Slug       string      `gorm:"type:varchar(220);uniqueIndex;not null" json:"slug"`
	Content    string      `gorm:"type:text;not null" json:"content"`
	CategoryID uint        `gorm:"not null;index" json:"categoryId"`
	Category   *Category   `json:"category,omitempty"`
	Tags       []Tag       `gorm:"many2many:guideline_tags" json:"tags"`
	References []Reference `json:"references"`
	Revisions  []Revision  `json:"revisions,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// GuidelineTag 指南-标签关联表
type GuidelineTag struct {
	GuidelineID uint      `gorm:"primaryKey" json:"guidelineId"`
	TagID       uint      `gorm:"primaryKey;index" json:"tagId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Revision 指南内容的历史快照，只追加不修改
type Revision struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GuidelineID uint      `gorm:"not null;index" json:"guidelineId"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}

// SlugAlias 指南改名前使用过的 slug，旧链接据此跳转
type SlugAlias struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	GuidelineID uint      `gorm:"not null;index" json:"guidelineId"`
	Slug        string    `gorm:"type:varchar(220);uniqueIndex;not null" json:"slug"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (SlugAlias) TableName() string {
	return "guideline_slug_aliases"
}
