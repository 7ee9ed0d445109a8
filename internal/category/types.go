package category

import "time"

// CategorySummary 列表项，附带指南数量
type CategorySummary struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    *string   `json:"description"`
	GuidelineCount int64     `json:"guidelineCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// DeleteCategoryResponse 删除结果
type DeleteCategoryResponse struct {
	DeletedGuidelines int64 `json:"deletedGuidelines"`
}
