package dto

// 以下请求结构同时用于服务端绑定校验和 /api/schema 导出的表单规则

// CategoryRequest 创建/更新分类（整体替换）
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// TagRequest 创建/更新标签
type TagRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=50"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ReferenceInput 指南引用
type ReferenceInput struct {
	Title       string  `json:"title" binding:"required,min=1,max=300"`
	URL         *string `json:"url" binding:"omitempty,url,max=2048"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
}

// GuidelineRequest 创建/更新指南
// 更新时 tagIds 和 references 都是完整的新集合
type GuidelineRequest struct {
	Title      string           `json:"title" binding:"required,min=1,max=200"`
	Content    string           `json:"content" binding:"required"`
	CategoryID uint             `json:"categoryId" binding:"required,gt=0"`
	TagIDs     []uint           `json:"tagIds" binding:"omitempty,max=50,dive,gt=0"`
	References []ReferenceInput `json:"references" binding:"omitempty,max=100,dive"`
}

// ListQuery 分页参数
type ListQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// Normalize 填充默认值
func (q *ListQuery) Normalize(defaultSize int) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultSize
	}
}

func (q ListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}
