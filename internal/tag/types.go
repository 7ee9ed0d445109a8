package tag

import "terminal-terrace/guideline-wiki/internal/model/wiki"

// TagSummary 列表项
type TagSummary struct {
	ID             uint    `json:"id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	Description    *string `json:"description"`
	GuidelineCount int64   `json:"guidelineCount"`
}

// GuidelineRef 指南的简要信息
type GuidelineRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// TagDetail 标签详情
type TagDetail struct {
	wiki.Tag
	Guidelines []GuidelineRef `json:"guidelines"`
}

// DeleteTagResponse 删除结果
type DeleteTagResponse struct {
	DisconnectedGuidelines int64 `json:"disconnectedGuidelines"`
}
