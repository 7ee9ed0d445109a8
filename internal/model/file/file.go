// Package file 文件相关模型
package file

import (
	"time"
)

// File 上传文件的元数据，文件内容存放在 upload.dir 下
type File struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	FileName   string `gorm:"type:varchar(255);not null" json:"fileName"`
	StoredName string `gorm:"type:varchar(300);uniqueIndex;not null" json:"storedName"`
	URL        string `gorm:"type:varchar(500);not null" json:"url"`
	FileSize   int64  `gorm:"not null" json:"fileSize"`
	MimeType   string `gorm:"type:varchar(100);not null" json:"mimeType"`
	// 上传者 ID
	UploadedBy uint      `gorm:"not null;index" json:"uploadedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TableName 指定表名
func (File) TableName() string {
	return "files"
}
