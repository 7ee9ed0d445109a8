package model

import (
	"terminal-terrace/guideline-wiki/internal/model/file"
	"terminal-terrace/guideline-wiki/internal/model/user"
	"terminal-terrace/guideline-wiki/internal/model/wiki"

	"gorm.io/gorm"
)

func InitTable(db *gorm.DB) error {
	// 使用自定义关联表，以便记录关联时间
	if err := db.SetupJoinTable(&wiki.Guideline{}, "Tags", &wiki.GuidelineTag{}); err != nil {
		return err
	}

	// 自动迁移数据库表结构
	return db.AutoMigrate(
		// 用户模型
		&user.User{},
		// 内容模型
		&wiki.Category{},
		&wiki.Tag{},
		&wiki.Guideline{},
		&wiki.GuidelineTag{},
		&wiki.Reference{},
		&wiki.Revision{},
		&wiki.SlugAlias{},
		// 文件
		&file.File{},
	)
}
