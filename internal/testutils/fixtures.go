package testutils

import (
	"fmt"

	"terminal-terrace/guideline-wiki/internal/model/user"
	"terminal-terrace/guideline-wiki/internal/model/wiki"
	"terminal-terrace/guideline-wiki/internal/slug"
	authsdk "terminal-terrace/guideline-wiki/packages/auth-sdk"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Admin 测试用管理员身份
func Admin() *authsdk.UserContext {
	return &authsdk.UserContext{UserID: 1, Name: "admin", Email: "admin@example.com", Role: authsdk.RoleAdmin}
}

// Reader 测试用普通用户身份
func Reader() *authsdk.UserContext {
	return &authsdk.UserContext{UserID: 2, Name: "reader", Email: "reader@example.com", Role: authsdk.RoleUser}
}

func shortID() string {
	return uuid.NewString()[:8]
}

// CreateTestUser creates a test user with unique email
func CreateTestUser(db *gorm.DB, opts ...UserOption) *user.User {
	id := shortID()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	testUser := &user.User{
		Name:         "Test User " + id,
		Email:        fmt.Sprintf("test_%s@example.com", id),
		PasswordHash: string(hash),
		Role:         user.RoleUser,
	}
	for _, opt := range opts {
		opt(testUser)
	}

	if err := db.Create(testUser).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test user: %v", err))
	}
	return testUser
}

// UserOption configures test user
type UserOption func(*user.User)

func WithEmail(email string) UserOption {
	return func(u *user.User) {
		u.Email = email
	}
}

func WithRole(role string) UserOption {
	return func(u *user.User) {
		u.Role = role
	}
}

// WithPassword 使用 MinCost 生成哈希，避免拖慢测试
func WithPassword(password string) UserOption {
	return func(u *user.User) {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		u.PasswordHash = string(hash)
	}
}

// CreateTestCategory creates a test category
func CreateTestCategory(db *gorm.DB, opts ...CategoryOption) *wiki.Category {
	c := &wiki.Category{Name: "Category " + shortID()}
	for _, opt := range opts {
		opt(c)
	}
	c.Slug = slug.Make(c.Name)

	if err := db.Create(c).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test category: %v", err))
	}
	return c
}

type CategoryOption func(*wiki.Category)

func WithCategoryName(name string) CategoryOption {
	return func(c *wiki.Category) {
		c.Name = name
	}
}

func WithCategoryDescription(desc string) CategoryOption {
	return func(c *wiki.Category) {
		c.Description = &desc
	}
}

// CreateTestTag creates a test tag
func CreateTestTag(db *gorm.DB, name ...string) *wiki.Tag {
	n := "tag " + shortID()
	if len(name) > 0 {
		n = name[0]
	}
	t := &wiki.Tag{Name: n, Slug: slug.Make(n)}
	if err := db.Create(t).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test tag: %v", err))
	}
	return t
}

// CreateTestGuideline 直接写库创建指南（含一条初始修订），绕过 service
func CreateTestGuideline(db *gorm.DB, categoryID uint, opts ...GuidelineOption) *wiki.Guideline {
	g := &wiki.Guideline{
		Title:      "Guideline " + shortID(),
		Content:    "# Initial content",
		CategoryID: categoryID,
	}
	var tags []*wiki.Tag
	for _, opt := range opts {
		opt(g, &tags)
	}
	g.Slug = slug.Make(g.Title)

	if err := db.Omit("Tags", "References", "Revisions", "Category").Create(g).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test guideline: %v", err))
	}
	for _, t := range tags {
		if err := db.Create(&wiki.GuidelineTag{GuidelineID: g.ID, TagID: t.ID}).Error; err != nil {
			panic(fmt.Sprintf("Failed to link test tag: %v", err))
		}
	}
	if err := db.Create(&wiki.Revision{GuidelineID: g.ID, Content: g.Content}).Error; err != nil {
		panic(fmt.Sprintf("Failed to create test revision: %v", err))
	}
	return g
}

type GuidelineOption func(*wiki.Guideline, *[]*wiki.Tag)

func WithTitle(title string) GuidelineOption {
	return func(g *wiki.Guideline, _ *[]*wiki.Tag) {
		g.Title = title
	}
}

func WithContent(content string) GuidelineOption {
	return func(g *wiki.Guideline, _ *[]*wiki.Tag) {
		g.Content = content
	}
}

func WithTags(tags ...*wiki.Tag) GuidelineOption {
	return func(_ *wiki.Guideline, out *[]*wiki.Tag) {
		*out = append(*out, tags...)
	}
}

// TagIDsOf 读取指南当前关联的标签 ID（升序）
func TagIDsOf(db *gorm.DB, guidelineID uint) []uint {
	var ids []uint
	db.Model(&wiki.GuidelineTag{}).Where("guideline_id = ?", guidelineID).Order("tag_id ASC").Pluck("tag_id", &ids)
	return ids
}

// Count 统计表中满足条件的行数
func Count(db *gorm.DB, model any, query string, args ...any) int64 {
	var n int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	q.Count(&n)
	return n
}
