package model

import "time"

// DefaultCategory 创建时未给分类使用的默认值
const DefaultCategory = "General"

// Post 博客文章
type Post struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(24)"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Category  string    `json:"category" gorm:"type:varchar(64);not null;default:General"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"index:idx_post_created;not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (Post) TableName() string { return "blogs" }

// PostPatch 部分更新，nil 表示不修改
type PostPatch struct {
	Title     *string
	Category  *string
	Content   *string
	UpdatedAt time.Time
}
