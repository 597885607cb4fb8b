package models

import (
	"time"

	"gorm.io/gorm"
)

// PostStatus is the explicit lifecycle state of a post.
type PostStatus string

const (
	// StatusDraft marks a post whose article text is persisted but whose
	// cover image has not been attached yet. Drafts are retryable.
	StatusDraft PostStatus = "draft"
	// StatusPublished marks a post visible on the public API.
	StatusPublished PostStatus = "published"
	// StatusFailed marks a post whose finalization update errored after the
	// cover image was already produced.
	StatusFailed PostStatus = "failed"
)

// Post represents a blog article, either generated by the content pipeline or
// created manually by an admin.
type Post struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Slug            string     `gorm:"size:160;index" json:"slug"`
	Title           string     `gorm:"not null" json:"title"`
	MetaDescription string     `gorm:"type:text" json:"meta_description"`
	Tags            []string   `gorm:"serializer:json" json:"tags"`
	ContentHTML     string     `gorm:"type:text" json:"content_html"`
	Images          []string   `gorm:"serializer:json" json:"images"`
	Status          PostStatus `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	// AuthorID is nil for pipeline-generated posts.
	AuthorID  *uint          `gorm:"index" json:"author_id,omitempty"`
	Author    *User          `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
