package models

import "time"

// MaxCommentLen caps comment content length.
const MaxCommentLen = 1000

// Comment represents a reader comment on a post. Author identity is captured
// at creation time rather than live-joined, so renames do not rewrite
// history. One level of threading is modeled: a reply's ParentID points at a
// top-level comment.
//
// Comments are hard-deleted: removing one must actually remove the row and
// its direct replies, not leave tombstones behind.
type Comment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PostID      uint       `gorm:"not null;index" json:"post_id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	AuthorName  string     `gorm:"size:120" json:"author_name"`
	AuthorEmail string     `gorm:"size:254" json:"author_email"`
	Content     string     `gorm:"size:1000;not null" json:"content"`
	ParentID    *uint      `gorm:"index" json:"parent_id,omitempty"`
	// Approved is always true today; moderation is not implemented.
	Approved  bool       `gorm:"not null;default:true" json:"approved"`
	CreatedAt time.Time  `json:"created_at"`
	EditedAt  *time.Time `json:"edited_at,omitempty"`
}
