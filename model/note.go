package model

import "time"

// Note tags form a closed set; TagPersonal is the default.
const (
	TagWork     = "work"
	TagPersonal = "personal"
	TagResearch = "research"
)

// ValidTag reports whether s is one of the known note tags.
func ValidTag(s string) bool {
	return s == TagWork || s == TagPersonal || s == TagResearch
}

// Note 笔记模型
//
// Title uniqueness is scoped to the owner: the composite unique index on
// (user_id, title) is the authoritative check, the service-level existence
// query is only there to produce a friendly error without a round trip to
// the constraint. Title matching is exact; MySQL deployments should use a
// binary collation so the index agrees.
type Note struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_owner_title" json:"user_id"`
	Title     string    `gorm:"not null;size:100;uniqueIndex:idx_owner_title" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Keywords  []string  `gorm:"serializer:json" json:"keywords"`
	Tag       string    `gorm:"size:20;default:personal" json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}
