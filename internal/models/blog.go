package models

import "time"

// BlogPost is a Markdown article. PublishedAt is stamped whenever the post
// is saved with status published.
type BlogPost struct {
	Base
	Title         string     `json:"title"          gorm:"not null"`
	Slug          string     `json:"slug"           gorm:"uniqueIndex;not null"`
	Excerpt       *string    `json:"excerpt"        gorm:"type:text"`
	Content       string     `json:"content"        gorm:"type:text;not null"`
	FeaturedImage *string    `json:"featured_image"`
	AuthorID      uint       `json:"author_id"      gorm:"not null;index"`
	Author        *User      `json:"-"              gorm:"foreignKey:AuthorID"`
	Status        PostStatus `json:"status"         gorm:"type:varchar(20);not null;default:draft;index"`
	Views         int        `json:"views"          gorm:"not null;default:0"`
	PublishedAt   *time.Time `json:"published_at"   gorm:"index"`

	// AuthorName is filled by joined reads only.
	AuthorName *string `json:"author_name,omitempty" gorm:"->;-:migration"`
}

func (BlogPost) TableName() string { return "blog_posts" }
