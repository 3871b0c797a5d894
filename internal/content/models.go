package content

import (
	"time"

	"github.com/lib/pq"
)

// Content entities. Every table carries a unique slug derived from its
// name/title; numeric ids stay the primary key.

type Story struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"not null" json:"title"`
	Slug      string `gorm:"not null;uniqueIndex" json:"slug"`
	Content   string `json:"content"`
	Excerpt   string `json:"excerpt"`
	AuthorID  *uint  `json:"author_id"`
	Featured  bool   `gorm:"default:false" json:"featured"`
	Published bool   `gorm:"default:false" json:"published"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Author struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"not null" json:"name"`
	Slug      string `gorm:"not null;uniqueIndex" json:"slug"`
	Bio       string `json:"bio"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Tag struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Slug        string `gorm:"not null;uniqueIndex" json:"slug"`
	Description string `json:"description"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Game struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"not null;uniqueIndex" json:"slug"`
	Description string `json:"description"`
	EmbedURL    string `json:"embed_url"`
	Category    string `gorm:"index" json:"category"`
	Published   bool   `gorm:"default:false" json:"published"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BlogPost struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Slug        string `gorm:"not null;uniqueIndex" json:"slug"`
	Content     string `json:"content"`
	Excerpt     string `json:"excerpt"`
	AuthorID    *uint  `json:"author_id"`
	Published   bool   `gorm:"default:false" json:"published"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DirectoryItem struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"not null;uniqueIndex" json:"slug"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	Category    string         `gorm:"index" json:"category"`
	Keywords    pq.StringArray `gorm:"type:text[]" json:"keywords"`
	Featured    bool           `gorm:"default:false" json:"featured"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type AiTool struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"not null;uniqueIndex" json:"slug"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	Category    string         `gorm:"index" json:"category"`
	Features    pq.StringArray `gorm:"type:text[]" json:"features"`
	Pricing     string         `json:"pricing"`
	Featured    bool           `gorm:"default:false" json:"featured"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Story) TableName() string         { return "content.stories" }
func (Author) TableName() string        { return "content.authors" }
func (Tag) TableName() string           { return "content.tags" }
func (Game) TableName() string          { return "content.games" }
func (BlogPost) TableName() string      { return "content.blog_posts" }
func (DirectoryItem) TableName() string { return "content.directory_items" }
func (AiTool) TableName() string        { return "content.ai_tools" }
