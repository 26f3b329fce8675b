package db

import "time"

// Article is one stored news row. Companies holds a JSON-encoded string list.
type Article struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string    `gorm:"column:title;type:text;not null;default:''"`
	URL       string    `gorm:"column:url;type:text;not null;uniqueIndex:ux_articles_url"`
	Source    string    `gorm:"column:source;type:text;not null;default:''"`
	Category  string    `gorm:"column:category;type:text;not null;default:''"`
	Summary   string    `gorm:"column:summary;type:text;not null;default:''"`
	Published string    `gorm:"column:published;type:text;not null;default:''"`
	FetchedAt string    `gorm:"column:fetched_at;type:text;not null;default:''"`
	Companies string    `gorm:"column:companies;type:text;not null;default:'[]'"`
	TitleKey  string    `gorm:"column:title_key;type:text;not null;default:'';index:ix_articles_title_key"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (Article) TableName() string { return "articles" }

func autoMigrateModels() []any {
	return []any{
		&Article{},
	}
}
