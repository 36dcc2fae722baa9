package domain

import "time"

// Collection is a named, tenant-scoped set of images. Vision boards are
// analyzed either from an explicit id list or from a collection.
type Collection struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:text;not null;uniqueIndex:idx_collections_name" json:"name"`
	ProjectSlug string    `gorm:"column:project_slug;type:text;index:idx_collections_slug;uniqueIndex:idx_collections_name" json:"project_slug"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName returns the database table name for Collection.
func (Collection) TableName() string {
	return "collections"
}

// CollectionItem links an image into a collection.
type CollectionItem struct {
	CollectionID int64     `gorm:"primaryKey" json:"collection_id"`
	ImageID      int64     `gorm:"primaryKey" json:"image_id"`
	AddedAt      time.Time `json:"added_at"`
}

// TableName returns the database table name for CollectionItem.
func (CollectionItem) TableName() string {
	return "collection_items"
}
