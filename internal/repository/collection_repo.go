package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/groundviewhq/groundview/internal/domain"
)

// CollectionRepository handles named image sets (vision-board sources).
type CollectionRepository struct {
	db *gorm.DB
}

// NewCollectionRepository creates a new CollectionRepository.
func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// Create inserts a new collection for a tenant.
func (r *CollectionRepository) Create(ctx context.Context, c *domain.Collection) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// List returns a tenant's collections.
func (r *CollectionRepository) List(ctx context.Context, tenant string) ([]domain.Collection, error) {
	var collections []domain.Collection
	q := scoped(r.db.WithContext(ctx), tenant)
	if err := q.Order("created_at DESC").Find(&collections).Error; err != nil {
		return nil, err
	}
	return collections, nil
}

// Get retrieves one collection, tenant-scoped.
func (r *CollectionRepository) Get(ctx context.Context, id int64, tenant string) (*domain.Collection, error) {
	var c domain.Collection
	q := scoped(r.db.WithContext(ctx), tenant)
	if err := q.First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// AddItem links an image into a collection.
func (r *CollectionRepository) AddItem(ctx context.Context, collectionID, imageID int64) error {
	item := domain.CollectionItem{CollectionID: collectionID, ImageID: imageID}
	return r.db.WithContext(ctx).Create(&item).Error
}

// RemoveItem unlinks an image from a collection.
func (r *CollectionRepository) RemoveItem(ctx context.Context, collectionID, imageID int64) error {
	return r.db.WithContext(ctx).
		Delete(&domain.CollectionItem{}, "collection_id = ? AND image_id = ?", collectionID, imageID).Error
}

// ImageIDs lists the image ids of one collection in insertion order.
func (r *CollectionRepository) ImageIDs(ctx context.Context, collectionID int64) ([]int64, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&domain.CollectionItem{}).
		Where("collection_id = ?", collectionID).
		Order("added_at ASC").
		Pluck("image_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
