package repository

import (
	"context"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/groundviewhq/groundview/internal/domain"
)

// ObjectRepository handles detected-object access. Object embeddings are
// compared with the pgvector `<=>` operator inside the store, so these
// queries require the postgres driver.
type ObjectRepository struct {
	db *gorm.DB
}

// NewObjectRepository creates a new ObjectRepository.
func NewObjectRepository(db *gorm.DB) *ObjectRepository {
	return &ObjectRepository{db: db}
}

// GetEmbedding looks up an object's embedding, scoped to the tenant of its
// parent image. Returns gorm.ErrRecordNotFound when the object is absent or
// outside the tenant.
func (r *ObjectRepository) GetEmbedding(ctx context.Context, objectID, tenant string) (pgvector.Vector, error) {
	var row struct {
		Embedding pgvector.Vector `gorm:"column:object_embedding"`
	}
	q := r.db.WithContext(ctx).
		Table("image_objects io").
		Select("io.object_embedding").
		Joins("JOIN images i ON io.image_id = i.id").
		Where("io.id = ?", objectID)
	if tenant != "" {
		q = q.Where("i.project_slug = ?", tenant)
	}
	err := q.Take(&row).Error
	return row.Embedding, err
}

// NearestByEmbedding returns the objects closest to the anchor embedding,
// tenant-scoped through the parent image, ordered by ascending distance.
// The anchor object itself is excluded.
func (r *ObjectRepository) NearestByEmbedding(ctx context.Context, anchor pgvector.Vector, excludeObjectID, tenant string, limit int) ([]domain.ObjectMatch, error) {
	var matches []domain.ObjectMatch
	q := r.db.WithContext(ctx).
		Table("image_objects io").
		Select("io.id AS object_id, io.image_id, io.label, io.confidence, io.object_embedding <=> ? AS distance", anchor).
		Joins("JOIN images i ON io.image_id = i.id").
		Where("io.id <> ?", excludeObjectID)
	if tenant != "" {
		q = q.Where("i.project_slug = ?", tenant)
	}
	err := q.
		Order("distance ASC").
		Limit(limit).
		Scan(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// GetByImage lists the detected objects of one image.
func (r *ObjectRepository) GetByImage(ctx context.Context, imageID int64) ([]domain.DetectedObject, error) {
	var objects []domain.DetectedObject
	if err := r.db.WithContext(ctx).
		Where("image_id = ?", imageID).
		Order("confidence DESC").
		Find(&objects).Error; err != nil {
		return nil, err
	}
	return objects, nil
}
