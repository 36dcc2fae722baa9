package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/groundviewhq/groundview/internal/domain"
)

// ImageRepository handles image metadata access. Every method that takes a
// tenant applies the filter inside the query; an empty tenant means
// unrestricted. This is the single scoping point for tenant isolation.
type ImageRepository struct {
	db *gorm.DB
}

// NewImageRepository creates a new ImageRepository.
func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// scoped applies the tenant filter when a tenant is given.
func scoped(q *gorm.DB, tenant string) *gorm.DB {
	if tenant != "" {
		q = q.Where("project_slug = ?", tenant)
	}
	return q
}

// GetByID retrieves one image, tenant-scoped.
func (r *ImageRepository) GetByID(ctx context.Context, id int64, tenant string) (*domain.Image, error) {
	var img domain.Image
	q := scoped(r.db.WithContext(ctx), tenant)
	if err := q.First(&img, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

// GetByIDs retrieves images by id list, tenant-scoped. Missing ids are
// silently absent from the result.
func (r *ImageRepository) GetByIDs(ctx context.Context, ids []int64, tenant string) ([]domain.Image, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var images []domain.Image
	q := scoped(r.db.WithContext(ctx), tenant)
	if err := q.Where("id IN ?", ids).Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Browse lists images without a query. Tenant-scoped listings order by
// path so job folders read in sequence; the global listing orders by id
// and is capped.
func (r *ImageRepository) Browse(ctx context.Context, tenant, folder string, favoritesOnly bool, limit int) ([]domain.Image, error) {
	var images []domain.Image
	q := scoped(r.db.WithContext(ctx), tenant)
	if folder != "" {
		q = q.Where("folder = ?", folder)
	}
	if favoritesOnly {
		q = q.Where("favorite = ?", true)
	}
	if tenant != "" {
		q = q.Order("file_path ASC")
	} else {
		q = q.Order("id")
	}
	if tenant == "" && folder == "" {
		q = q.Limit(limit)
	}
	if err := q.Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// KeywordSearch matches the query as a substring of the filename or the
// rich-tag text, case-insensitively, tenant-scoped.
func (r *ImageRepository) KeywordSearch(ctx context.Context, query, tenant string, limit int) ([]domain.Image, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	var images []domain.Image
	q := scoped(r.db.WithContext(ctx), tenant)
	if err := q.
		Where("LOWER(filename) LIKE ? OR LOWER(rich_tags) LIKE ?", pattern, pattern).
		Limit(limit).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// RecentAfter lists a tenant's newest "after" images.
func (r *ImageRepository) RecentAfter(ctx context.Context, tenant string, limit int) ([]domain.Image, error) {
	var images []domain.Image
	q := scoped(r.db.WithContext(ctx), tenant)
	if err := q.
		Where("phase = ?", domain.PhaseAfter).
		Order("created_at DESC").
		Limit(limit).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// ContextAssets fetches the before/during siblings for a set of project
// containers, tenant-scoped.
func (r *ImageRepository) ContextAssets(ctx context.Context, containerIDs []string, tenant string) ([]domain.Image, error) {
	if len(containerIDs) == 0 {
		return nil, nil
	}
	var images []domain.Image
	q := scoped(r.db.WithContext(ctx), tenant)
	if err := q.
		Where("project_container_id IN ?", containerIDs).
		Where("phase IN ?", []string{domain.PhaseBefore, domain.PhaseDuring}).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Folders lists the distinct folders for a tenant.
func (r *ImageRepository) Folders(ctx context.Context, tenant string) ([]string, error) {
	var folders []string
	q := scoped(r.db.WithContext(ctx).Model(&domain.Image{}), tenant)
	if err := q.
		Where("folder <> ''").
		Distinct("folder").
		Order("folder").
		Pluck("folder", &folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// SetFavorite updates the favorite flag, tenant-scoped.
func (r *ImageRepository) SetFavorite(ctx context.Context, id int64, tenant string, favorite bool) error {
	q := scoped(r.db.WithContext(ctx).Model(&domain.Image{}), tenant)
	res := q.Where("id = ?", id).Update("favorite", favorite)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetNotes updates the free-text notes, tenant-scoped.
func (r *ImageRepository) SetNotes(ctx context.Context, id int64, tenant, notes string) error {
	q := scoped(r.db.WithContext(ctx).Model(&domain.Image{}), tenant)
	res := q.Where("id = ?", id).Update("notes", notes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes an image row, tenant-scoped. The caller is responsible
// for removing the matching index vector.
func (r *ImageRepository) Delete(ctx context.Context, id int64, tenant string) error {
	q := scoped(r.db.WithContext(ctx), tenant)
	res := q.Delete(&domain.Image{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
