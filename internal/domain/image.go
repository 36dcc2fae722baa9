package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Phase values for images that belong to a documented job.
const (
	PhaseBefore = "before"
	PhaseDuring = "during"
	PhaseAfter  = "after"
)

// StringArray stores a string slice as JSON in a text column.
type StringArray []string

// Value implements driver.Valuer.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// ScoreMap stores per-tag confidence scores as JSON in a text column.
type ScoreMap map[string]float32

// Value implements driver.Valuer.
func (m ScoreMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (m *ScoreMap) Scan(value interface{}) error {
	if value == nil {
		*m = ScoreMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan ScoreMap")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// Image represents one catalog photo with its enrichment metadata.
// The image's vector in the index is keyed by ID; at most one current
// vector exists per image.
type Image struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	FilePath string `gorm:"type:text;uniqueIndex:idx_images_path;not null" json:"file_path"`
	Filename string `gorm:"type:text" json:"filename"`
	Folder   string `gorm:"type:text;index:idx_images_folder" json:"folder"`

	// ProjectSlug is the tenant partition key. Every tenant-scoped read
	// filters on it at the repository boundary.
	ProjectSlug string `gorm:"column:project_slug;type:text;index:idx_images_slug" json:"project_slug"`

	// Phase tags job-documentation images: before, during, after.
	Phase string `gorm:"type:text;index:idx_images_phase" json:"phase,omitempty"`

	// ContainerID groups the images of one completed job.
	ContainerID string `gorm:"column:project_container_id;type:text;index:idx_images_container" json:"project_container_id,omitempty"`

	Favorite bool   `json:"favorite"`
	Notes    string `gorm:"type:text" json:"notes,omitempty"`

	Tags        StringArray `gorm:"type:text" json:"tags"`
	StyleScores ScoreMap    `gorm:"type:text" json:"style_scores,omitempty"`
	Caption     string      `gorm:"type:text" json:"caption,omitempty"`
	RichTags    StringArray `gorm:"type:text" json:"rich_tags,omitempty"`

	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Image.
func (Image) TableName() string {
	return "images"
}

// ImageResult is an Image decorated with a ranking score. The score orders
// results within one response and is never persisted.
type ImageResult struct {
	Image
	Score float32 `json:"score"`
}
