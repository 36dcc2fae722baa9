package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/pgvector/pgvector-go"
)

// Polygon stores an object outline as JSON-encoded [x,y] pairs.
type Polygon [][2]float32

// Value implements driver.Valuer.
func (p Polygon) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (p *Polygon) Scan(value interface{}) error {
	if value == nil {
		*p = Polygon{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan Polygon")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, p)
}

// DetectedObject is a segmented region of one Image with its own embedding.
// Object embeddings live in the relational store and are compared with the
// pgvector distance operator, independent of the image-level index.
type DetectedObject struct {
	ID         string          `gorm:"type:text;primaryKey" json:"id"`
	ImageID    int64           `gorm:"not null;index:idx_image_objects_image" json:"image_id"`
	Label      string          `gorm:"type:text;index:idx_image_objects_label" json:"label"`
	Confidence float32         `json:"confidence"`
	Outline    Polygon         `gorm:"column:polygon;type:text" json:"polygon,omitempty"`
	Embedding  pgvector.Vector `gorm:"column:object_embedding;type:vector(512)" json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName returns the database table name for DetectedObject.
func (DetectedObject) TableName() string {
	return "image_objects"
}

// ObjectMatch is one row of an object-distance query: an object hit joined
// to its parent image, ordered by ascending embedding distance.
type ObjectMatch struct {
	ObjectID   string  `json:"object_id"`
	ImageID    int64   `json:"image_id"`
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
	Distance   float32 `json:"distance"`
}
