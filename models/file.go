package models

import "time"

// MaxFileSize is the largest artifact accepted for upload (50 MiB).
const MaxFileSize int64 = 50 << 20

// File is upload metadata. Locator is relative to the artifact store
// root; the bytes themselves never touch the database.
type File struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OriginalName string    `gorm:"size:255;not null" json:"original_name"`
	Locator      string    `gorm:"type:text;not null" json:"locator"`
	SizeBytes    int64     `gorm:"not null" json:"size_bytes"`
	MediaType    string    `gorm:"size:100;not null" json:"media_type"`
	UploadedBy   uint      `gorm:"not null;index" json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}
