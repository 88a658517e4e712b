package models

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Image is a stored picture attachable to characters and locations. The
// binary payload lives on disk under Dirname/Filename; serialized documents
// carry that path as a content reference and never inline the bytes.
type Image struct {
	ID          uuid.UUID     `db:"id" json:"id"`
	UserID      uuid.UUID     `db:"user_id" json:"userId"`
	Filename    string        `db:"filename" json:"filename"`
	Dirname     string        `db:"dirname" json:"dirname"`
	SizeBytes   int64         `db:"size_bytes" json:"sizeBytes"`
	MimeType    ImageMimeType `db:"mime_type" json:"mimeType"`
	Caption     string        `db:"caption" json:"caption"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`
}

// Path returns the on-disk content reference for the payload.
func (i *Image) Path() string {
	return filepath.Join(i.Dirname, i.Filename)
}

// Validate checks the file reference and mime type.
func (i *Image) Validate() error {
	i.Filename = strings.TrimSpace(i.Filename)
	i.Dirname = strings.TrimSpace(i.Dirname)
	if i.Filename == "" {
		return fmt.Errorf("an image filename is required: %w", ErrValidation)
	}
	if i.SizeBytes < 0 {
		return fmt.Errorf("image size cannot be negative: %w", ErrValidation)
	}
	if !i.MimeType.Valid() {
		return fmt.Errorf("unsupported image mime type %q: %w", i.MimeType, ErrValidation)
	}
	if len(i.Caption) > maxTitleLen {
		return fmt.Errorf("image caption exceeds %d characters: %w", maxTitleLen, ErrValidation)
	}
	return nil
}
