package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/lib/pq"
)

// File type categories. "other" covers text formats like txt and pptx.
const (
	FileTypePDF   = "pdf"
	FileTypeDoc   = "doc"
	FileTypeZip   = "zip"
	FileTypeMedia = "media"
	FileTypeOther = "other"
)

// TgFile is a retrievable document. It is the unit addressed by search
// results and getfile callbacks.
type TgFile struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"index" json:"title"`
	Description string         `json:"description"`
	FileName    string         `json:"file_name"`
	FilePath    string         `json:"-"`
	FileType    string         `gorm:"index;default:other" json:"file_type"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`

	// Content holds the extracted plain text of text-bearing formats and
	// is what deep search matches against. Empty for everything else.
	Content string `json:"-"`

	SizeInBytes         int64 `json:"size_in_bytes"`
	UploadedByID        *uint `json:"uploaded_by_id"`
	UploadedBy          *User `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	RequireSubscription bool  `gorm:"default:true" json:"require_subscription"`
	CreatedAt           time.Time
}

// DetectFileType infers the category from the file extension. Byte-level
// MIME sniffing is deliberately not done here.
func DetectFileType(name string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "pdf":
		return FileTypePDF
	case "doc", "docx", "odt", "rtf":
		return FileTypeDoc
	case "zip", "rar", "7z", "tar", "gz":
		return FileTypeZip
	case "jpg", "jpeg", "png", "gif", "webp", "mp4", "mov", "mp3", "ogg", "wav":
		return FileTypeMedia
	default:
		return FileTypeOther
	}
}

// TextBearing reports whether the file type can carry extractable text.
func TextBearing(fileType string) bool {
	return fileType == FileTypePDF || fileType == FileTypeDoc || fileType == FileTypeOther
}
