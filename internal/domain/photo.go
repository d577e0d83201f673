package domain

import "time"

type Photo struct {
	ID               string    `json:"id"`
	ReviewID         *string   `json:"reviewId"`
	OriginalFilename string    `json:"originalFilename"`
	StorageKey       string    `json:"storageKey"`
	URL              string    `json:"url"`
	MimeType         string    `json:"mimeType"`
	SizeBytes        int64     `json:"sizeBytes"`
	UploadedAt       time.Time `json:"uploadedAt"`
}

// MaxPhotoSizeBytes caps uploads at 5 MiB.
const MaxPhotoSizeBytes = 5 * 1024 * 1024

var allowedPhotoMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

func ValidPhotoMimeType(mime string) bool { return allowedPhotoMimeTypes[mime] }
