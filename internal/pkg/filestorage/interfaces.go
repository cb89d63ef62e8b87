package filestorage

import (
	"errors"
	"mime/multipart"
)

// Upload folders under the storage root
const (
	ResumeFolder         = "resumes"
	ProfilePictureFolder = "profile_pictures"
)

// ErrUnsupportedFile is returned when an upload fails its Policy
var ErrUnsupportedFile = errors.New("unsupported file")

// Policy restricts what may be stored in a folder
type Policy struct {
	Extensions []string // lower case, with the dot
	MaxBytes   int64
}

// Upload policies for the two kinds of user files
var (
	ResumePolicy = Policy{
		Extensions: []string{".pdf", ".doc", ".docx"},
		MaxBytes:   5 << 20,
	}
	ImagePolicy = Policy{
		Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		MaxBytes:   2 << 20,
	}
)

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFileWithPath stores the upload under folder and returns its public URL
	SaveFileWithPath(fileHeader *multipart.FileHeader, folder string, policy Policy) (string, error)

	// DeleteFile removes a file previously returned by SaveFileWithPath
	DeleteFile(fileURL string) error
}
