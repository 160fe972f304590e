// Package storage persists uploaded files and returns their public URLs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/softionyx/site/internal/config"
)

var (
	ErrInvalidType = errors.New("storage: invalid file type")
	ErrTooLarge    = errors.New("storage: file too large")
)

// Storage writes objects under a folder and serves them from a public URL.
type Storage interface {
	Save(ctx context.Context, folder, name, contentType string, r io.Reader) (string, error)
	// Delete removes folder/name. A missing object is not an error.
	Delete(ctx context.Context, folder, name string) error
}

// Object identifies a stored upload.
type Object struct {
	Folder string
	Name   string
	URL    string
}

// bodyOverhead is the room left for multipart framing and the other form
// fields on top of a kind's file limit.
const bodyOverhead = 1 << 20

// Kind describes an accepted upload category.
type Kind struct {
	Folder      string
	MaxSize     int64
	MIMETypes   []string
	TypeMessage string
	SizeMessage string
}

var (
	Resume = Kind{
		Folder:  "resumes",
		MaxSize: 5 << 20,
		MIMETypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		TypeMessage: "Invalid file type. Only PDF, DOC, and DOCX files are allowed.",
		SizeMessage: "File too large. Maximum size is 5MB.",
	}
	Image = Kind{
		Folder:      "images",
		MaxSize:     10 << 20,
		MIMETypes:   []string{"image/jpeg", "image/jpg", "image/png", "image/webp"},
		TypeMessage: "Invalid file type. Only JPG, PNG, and WEBP images are allowed.",
		SizeMessage: "File too large. Maximum size is 10MB.",
	}
)

// Allows reports whether contentType is one of the kind's MIME types.
func (k Kind) Allows(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	for _, m := range k.MIMETypes {
		if ct == m {
			return true
		}
	}
	return false
}

// Check validates a file header against the kind's rules.
func (k Kind) Check(fh *multipart.FileHeader) error {
	if !k.Allows(fh.Header.Get("Content-Type")) {
		return ErrInvalidType
	}
	if fh.Size > k.MaxSize {
		return ErrTooLarge
	}
	return nil
}

// BodyLimit is the largest request body accepted for an upload of this kind.
func (k Kind) BodyLimit() int64 { return k.MaxSize + bodyOverhead }

// LimitBody wraps the request body so parsing stops once BodyLimit bytes
// have been read. Call it before the multipart form is touched.
func (k Kind) LimitBody(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, k.BodyLimit())
}

// TooLarge reports whether err means the upload exceeded its limit, either
// by the file size check or by the request body cap.
func TooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.Is(err, ErrTooLarge) || errors.As(err, &mbe)
}

// Message returns the client-facing text for a Check error.
func (k Kind) Message(err error) string {
	switch {
	case errors.Is(err, ErrInvalidType):
		return k.TypeMessage
	case TooLarge(err):
		return k.SizeMessage
	default:
		return "File upload failed"
	}
}

// Upload checks fh against kind and saves it with a fresh name.
func Upload(ctx context.Context, st Storage, kind Kind, fh *multipart.FileHeader) (Object, error) {
	if err := kind.Check(fh); err != nil {
		return Object{}, err
	}
	f, err := fh.Open()
	if err != nil {
		return Object{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	obj := Object{Folder: kind.Folder, Name: FileName(fh.Filename)}
	// Size can be spoofed in the multipart header; cap the actual read.
	r := &limitedReader{r: f, n: kind.MaxSize}
	obj.URL, err = st.Save(ctx, obj.Folder, obj.Name, fh.Header.Get("Content-Type"), r)
	if err != nil {
		return Object{}, err
	}
	return obj, nil
}

// FileName returns a uuid-based name keeping the original extension.
func FileName(original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return uuid.NewString() + ext
}

// New builds the driver selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.AppConfig) (Storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverS3:
		return NewS3(ctx, cfg.Storage.S3)
	default:
		return NewLocal(cfg.UploadDir(), cfg.BaseURL)
	}
}

type limitedReader struct {
	r io.Reader
	n int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.n < 0 {
		return 0, ErrTooLarge
	}
	if int64(len(p)) > l.n+1 {
		p = p[:l.n+1]
	}
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return n, ErrTooLarge
	}
	return n, err
}
