package attachment

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	attachmenterrors "e-approval/internal/attachment/errors"
	"e-approval/internal/shared/apperror"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultMaxFileSize int64 = 5 * 1024 * 1024

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// Containers that sniffing cannot tell apart from office documents.
var genericContainers = map[string]bool{
	"application/octet-stream":  true,
	"application/zip":           true,
	"application/x-ole-storage": true,
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type Stored struct {
	OriginalName string `json:"original_name"`
	FileName     string `json:"file_name"`
	URL          string `json:"url"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

//go:generate mockgen -source=attachment_store.go -destination=mock/attachment_store_mock.go -package=mock
type Store interface {
	Store(ctx context.Context, data []byte, mimeType, originalName string) (Stored, error)
}

type localStore struct {
	baseDir       string
	publicBaseURL string
	maxSize       int64
	now           func() time.Time
	logger        *zap.Logger
}

// NewLocalStore keeps files under baseDir and hands out URLs below publicBaseURL.
func NewLocalStore(baseDir, publicBaseURL string, maxSize int64, logger ...*zap.Logger) (Store, error) {
	l := zap.L().Named("attachment.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attachment.store")
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &localStore{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		maxSize:       maxSize,
		now:           time.Now,
		logger:        l,
	}, nil
}

func (s *localStore) Store(ctx context.Context, data []byte, mimeType, originalName string) (Stored, error) {
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}
	if len(data) == 0 {
		return Stored{}, attachmenterrors.ErrEmptyFile
	}
	if int64(len(data)) > s.maxSize {
		return Stored{}, attachmenterrors.ErrFileTooLarge
	}

	resolved, ok := ResolveMimeType(data, mimeType)
	if !ok {
		s.logger.Warn("attachment rejected",
			zap.String("original_name", originalName),
			zap.String("declared_type", mimeType),
			zap.String("detected_type", resolved),
		)
		return Stored{}, attachmenterrors.ErrUnsupportedType
	}

	now := s.now()
	rel := path.Join(now.Format("2006"), now.Format("01"), uuid.NewString()+"-"+SanitizeName(originalName))
	target := filepath.Join(s.baseDir, filepath.FromSlash(rel))

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Stored{}, apperror.Wrap(err, attachmenterrors.ErrStorageFailed.Code, attachmenterrors.ErrStorageFailed.Message, attachmenterrors.ErrStorageFailed.HTTPStatus)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return Stored{}, apperror.Wrap(err, attachmenterrors.ErrStorageFailed.Code, attachmenterrors.ErrStorageFailed.Message, attachmenterrors.ErrStorageFailed.HTTPStatus)
	}

	s.logger.Debug("attachment stored",
		zap.String("original_name", originalName),
		zap.String("path", rel),
		zap.Int("size", len(data)),
	)

	return Stored{
		OriginalName: originalName,
		FileName:     path.Base(rel),
		URL:          s.publicBaseURL + "/" + rel,
		MimeType:     resolved,
		Size:         int64(len(data)),
	}, nil
}

// ResolveMimeType sniffs data and reports the type to record and whether it is accepted.
// The declared type is trusted only when sniffing finds a generic container.
func ResolveMimeType(data []byte, declared string) (string, bool) {
	detected := baseType(mimetype.Detect(data).String())
	if IsAllowed(detected) {
		return detected, true
	}

	declared = baseType(declared)
	if genericContainers[detected] && IsAllowed(declared) && !strings.HasPrefix(declared, "image/") {
		return declared, true
	}
	return detected, false
}

func IsAllowed(mimeType string) bool {
	mimeType = baseType(mimeType)
	return allowedMimeTypes[mimeType] || strings.HasPrefix(mimeType, "image/")
}

// SanitizeName keeps the extension and a filesystem-safe stem.
func SanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = unsafeNameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "file"
	}
	if len(name) > 120 {
		ext := filepath.Ext(name)
		if len(ext) > 20 {
			ext = ""
		}
		name = name[:120-len(ext)] + ext
	}
	return name
}

func baseType(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
