package postapp

import (
	"context"
	"fmt"
	"minisocial/internal/apperror"
	"minisocial/internal/core/feed"
	"minisocial/internal/core/user"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// canonicalMIME is the only declared type accepted for each extension.
var canonicalMIME = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

// UploadPolicy limits what AttachImage accepts.
type UploadPolicy struct {
	AllowedExt map[string]bool
	MaxBytes   int64
}

// Upload is an image as received from the client.
type Upload struct {
	Filename string
	MIMEType string
	Data     []byte
}

// AttachImage stores img and points the post at it. The previous image is
// removed only after the new path has been saved.
func (s *PostService) AttachImage(ctx context.Context, postID uuid.UUID, owner *user.User, img Upload) (*feed.EnrichedPost, error) {
	p, err := s.ownedPost(ctx, postID, owner)
	if err != nil {
		return nil, err
	}
	ext, err := s.uploads.check(img)
	if err != nil {
		return nil, err
	}

	now := s.now()
	filename := fmt.Sprintf("post%s_%d.%s", postID, now.UnixNano(), ext)
	path, err := s.storage.Store(ctx, filename, img.Data)
	if err != nil {
		s.logger.Error("Error storing image", zap.String("postID", postID.String()), zap.Error(err))
		return nil, apperror.Internal("could not store image", err)
	}

	if err := s.PostRepository.UpdateImage(ctx, postID, path, now); err != nil {
		if delErr := s.storage.Delete(ctx, path); delErr != nil {
			s.logger.Warn("Error removing orphaned image", zap.String("path", path), zap.Error(delErr))
		}
		return nil, apperror.Internal("could not save image path", err)
	}

	if p.ImagePath != nil && *p.ImagePath != path {
		if err := s.storage.Delete(ctx, *p.ImagePath); err != nil {
			s.logger.Warn("Error removing previous image", zap.String("path", *p.ImagePath), zap.Error(err))
		}
	}
	return s.reader.GetPost(ctx, postID, owner)
}

// check validates img and returns its lower-case extension.
func (u UploadPolicy) check(img Upload) (string, error) {
	if len(img.Data) == 0 {
		return "", apperror.Validation("file is empty")
	}
	if u.MaxBytes > 0 && int64(len(img.Data)) > u.MaxBytes {
		return "", apperror.Validation(fmt.Sprintf("file exceeds %d bytes", u.MaxBytes))
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(img.Filename), "."))
	if ext == "" || !u.AllowedExt[ext] {
		return "", apperror.Validation("file extension not allowed")
	}

	declared := normalizeMIME(img.MIMEType)
	want, ok := canonicalMIME[ext]
	if !ok || declared != want {
		return "", apperror.Validation("file type does not match extension")
	}

	if !mimetype.Detect(img.Data).Is(declared) {
		return "", apperror.Validation("file content does not match declared type")
	}
	return ext, nil
}

func normalizeMIME(raw string) string {
	mt, _, _ := strings.Cut(raw, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
