package aiquiz

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
	"github.com/saulo-duarte/quizforge-lambda/internal/llm"
	"github.com/saulo-duarte/quizforge-lambda/internal/storage"
)

// AllowedMIMETypes lists the attachment types the model accepts.
var AllowedMIMETypes = map[string]struct{}{
	"application/pdf": {},
	"text/plain":      {},
	"text/csv":        {},
	"text/markdown":   {},
	"text/html":       {},
	"image/png":       {},
	"image/jpeg":      {},
	"image/webp":      {},
	"image/heic":      {},
	"image/heif":      {},
	"audio/mpeg":      {},
	"audio/mp3":       {},
	"audio/wav":       {},
	"audio/x-wav":     {},
	"audio/aac":       {},
	"audio/ogg":       {},
	"audio/flac":      {},
	"audio/x-flac":    {},
	"video/mp4":       {},
	"video/mpeg":      {},
	"video/quicktime": {},
	"video/webm":      {},
}

func IsAllowedMIME(mt string) bool {
	_, ok := AllowedMIMETypes[strings.ToLower(mt)]
	return ok
}

type material struct {
	source     Source
	attachment *llm.Attachment
}

func resolveMaterial(ctx context.Context, store storage.Store, owner string, req GenerateRequest) (*material, error) {
	fileRef := strings.TrimSpace(req.FileRef)
	rawURL := strings.TrimSpace(req.URL)

	switch {
	case fileRef != "" && rawURL != "":
		return nil, apperr.Validation("file_ref", "cannot be combined with url")
	case rawURL != "":
		u, err := url.ParseRequestURI(rawURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, apperr.Validation("url", "must be an absolute http(s) URL")
		}
		return &material{source: Source{URL: u.String()}}, nil
	case fileRef != "":
		obj, err := store.Get(ctx, owner, fileRef)
		if err != nil {
			return nil, err
		}
		if !IsAllowedMIME(obj.MIMEType) {
			return nil, fmt.Errorf("%s is %s: %w", fileRef, obj.MIMEType, apperr.ErrUnsupportedContent)
		}
		return &material{
			source:     Source{FileName: path.Base(obj.Ref)},
			attachment: &llm.Attachment{Data: obj.Data, MIMEType: obj.MIMEType},
		}, nil
	default:
		return nil, apperr.Validation("file_ref", "a file_ref or url is required")
	}
}
