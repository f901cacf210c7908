// Package storage resolves uploaded file references into bytes and a MIME type.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/saulo-duarte/quizforge-lambda/internal/apperr"
)

// MaxObjectSize bounds what is handed to the language model as an attachment.
const MaxObjectSize = 20 << 20

type Object struct {
	Ref      string
	Owner    string
	MIMEType string
	Data     []byte
}

type Store interface {
	Get(ctx context.Context, owner, ref string) (*Object, error)
}

type diskStore struct {
	root string
}

// NewDiskStore serves objects laid out as <root>/<owner>/<ref>.
func NewDiskStore(root string) Store {
	return &diskStore{root: root}
}

func (s *diskStore) Get(ctx context.Context, owner, ref string) (*Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanRef(ref)
	if err != nil {
		return nil, err
	}
	if owner == "" || strings.ContainsAny(owner, `/\`) || owner == "." || owner == ".." {
		return nil, apperr.Validation("owner", "invalid owner")
	}

	full := filepath.Join(s.root, owner, filepath.FromSlash(clean))
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %q: %w", ref, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open %q: %w", ref, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("file %q: %w", ref, apperr.ErrNotFound)
	}
	if info.Size() > MaxObjectSize {
		return nil, fmt.Errorf("file %q is %d bytes: %w", ref, info.Size(), apperr.ErrContentTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", ref, err)
	}

	return &Object{
		Ref:      clean,
		Owner:    owner,
		MIMEType: DetectMIME(clean, data),
		Data:     data,
	}, nil
}

func cleanRef(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", apperr.Validation("fileRef", "is required")
	}
	if strings.Contains(ref, `\`) || path.IsAbs(ref) {
		return "", apperr.Validation("fileRef", "must be a relative reference")
	}
	clean := path.Clean(ref)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", apperr.Validation("fileRef", "must not leave the owner's folder")
	}
	return clean, nil
}

// DetectMIME sniffs the content, falling back to the file extension for text formats the
// sniffer reports as plain text.
func DetectMIME(name string, data []byte) string {
	detected := mimetype.Detect(data)
	mt := baseType(detected.String())

	if mt != "text/plain" && mt != "application/octet-stream" {
		return mt
	}
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case ".md", ".markdown":
		return "text/markdown"
	case ".csv":
		return "text/csv"
	}
	if byExt := baseType(mime.TypeByExtension(ext)); byExt != "" {
		return byExt
	}
	return mt
}

func baseType(v string) string {
	if v == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(v)
	if err != nil {
		return strings.TrimSpace(strings.SplitN(v, ";", 2)[0])
	}
	return mt
}
