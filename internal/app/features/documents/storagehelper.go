package documents

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// objectPath builds documents/YYYY/MM/<unixms>-<uuid8>-<name>.
func objectPath(now time.Time, filename string) string {
	now = now.UTC()
	dir := fmt.Sprintf("documents/%04d/%02d", now.Year(), now.Month())
	name := fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.New().String()[:8], sanitizeFilename(filename))
	return path.Join(dir, name)
}

func putPDF(ctx context.Context, files FileStore, p string, r io.Reader) error {
	if err := files.Put(ctx, p, r, &storage.PutOptions{ContentType: pdfType}); err != nil {
		return fmt.Errorf("store %s: %w", p, err)
	}
	return nil
}

// sanitizeFilename keeps letters, digits, '-', '_' and '.'; everything else
// becomes '_'. Long names are cut to 100 bytes, keeping the extension.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if filename == "." || filename == "/" {
		filename = ""
	}

	clean := strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			return c
		}
		return '_'
	}, filename)

	if clean == "" {
		return "document.pdf"
	}
	if len(clean) > 100 {
		ext := filepath.Ext(clean)
		if len(ext) > 0 && len(ext) < 10 {
			clean = clean[:100-len(ext)] + ext
		} else {
			clean = clean[:100]
		}
	}
	return clean
}
