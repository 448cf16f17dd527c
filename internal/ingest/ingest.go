// Package ingest loads a scanned voter-list document from disk and
// prepares it for extraction and persistence.
package ingest

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/boothworks/voterscan/internal/model"
)

// maxDocumentBytes caps the file size we are willing to base64-encode
// and send to the API. Scanned pages are well under this.
const maxDocumentBytes = 32 << 20

// extensionTypes maps known file extensions to their media type.
// Extension wins over content sniffing so that a mislabeled-but-named
// file keeps its declared type.
var extensionTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".webp": "image/webp",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
}

// supportedTypes are the media types the extraction model accepts.
// Other types still ingest, with a warning; extraction may fail later.
var supportedTypes = map[string]bool{
	"image/png":       true,
	"image/jpeg":      true,
	"image/webp":      true,
	"image/gif":       true,
	"application/pdf": true,
}

// Ingest reads the document at path and returns a handle carrying the
// data-URL encoding used for both persistence and the extraction call.
func Ingest(path string) (*model.DocumentHandle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: stat document")
	}
	if info.Size() > maxDocumentBytes {
		return nil, eris.Errorf("ingest: %s is %d bytes, larger than the %d byte limit", path, info.Size(), maxDocumentBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read document")
	}
	if len(data) == 0 {
		return nil, eris.Errorf("ingest: %s is empty", path)
	}

	mimeType := detectType(path, data)
	if !supportedTypes[mimeType] {
		zap.L().Warn("unsupported document type, extraction may fail",
			zap.String("path", path),
			zap.String("mime_type", mimeType),
		)
	}

	if mimeType == "application/pdf" {
		if pages, err := pdfPageCount(data); err != nil {
			zap.L().Warn("could not probe pdf page count", zap.Error(err))
		} else if pages > 1 {
			zap.L().Warn("pdf has multiple pages, only page content visible to the model is extracted",
				zap.Int("pages", pages),
			)
		}
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return &model.DocumentHandle{
		DataURL:  fmt.Sprintf("data:%s;base64,%s", mimeType, encoded),
		MimeType: mimeType,
		Name:     filepath.Base(path),
	}, nil
}

// ParseDataURL splits a data URL back into its media type and bare
// base64 payload. The API wants the payload without the envelope.
func ParseDataURL(dataURL string) (mimeType, b64 string, err error) {
	rest, ok := strings.CutPrefix(dataURL, "data:")
	if !ok {
		return "", "", eris.New("ingest: not a data url")
	}
	mimeType, b64, ok = strings.Cut(rest, ";base64,")
	if !ok || mimeType == "" {
		return "", "", eris.New("ingest: malformed data url")
	}
	return mimeType, b64, nil
}

// detectType resolves the media type from the file extension, falling
// back to content sniffing for unknown extensions.
func detectType(path string, data []byte) string {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return t
	}
	return http.DetectContentType(data)
}

func pdfPageCount(data []byte) (int, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, eris.Wrap(err, "ingest: open pdf")
	}
	return r.NumPage(), nil
}
