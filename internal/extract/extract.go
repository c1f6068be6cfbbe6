package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resume-ranker/internal/shared/storage/object"
)

// ErrUnsupportedFormat is returned for any extension outside {pdf, docx}.
var ErrUnsupportedFormat = errors.New("unsupported file type, only PDF/DOCX supported")

// ExtractText pulls plain text from a stored document identified by storage key
// and declared file extension.
func ExtractText(ctx context.Context, store object.ObjectStore, storageKey string, ext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	body, err := store.Open(ctx, storageKey)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s ext=%s: %w", storageKey, ext, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s ext=%s: read: %w", storageKey, ext, err)
	}

	text, err := FromBytes(raw, ext)
	if err != nil {
		return "", fmt.Errorf("extract text key=%s ext=%s: %w", storageKey, ext, err)
	}
	return text, nil
}

// FromBytes extracts plain text from an in-memory document payload.
func FromBytes(data []byte, ext string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(ext, "."))) {
	case "pdf":
		return extractPDF(data)
	case "docx":
		return extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// extractPDF concatenates per-page text with newline separators. Pages with no
// extractable text (image-only scans) contribute an empty string instead of
// failing the whole document.
func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var parts []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			parts = append(parts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			parts = append(parts, "")
			continue
		}
		parts = append(parts, text)
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

// extractDOCX concatenates paragraph text in document order with newline separators.
func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	return strings.TrimSpace(paragraphText(doc.Editable().GetContent())), nil
}

// paragraphText walks document.xml and joins character data, inserting a
// newline at each paragraph or line-break boundary.
func paragraphText(raw string) string {
	decoder := xml.NewDecoder(strings.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return raw
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.WriteString(string(t))
		case xml.EndElement:
			if t.Name.Local == "p" || t.Name.Local == "br" {
				if buf.Len() > 0 {
					buf.WriteString("\n")
				}
			}
		}
	}
	return buf.String()
}
