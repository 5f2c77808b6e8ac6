package document

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
)

// DownloadPayload is a resolved download: raw document bytes or a zip archive.
type DownloadPayload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// contentTypes maps the document extensions the editor works with to their
// MIME types. Anything else downloads as a generic byte stream.
var contentTypes = map[string]string{
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".dot":  "application/msword",
	".dotx": "application/vnd.openxmlformats-officedocument.wordprocessingml.template",
	".rtf":  "application/rtf",
	".sfdt": "application/json",
	".txt":  "text/plain",
	".pdf":  "application/pdf",
	".html": "text/html",
	".xml":  "application/xml",
	".zip":  "application/zip",
}

func contentTypeFor(name string) string {
	if ct, ok := contentTypes[strings.ToLower(extension(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// buildArchive packs the documents into a single in-memory zip, one entry per
// record named after the stored name. Compression favors speed over ratio;
// document counts are expected to stay small enough that materializing the
// whole archive is acceptable.
func buildArchive(docs []Document) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})

	for _, doc := range docs {
		header := &zip.FileHeader{
			Name:     doc.Name,
			Method:   zip.Deflate,
			Modified: doc.ModifiedAt,
		}
		w, err := zw.CreateHeader(header)
		if err != nil {
			zw.Close()
			return nil, err
		}
		if _, err := w.Write(doc.Content); err != nil {
			zw.Close()
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
