package icap

import (
	"bytes"
	"mime"
	"os"
	"path/filepath"
)

// Payload is the content submitted for adaptation. The size must be
// known up front; the preview mechanism depends on it. A payload is
// read sequentially and is owned by one scan for its duration.
type Payload interface {
	Read(p []byte) (int, error)
	Size() int64
	ContentType() string
}

// FilePayload is a Payload backed by a file on disk.
type FilePayload struct {
	f           *os.File
	size        int64
	contentType string
}

// OpenFile opens the file at path as a scan payload. The content type
// is derived from the file extension, falling back to
// application/octet-stream. The caller must Close the payload when the
// scan is done.
func OpenFile(path string) (*FilePayload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &FilePayload{f: f, size: fi.Size(), contentType: contentType}, nil
}

func (p *FilePayload) Read(b []byte) (int, error) { return p.f.Read(b) }
func (p *FilePayload) Size() int64                { return p.size }
func (p *FilePayload) ContentType() string        { return p.contentType }
func (p *FilePayload) Close() error               { return p.f.Close() }

// BytesPayload is a Payload over an in-memory byte slice.
type BytesPayload struct {
	r           *bytes.Reader
	size        int64
	contentType string
}

func NewBytesPayload(b []byte, contentType string) *BytesPayload {
	return &BytesPayload{
		r:           bytes.NewReader(b),
		size:        int64(len(b)),
		contentType: contentType,
	}
}

func (p *BytesPayload) Read(b []byte) (int, error) { return p.r.Read(b) }
func (p *BytesPayload) Size() int64                { return p.size }
func (p *BytesPayload) ContentType() string        { return p.contentType }
