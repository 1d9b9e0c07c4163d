package note

import "errors"

var ErrNotFound = errors.New("note not found")

// Note is a unit of captured study material: typed text, an uploaded file,
// or an imported page. File content lives in the blob store under FileKey;
// only the text content is fed to quiz generation.
type Note struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	FileKey     string `json:"file_key,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	CreatedAt   int64  `json:"created_at"`
}
