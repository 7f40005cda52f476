package http

// UploadResponse is returned after a successful image upload.
// The URLs are what book listings reference in their images array.
type UploadResponse struct {
	FileID       string  `json:"file_id"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
}
