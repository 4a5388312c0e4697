package models

import "io"

// Attachment is what the backend returns once a receipt file is staged.
// Key identifies the bill record the file was attached to.
type Attachment struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

// AttachmentUpload is the multipart payload of a receipt upload.
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Content     io.Reader
	Email       string
}
