package models

// AttachmentMeta describes a local file the client wants to upload.
type AttachmentMeta struct {
	Type     string `json:"type"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// UploadGrant is the backend's answer to a pre-signed upload request: a
// time-limited URL to PUT the bytes to and the blob path to reference in the
// message that follows.
type UploadGrant struct {
	UploadURL string `json:"upload_url"`
	BlobPath  string `json:"blob_path"`
}
