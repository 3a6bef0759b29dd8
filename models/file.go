package models

type FileMeta struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int    `json:"size"`
}

// UploadedFile is a file received on the chat endpoint, read fully in memory.
type UploadedFile struct {
	Meta  FileMeta
	Bytes []byte
}
