package models

// File is a stored file record
type File struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	Bytes     int64  `json:"bytes"`
	Purpose   string `json:"purpose"`
	CreatedAt int64  `json:"created_at"`
}

// FileList is the listing envelope for files
type FileList struct {
	Data []File `json:"data"`
}

// FileDeleted is the acknowledgment returned by a file deletion
type FileDeleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
