package dto

import (
	"io"
	"mime/multipart"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// PageQuery is bound from ?page=&limit= on list endpoints.
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

// Normalize fills defaults and caps the limit.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

type PaginationMeta struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	Entries int   `json:"entries"`
}

func NewPaginationMeta(q PageQuery, total int64) PaginationMeta {
	return PaginationMeta{Total: total, Page: q.Page, Entries: q.Limit}
}

// UploadFile is a file received from a multipart request.
type UploadFile struct {
	Reader      io.Reader
	FileName    string
	Size        int64
	ContentType string
}

// OpenUpload opens a multipart file part. The caller closes the returned file.
func OpenUpload(fh *multipart.FileHeader) (*UploadFile, multipart.File, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}

	return &UploadFile{
		Reader:      file,
		FileName:    fh.Filename,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	}, file, nil
}
