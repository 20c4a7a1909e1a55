package ports

import (
	"context"
	"io"
)

// ResumeStorage persists uploaded resume files under a caller-chosen name.
type ResumeStorage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64) error
	Remove(ctx context.Context, name string) error
}
