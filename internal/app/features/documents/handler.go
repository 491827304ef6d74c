// internal/app/features/documents/handler.go
package documents

import (
	"context"
	"io"

	disputestore "github.com/dalemusser/disputehub/internal/app/store/disputes"
	documentstore "github.com/dalemusser/disputehub/internal/app/store/documents"
	userstore "github.com/dalemusser/disputehub/internal/app/store/users"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// MaxUploadSize is the largest PDF accepted by the upload endpoint.
const MaxUploadSize int64 = 5 << 20

// FileStore is the part of storage.Store the document routes use.
type FileStore interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	Delete(ctx context.Context, path string) error
	PresignedURL(ctx context.Context, path string, opts *storage.PresignOptions) (string, error)
}

// localFiles is implemented by stores that keep files on local disk
// (storage.Local). Those are served directly instead of redirected.
type localFiles interface {
	GetFullPath(path string) (string, error)
}

// Handler serves /documents.
type Handler struct {
	Documents *documentstore.Store
	Disputes  *disputestore.Store
	Users     *userstore.Store
	Files     FileStore
	Log       *zap.Logger
}

func NewHandler(db *mongo.Database, files FileStore, logger *zap.Logger) *Handler {
	return &Handler{
		Documents: documentstore.New(db),
		Disputes:  disputestore.New(db),
		Users:     userstore.New(db),
		Files:     files,
		Log:       logger,
	}
}
