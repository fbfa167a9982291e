package outbound

import "context"

type SaveMediaRequest struct {
	Key         string
	ContentType string
	Content     []byte
}

type MediaStorePort interface {
	Save(ctx context.Context, req SaveMediaRequest) (string, error)
}
