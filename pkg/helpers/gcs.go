package helpers

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// NewGCSClient creates a Cloud Storage client. When credFile is empty the
// client falls back to application default credentials.
func NewGCSClient(ctx context.Context, credFile string) (*storage.Client, error) {
	if credFile != "" {
		return storage.NewClient(ctx, option.WithCredentialsFile(credFile))
	}
	return storage.NewClient(ctx)
}

// UploadObject streams r into bucket/object with the given content type and
// returns the public URL of the uploaded object.
func UploadObject(ctx context.Context, client *storage.Client, bucket, object, contentType string, r io.Reader) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload object %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize object %s: %w", object, err)
	}
	return PublicURL(bucket, object), nil
}

// PublicURL returns the canonical public URL for an object.
func PublicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}
