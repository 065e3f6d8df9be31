package uploads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// BlobUploader PUTs raw bytes to a pre-signed (SAS) blob URL. The token in
// the URL's query string authorizes the write; no Authorization header is
// added.
type BlobUploader struct {
	http *http.Client
}

// NewBlobUploader constructs a BlobUploader.
func NewBlobUploader(httpClient *http.Client) *BlobUploader {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &BlobUploader{http: httpClient}
}

// Upload streams size bytes from r to uploadURL. A non-2xx response or a
// cancelled context fails the upload.
func (u *BlobUploader) Upload(ctx context.Context, uploadURL, contentType string, r io.Reader, size int64) error {
	ctx, span := otel.Tracer("school-app/uploads").Start(ctx, "blob.put")
	defer span.End()
	span.SetAttributes(attribute.Int64("upload.size_bytes", size))

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, r)
	if err != nil {
		return err
	}
	req.ContentLength = size
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-ms-blob-type", "BlockBlob")

	resp, err := u.http.Do(req)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("blob upload: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("blob upload failed: status %d", resp.StatusCode)
		span.RecordError(err)
		return err
	}
	return nil
}
