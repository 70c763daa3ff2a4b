package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ExportStorage uploads generated export artifacts (PDFs, chart images) so a
// user can share a stable link instead of re-downloading.
type ExportStorage struct {
	cld *cloudinary.Cloudinary
}

// NewExportStorage builds the Cloudinary-backed storage. Returns nil
// (uploads disabled) when credentials are missing.
func NewExportStorage(cloudName, apiKey, apiSecret string) (*ExportStorage, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, nil
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &ExportStorage{cld: cld}, nil
}

// UploadExport stores the artifact under exports/<userID>/ and returns its
// secure URL.
func (s *ExportStorage) UploadExport(ctx context.Context, userID string, data []byte, filename string) (string, error) {
	if s == nil || s.cld == nil {
		return "", fmt.Errorf("export storage not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       "exports/" + userID,
		PublicID:     filename,
		ResourceType: "raw",
	})
	if err != nil {
		return "", fmt.Errorf("export upload failed: %w", err)
	}
	return resp.SecureURL, nil
}
