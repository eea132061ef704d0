// Package imagestore uploads equipment images and returns the reference stored on the equipment.
package imagestore

import (
	"context"
	"fmt"
	"mime"
	"path"
	"time"

	"github.com/google/uuid"

	"equipment-access/pkg/config"
)

type Store interface {
	// Upload stores data and returns the URL or path under which it can be fetched.
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// Open picks the driver named by cfg.Driver.
func Open(ctx context.Context, cfg config.ImageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicPrefix)
	case "s3":
		return NewS3Store(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("unknown image store driver %q", cfg.Driver)
	}
}

// objectKey is "equipment/YYYY/MM/DD/<uuid><ext>".
func objectKey(now time.Time, contentType string) string {
	ext := ""
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		ext = exts[0]
	}
	return path.Join("equipment", now.Format("2006/01/02"), uuid.New().String()+ext)
}
