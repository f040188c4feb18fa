// Package blob reads and cleans up the binary objects followers upload next to the session tree.
package blob

import (
	"context"
	"encoding/base64"
	"net/http"
	"path"
)

//go:generate mockgen -source=blob.go -destination=blobmock/blob.go -package=blobmock

// Store is the object storage used for screenshots and application icons.
type Store interface {
	// Fetch downloads an object and returns it as a data URL.
	Fetch(ctx context.Context, object string) (string, error)
	Exists(ctx context.Context, object string) (bool, error)
	// DeletePrefix removes every object whose name starts with prefix and returns how many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}

// ScreenshotObject names the latest screenshot uploaded by a web follower.
func ScreenshotObject(classCode, uniqueID string) string {
	return path.Join("webFollowers", classCode, uniqueID)
}

// ScreenshotPrefixes lists the object prefixes holding a session's screenshots.
func ScreenshotPrefixes(classCode string) []string {
	return []string{
		path.Join("webFollowers", classCode) + "/",
		classCode + "/",
	}
}

// AppIconObject names the uploaded icon of a mobile application.
func AppIconObject(packageName string) string {
	return path.Join("app_icons", packageName)
}

// DataURL encodes data as a base64 data URL, sniffing the media type when none is given.
func DataURL(contentType string, data []byte) string {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
