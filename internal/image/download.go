package imagepkg

import (
	"context"
	"image"

	"github.com/youruser/cardforge/internal/util"
)

// DownloadImage fetches url and decodes the body.
func DownloadImage(ctx context.Context, url string) (image.Image, error) {
	body, err := util.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}

// Source resolves an image reference that is either an http(s) URL or a
// local path.
func Source(ctx context.Context, ref string) (image.Image, error) {
	if util.IsURL(ref) {
		return DownloadImage(ctx, ref)
	}
	return Open(ref)
}
