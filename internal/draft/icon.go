package draft

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/disintegration/imaging"

	"github.com/parchment-shell/parchment/internal/paths"
)

// Icon load outcomes that callers treat as skips, not failures.
var (
	ErrNoIcon     = errors.New("draft has no icon")
	ErrIconCached = errors.New("icon already cached")
)

// CachedIcon loads a draft's icon from the on-disk cache.
func CachedIcon(layout paths.Layout, d Descriptor) (image.Image, bool) {
	if d.IconSource == "" {
		return nil, false
	}
	icon, err := imaging.Open(layout.Icon(d.IconFileName()))
	if err != nil {
		return nil, false
	}
	return icon, true
}

// PrepareIcon decodes a draft's icon source, fits it into a size×size
// box, flattens its alpha onto white (the panel background), and writes
// the result to the cache. A cache hit short-circuits with ErrIconCached
// so startup can load it directly instead.
func PrepareIcon(layout paths.Layout, d Descriptor, size int) (image.Image, error) {
	if d.IconSource == "" {
		return nil, ErrNoIcon
	}

	cachePath := layout.Icon(d.IconFileName())
	if _, err := os.Stat(cachePath); err == nil {
		return nil, ErrIconCached
	}

	src, err := imaging.Open(d.IconSource)
	if err != nil {
		return nil, fmt.Errorf("open icon %s: %w", d.IconSource, err)
	}

	fitted := imaging.Fit(src, size, size, imaging.Lanczos)
	flat := imaging.New(fitted.Bounds().Dx(), fitted.Bounds().Dy(), color.White)
	flat = imaging.Overlay(flat, fitted, image.Point{}, 1.0)

	if err := imaging.Save(flat, cachePath); err != nil {
		return nil, fmt.Errorf("cache icon %s: %w", cachePath, err)
	}
	return flat, nil
}
