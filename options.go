package docfill

import (
	"github.com/tsawler/docfill/fill"
)

// FillOptions holds the configuration of a Filler.
type FillOptions struct {
	// Field values; nil until the first Set or Values call
	values fill.Values

	// Photo payload (copied on Photo)
	photo []byte

	// Rendering
	photoWidth     float64
	maxPhotoPixels int

	// Parts
	bodyOnly bool
}

// defaultOptions returns the default fill options.
func defaultOptions() FillOptions {
	return FillOptions{
		values:         nil,
		photo:          nil,
		photoWidth:     fill.DefaultPhotoWidth,
		maxPhotoPixels: fill.DefaultMaxPhotoPixels,
		bodyOnly:       false,
	}
}

// clone creates a deep copy of FillOptions.
func (o FillOptions) clone() FillOptions {
	newOpts := FillOptions{
		photo:          o.photo,
		photoWidth:     o.photoWidth,
		maxPhotoPixels: o.maxPhotoPixels,
		bodyOnly:       o.bodyOnly,
	}

	// Deep copy values map; the photo slice is never written after Photo.
	if o.values != nil {
		newOpts.values = make(fill.Values, len(o.values))
		for k, v := range o.values {
			newOpts.values[k] = v
		}
	}

	return newOpts
}

func (o FillOptions) fillOptions() fill.Options {
	return fill.Options{
		PhotoWidth:     o.photoWidth,
		MaxPhotoPixels: o.maxPhotoPixels,
		BodyOnly:       o.bodyOnly,
	}
}
