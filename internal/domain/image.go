package domain

// DefaultBackgroundImage and DefaultFallbackImage are the two remote images
// the page loads.
const (
	DefaultBackgroundImage = "https://images.unsplash.com/photo-1414235077428-338989a2e8c0?w=1920&q=80"
	DefaultFallbackImage   = "https://placehold.co/1920x1080/1e293b/ffffff?text=W+Restaurant+Background"
)

// ImageWithFallback is an image that swaps to a fixed fallback the first time
// it fails to load. A failure of the fallback itself is not recovered.
//
// The browser runs the same rule; Src and Fallback seed its x-data.
type ImageWithFallback struct {
	Src      string
	Fallback string
	Alt      string
	Class    string

	current  string
	hasError bool
}

// NewImageWithFallback creates an image showing src.
func NewImageWithFallback(src, fallback, alt, class string) *ImageWithFallback {
	return &ImageWithFallback{
		Src:      src,
		Fallback: fallback,
		Alt:      alt,
		Class:    class,
		current:  src,
	}
}

// CurrentSrc is the URL the image shows now.
func (i *ImageWithFallback) CurrentSrc() string {
	if i.current == "" {
		return i.Src
	}
	return i.current
}

// HasError reports whether the fallback has been swapped in.
func (i *ImageWithFallback) HasError() bool {
	return i.hasError
}

// HandleError records a load failure. It returns true when the source
// changed, which happens only for the first failure.
func (i *ImageWithFallback) HandleError() bool {
	if i.hasError {
		return false
	}
	i.current = i.Fallback
	i.hasError = true
	return true
}

// AlpineData is the client-side state the template binds to.
func (i *ImageWithFallback) AlpineData() map[string]interface{} {
	return map[string]interface{}{
		"src":      i.CurrentSrc(),
		"fallback": i.Fallback,
		"hasError": i.hasError,
	}
}
