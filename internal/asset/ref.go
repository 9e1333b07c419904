package asset

import "regexp"

// Uploaded assets are served root-relative under /assets/.
var imageRefPattern = regexp.MustCompile(`^(https?://|data:image|/assets/)`)

// IsImageRef reports whether s should be loaded as an image. Anything else
// is literal glyph or text content.
func IsImageRef(s string) bool {
	return imageRefPattern.MatchString(s)
}
