package texture

import "strings"

// ControllerBuilderOption is a functional option for configuring a texture controller.
type ControllerBuilderOption func(*controller)

// WithSearchDirs sets the directories a relative filename is resolved against, in order.
func WithSearchDirs(dirs ...string) ControllerBuilderOption {
	return func(c *controller) {
		c.searchDirs = append([]string(nil), dirs...)
	}
}

// WithDefaultExtension sets the extension assumed for filenames without one.
//
// Parameters:
//   - ext: the extension, with or without the leading dot
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithDefaultExtension(ext string) ControllerBuilderOption {
	return func(c *controller) {
		if ext != "" {
			c.defaultExt = "." + strings.TrimPrefix(ext, ".")
		}
	}
}

// WithFlipY controls whether decoded images are flipped to a bottom-left origin. Enabled by default.
func WithFlipY(flip bool) ControllerBuilderOption {
	return func(c *controller) {
		c.flipY = flip
	}
}
