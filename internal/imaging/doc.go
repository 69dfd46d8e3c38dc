// Package imaging wraps image decoding, encoding and pixel copying for the
// tiler.
//
// It is the boundary to the codecs: everything that turns bytes into an
// image.Image or back lives here, so the tiling package only deals with
// rectangles and pixels. Decoding and encoding are delegated to
// disintegration/imaging, with WebP decoding registered from
// golang.org/x/image.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left) and Max is exclusive
//     (bottom-right)
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The other functions are
// stateless and may be called concurrently on different images.
//
// # Formats
//
// Encoders exist for PNG, JPEG, GIF, BMP and TIFF. Format names are matched
// case-insensitively and "jpg" and "jpeg" are interchangeable. GIF output is
// palettised with a median cut quantizer.
package imaging
