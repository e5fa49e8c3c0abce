package ioutils

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

const jpegQuality = 90

// ImageService prepares artwork for embedding as ID3 cover art.
//
// SoundCloud serves artwork as JPEG, but uploader avatars are sometimes PNG
// and the APIC frame is always written as image/jpeg, so covers are
// re-encoded before they are embedded.
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// PrepareCover returns artwork ready for embedding.
//
// If maxSize is positive the image is scaled down to fit within
// maxSize x maxSize. If toJPEG is true (or the image was scaled) the result
// is JPEG-encoded. With maxSize <= 0 and toJPEG false, data is returned as is.
func (s *ImageService) PrepareCover(data []byte, maxSize int, toJPEG bool) ([]byte, error) {
	if maxSize > 0 {
		return s.ResizeImage(data, maxSize, maxSize)
	}
	if toJPEG {
		return s.ConvertToJPEG(data)
	}
	return data, nil
}

// ResizeImage resizes an image to fit within the specified maximum dimensions.
//
// The aspect ratio is preserved and smaller images are not enlarged. The
// result is always JPEG-encoded. Catmull-Rom is used for scaling.
//
// Example:
//
//	resized, err := svc.ResizeImage(data, 1000, 1000)
//	// A 1500x1000 image becomes 1000x666
func (s *ImageService) ResizeImage(data []byte, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > maxWidth || height > maxHeight {
		ratio := float64(width) / float64(height)
		if float64(maxWidth)/float64(maxHeight) > ratio {
			// Height is the limiting factor
			width = int(float64(maxHeight) * ratio)
			height = maxHeight
		} else {
			height = int(float64(maxWidth) / ratio)
			width = maxWidth
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	return encodeJPEG(dst)
}

// ConvertToJPEG decodes data (JPEG or PNG) and re-encodes it as JPEG.
func (s *ImageService) ConvertToJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return encodeJPEG(img)
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
