package comparator

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"
)

// LoadImage opens and decodes an image file into a PixelBuffer. imageType
// forces a decoder (jpeg, png, gif, bmp, tiff, webp); empty means sniff the
// format from the file header.
func LoadImage(path string, imageType string) (*PixelBuffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w: %w", ErrDecode, err)
	}
	defer file.Close()

	buf, err := DecodeImage(file, imageType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf, nil
}

// DecodeImage decodes r with the decoder selected by imageType.
func DecodeImage(r io.Reader, imageType string) (*PixelBuffer, error) {
	var (
		decodedImg image.Image
		err        error
	)
	switch strings.ToLower(imageType) {
	case "":
		decodedImg, _, err = image.Decode(r)
	case "jpeg", "jpg":
		decodedImg, err = jpeg.Decode(r)
	case "png":
		decodedImg, err = png.Decode(r)
	case "gif":
		decodedImg, err = gif.Decode(r)
	case "bmp":
		decodedImg, err = bmp.Decode(r)
	case "tiff", "tif":
		decodedImg, err = tiff.Decode(r)
	case "webp":
		decodedImg, err = webp.Decode(r)
	default:
		return nil, fmt.Errorf("unsupported image type specified: %s: %w", imageType, ErrDecode)
	}
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w: %w", ErrDecode, err)
	}
	return FromImage(decodedImg), nil
}

// DecodeBase64 decodes a base64 encoded image blob of any registered format.
func DecodeBase64(data string) (*PixelBuffer, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w: %w", ErrDecode, err)
	}
	return DecodeImage(bytes.NewReader(raw), "")
}

// SaveImage encodes buf to path. The encoder follows the file extension:
// .bmp, .tif/.tiff, anything else is written as PNG.
func SaveImage(path string, buf *PixelBuffer) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file: %w: %w", ErrEncode, err)
	}

	img := buf.Image()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		err = bmp.Encode(outFile, img)
	case ".tif", ".tiff":
		err = tiff.Encode(outFile, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(outFile, img)
	}
	if cerr := outFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("could not encode %s: %w: %w", path, ErrEncode, err)
	}
	return nil
}

// SaveWindowPairs writes the windows of a and b covered by scores into
// outputDir, one directory per window holding a baseline.png and a
// compare.png crop. It returns the number of pairs written.
func SaveWindowPairs(outputDir string, a, b *PixelBuffer, scores []WindowScore) (int, error) {
	saved := 0
	for _, s := range scores {
		dirName := fmt.Sprintf("window_%d_%d", s.Bounds.Min.X, s.Bounds.Min.Y)
		pairDir := filepath.Join(outputDir, dirName)

		if err := os.MkdirAll(pairDir, 0755); err != nil {
			return saved, fmt.Errorf("error creating directory %s: %w", pairDir, err)
		}
		if err := SaveImage(filepath.Join(pairDir, "baseline.png"), a.Crop(s.Bounds)); err != nil {
			return saved, err
		}
		if err := SaveImage(filepath.Join(pairDir, "compare.png"), b.Crop(s.Bounds)); err != nil {
			return saved, err
		}
		saved++
		log.Printf("Saved window pair %s (ssim %.4f)", dirName, s.SSIM)
	}
	return saved, nil
}
