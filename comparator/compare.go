package comparator

import (
	"fmt"
	"log"
	"sync"
)

// Compare runs the SSIM and channel difference engines over a and b and
// merges their results. When opts.OutputFileName is set and the inputs are
// RGBA, the diff mask is written to that file.
func Compare(a, b *PixelBuffer, opts Options) (*Report, error) {
	report, _, err := CompareWindows(a, b, opts)
	return report, err
}

// CompareWindows is Compare that also returns the per-window scores the
// SSIM in the report was averaged from.
func CompareWindows(a, b *PixelBuffer, opts Options) (*Report, []WindowScore, error) {
	opts = opts.withDefaults()

	diff, err := ComputeDifferences(a, b, opts.tolerance(), opts.OutputFileName != "")
	if err != nil {
		return nil, nil, err
	}
	scores, err := WindowScores(a, b, opts)
	if err != nil {
		return nil, nil, err
	}

	if opts.OutputFileName != "" {
		if diff.Mask == nil {
			log.Printf("Skipping diff mask %s: %d-channel images have no mask", opts.OutputFileName, a.Channels)
		} else {
			if err := SaveImage(opts.OutputFileName, diff.Mask); err != nil {
				return nil, nil, err
			}
			log.Printf("Saved diff mask to %s", opts.OutputFileName)
		}
	}
	return newReport(MeanScores(scores), diff), scores, nil
}

// CompareFiles decodes both files concurrently and compares them.
func CompareFiles(pathA, pathB string, opts Options) (*Report, error) {
	return CompareFilesAs(pathA, pathB, "", opts)
}

// CompareFilesAs is CompareFiles with a forced decoder, see LoadImage.
func CompareFilesAs(pathA, pathB, imageType string, opts Options) (*Report, error) {
	a, b, err := LoadPair(pathA, pathB, imageType)
	if err != nil {
		return nil, err
	}
	return Compare(a, b, opts)
}

// LoadPair decodes two image files in parallel.
func LoadPair(pathA, pathB, imageType string) (*PixelBuffer, *PixelBuffer, error) {
	paths := [2]string{pathA, pathB}
	var (
		bufs [2]*PixelBuffer
		errs [2]error
		wg   sync.WaitGroup
	)
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bufs[i], errs[i] = LoadImage(paths[i], imageType)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load image: %w", err)
		}
	}
	return bufs[0], bufs[1], nil
}

// CompareBase64 compares two base64 encoded image blobs.
func CompareBase64(a, b string, opts Options) (*Report, error) {
	bufA, err := DecodeBase64(a)
	if err != nil {
		return nil, err
	}
	bufB, err := DecodeBase64(b)
	if err != nil {
		return nil, err
	}
	return Compare(bufA, bufB, opts)
}
