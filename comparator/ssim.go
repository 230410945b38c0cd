package comparator

import (
	"fmt"
	"image"
	"math"
	"sync"
)

// SSIMResult is the mean of the per-window SSIM and contrast similarity.
type SSIMResult struct {
	SSIM                   float64
	MeanContrastSimilarity float64
}

// ComputeSSIM tiles both images into WindowSize x WindowSize windows and
// averages the per-window SSIM and contrast similarity. Images of different
// width or height produce a zero SSIMResult and no error.
func ComputeSSIM(a, b *PixelBuffer, opts Options) (SSIMResult, error) {
	scores, err := WindowScores(a, b, opts)
	if err != nil {
		return SSIMResult{}, err
	}
	return MeanScores(scores), nil
}

// MeanScores reduces window scores, in order, to their mean SSIM and
// contrast similarity. A nil slice, as returned for mismatched sizes,
// yields a zero SSIMResult.
func MeanScores(scores []WindowScore) SSIMResult {
	if scores == nil {
		return SSIMResult{}
	}
	var sumSSIM, sumCS float64
	for _, s := range scores {
		sumSSIM += s.SSIM
		sumCS += s.ContrastSimilarity
	}
	n := float64(len(scores))
	return SSIMResult{SSIM: sumSSIM / n, MeanContrastSimilarity: sumCS / n}
}

// WindowScores returns the score of every window in tiling order. It
// returns nil without error when the image sizes differ.
func WindowScores(a, b *PixelBuffer, opts Options) ([]WindowScore, error) {
	for _, buf := range []*PixelBuffer{a, b} {
		if !supportedLayout(buf.Channels) {
			return nil, fmt.Errorf("%d channels: %w", buf.Channels, ErrUnsupportedChannelLayout)
		}
	}
	if !a.sameSize(b) {
		return nil, nil
	}

	opts = opts.withDefaults()
	c1, c2 := stabilityConstants(opts)

	score := func(r image.Rectangle) WindowScore {
		luma1 := extractLuma(a, r, !opts.DisableLuminance)
		luma2 := extractLuma(b, r, !opts.DisableLuminance)
		ssim, cs := windowStats(luma1, luma2, mean(luma1), mean(luma2), c1, c2)
		return WindowScore{Bounds: r, SSIM: ssim, ContrastSimilarity: cs}
	}

	windows := tileWindows(a.Width, a.Height, opts.WindowSize)
	results := make([]WindowScore, len(windows))

	workers := min(opts.Workers, len(windows))
	jobs := make(chan windowJob, len(windows))
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker(&wg, jobs, results, score)
	}
	for i, r := range windows {
		jobs <- windowJob{idx: i, bounds: r}
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

// stabilityConstants derives c1 = (K1*L)^2 and c2 = (K2*L)^2 with
// L = 2^bits - 1.
func stabilityConstants(opts Options) (c1, c2 float64) {
	l := math.Exp2(float64(opts.BitsPerComponent)) - 1
	return math.Pow(opts.K1*l, 2), math.Pow(opts.K2*l, 2)
}
