package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/sokinpui/ssim-cv/comparator"
)

var (
	labelStyle    = lipgloss.NewStyle().Bold(true).Width(30)
	durationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))
	windowStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

	scoreLow  = colorful.Color{R: 0.86, G: 0.20, B: 0.18}
	scoreHigh = colorful.Color{R: 0.27, G: 0.74, B: 0.36}
)

// run is the main application logic.
func run(cfg *Config, out io.Writer) error {
	log.Printf("Comparing %s against %s with %d workers.", cfg.ComparePath, cfg.BaselinePath, cfg.Options.Workers)

	a, b, err := comparator.LoadPair(cfg.BaselinePath, cfg.ComparePath, cfg.ImageType)
	if err != nil {
		return err
	}
	log.Printf("Loaded %dx%d images (%d and %d channels).", a.Width, a.Height, a.Channels, b.Channels)

	var stop func()
	if !cfg.JSON {
		stop = startSpinner(out)
	}
	startTime := time.Now()
	report, scores, err := comparator.CompareWindows(a, b, cfg.Options)
	if stop != nil {
		stop()
	}
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}
	duration := time.Since(startTime)
	log.Printf("Comparison took %s.", duration)

	var flagged []comparator.WindowScore
	if cfg.Threshold > 0 {
		flagged, err = lowWindows(a, b, scores, cfg)
		if err != nil {
			return err
		}
	}

	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printReport(out, report)
	fmt.Fprintf(out, "%s%s\n", labelStyle.Render("Total processing time"), durationStyle.Render(fmt.Sprintf("%.4fs", duration.Seconds())))
	for _, w := range flagged {
		deltaE := comparator.MeanDeltaE(a.Crop(w.Bounds), b.Crop(w.Bounds))
		fmt.Fprintf(out, "%s%s\n", labelStyle.Render(fmt.Sprintf("Window %v", w.Bounds)),
			windowStyle.Render(fmt.Sprintf("ssim %.4f  cs %.4f  ΔE00 %.2f", w.SSIM, w.ContrastSimilarity, deltaE)))
	}
	return nil
}

// startSpinner animates a spinner on out until the returned func is called.
func startSpinner(out io.Writer) func() {
	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		s := spinner.New()
		s.Spinner = spinner.Dot
		s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				fmt.Fprintf(out, "\r%s Comparison complete.\n", "✓")
				return
			case <-ticker.C:
				s, _ = s.Update(spinner.TickMsg{})
				fmt.Fprintf(out, "\r%s Comparing images...", s.View())
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}

// lowWindows returns the scores below cfg.Threshold, worst first, and saves
// their crops when cfg.WindowsDir is set.
func lowWindows(a, b *comparator.PixelBuffer, scores []comparator.WindowScore, cfg *Config) ([]comparator.WindowScore, error) {
	var flagged []comparator.WindowScore
	for _, s := range scores {
		if s.SSIM < cfg.Threshold {
			flagged = append(flagged, s)
		}
	}
	sort.SliceStable(flagged, func(i, j int) bool { return flagged[i].SSIM < flagged[j].SSIM })
	log.Printf("%d of %d windows below ssim %.4f.", len(flagged), len(scores), cfg.Threshold)

	if cfg.WindowsDir != "" {
		if _, err := comparator.SaveWindowPairs(cfg.WindowsDir, a, b, flagged); err != nil {
			return nil, fmt.Errorf("failed to save windows: %w", err)
		}
	}
	return flagged, nil
}

func printReport(out io.Writer, r *comparator.Report) {
	ssimStyle := lipgloss.NewStyle().Bold(true).Foreground(scoreColor(r.StructuralSimilarityIndex))
	rows := []struct {
		label string
		value string
	}{
		{"Structural similarity", ssimStyle.Render(formatFloat(r.StructuralSimilarityIndex))},
		{"Mean cosine similarity", formatFloat(r.MeanCosineSimilarity)},
		{"Absolute errors", formatFloats(r.AbsoluteErrors)},
		{"Mean absolute errors", formatFloats(r.MeanAbsoluteErrors)},
		{"Square errors", formatFloats(r.SquareErrors)},
		{"Mean square errors", formatFloats(r.MeanSquareErrors)},
		{"Channel distortion", fmt.Sprintf("%d", r.ChannelDistortion)},
		{"Mean channel distortion", formatFloat(r.MeanChannelDistortion)},
		{"Channel MSE std deviation", formatFloat(r.MeanChannelStandardDeviation)},
	}
	for _, row := range rows {
		fmt.Fprintf(out, "%s%s\n", labelStyle.Render(row.label), row.value)
	}
}

// scoreColor maps an SSIM score onto a red to green gradient.
func scoreColor(score float64) lipgloss.Color {
	t := score
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return lipgloss.Color(scoreLow.BlendHcl(scoreHigh, t).Clamped().Hex())
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.6g", v)
}

func formatFloats(vs []float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = formatFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
