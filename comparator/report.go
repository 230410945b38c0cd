package comparator

import (
	"encoding/json"
	"math"
)

// Report is the merged outcome of a comparison. The JSON field names are
// consumed by external tooling and must not change.
type Report struct {
	// StructuralSimilarityIndex is 1 for identical images and may be
	// negative for anti-correlated ones.
	StructuralSimilarityIndex float64 `json:"structuralSimilarityIndex"`
	// MeanCosineSimilarity is the mean contrast-similarity term.
	MeanCosineSimilarity float64   `json:"meanCosineSimilarity"`
	MeanAbsoluteErrors   []float64 `json:"meanAbsoluteErrors"`
	AbsoluteErrors       []float64 `json:"absoluteErrors"`
	SquareErrors         []float64 `json:"squareErrors"`
	MeanSquareErrors     []float64 `json:"meanSquareErrors"`
	// ChannelDistortion is the number of differing pixels.
	ChannelDistortion int `json:"channelDistortion"`
	// MeanChannelDistortion is the fraction of differing pixels.
	MeanChannelDistortion        float64 `json:"meanChannelDistortion"`
	MeanChannelStandardDeviation float64 `json:"meanChannelStandardDeviation"`
}

func newReport(s SSIMResult, d *ChannelDifferences) *Report {
	return &Report{
		StructuralSimilarityIndex:    s.SSIM,
		MeanCosineSimilarity:         s.MeanContrastSimilarity,
		MeanAbsoluteErrors:           d.MeanAbsoluteErrors,
		AbsoluteErrors:               d.AbsoluteErrors,
		SquareErrors:                 d.SquareErrors,
		MeanSquareErrors:             d.MeanSquareErrors,
		ChannelDistortion:            d.DifferingPixels,
		MeanChannelDistortion:        d.DifferingFraction,
		MeanChannelStandardDeviation: d.MSEStdDev,
	}
}

// jsonFloat encodes non-finite values, which encoding/json rejects, as null.
type jsonFloat float64

func (f jsonFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

func jsonFloats(vs []float64) []jsonFloat {
	if vs == nil {
		return nil
	}
	out := make([]jsonFloat, len(vs))
	for i, v := range vs {
		out[i] = jsonFloat(v)
	}
	return out
}

// MarshalJSON writes the report with NaN and infinite values as null, so
// degenerate comparisons (single-pixel windows, single-channel images)
// still serialise.
func (r Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StructuralSimilarityIndex    jsonFloat   `json:"structuralSimilarityIndex"`
		MeanCosineSimilarity         jsonFloat   `json:"meanCosineSimilarity"`
		MeanAbsoluteErrors           []jsonFloat `json:"meanAbsoluteErrors"`
		AbsoluteErrors               []jsonFloat `json:"absoluteErrors"`
		SquareErrors                 []jsonFloat `json:"squareErrors"`
		MeanSquareErrors             []jsonFloat `json:"meanSquareErrors"`
		ChannelDistortion            int         `json:"channelDistortion"`
		MeanChannelDistortion        jsonFloat   `json:"meanChannelDistortion"`
		MeanChannelStandardDeviation jsonFloat   `json:"meanChannelStandardDeviation"`
	}{
		StructuralSimilarityIndex:    jsonFloat(r.StructuralSimilarityIndex),
		MeanCosineSimilarity:         jsonFloat(r.MeanCosineSimilarity),
		MeanAbsoluteErrors:           jsonFloats(r.MeanAbsoluteErrors),
		AbsoluteErrors:               jsonFloats(r.AbsoluteErrors),
		SquareErrors:                 jsonFloats(r.SquareErrors),
		MeanSquareErrors:             jsonFloats(r.MeanSquareErrors),
		ChannelDistortion:            r.ChannelDistortion,
		MeanChannelDistortion:        jsonFloat(r.MeanChannelDistortion),
		MeanChannelStandardDeviation: jsonFloat(r.MeanChannelStandardDeviation),
	})
}
