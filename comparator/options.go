package comparator

import "runtime"

// Default comparison parameters.
const (
	DefaultWindowSize       = 64
	DefaultK1               = 0.01
	DefaultK2               = 0.03
	DefaultBitsPerComponent = 8
	DefaultFuzz             = 32
)

// FuzzExact is the Fuzz value that requests an exact per-channel match.
// Fuzz 0 selects DefaultFuzz.
const FuzzExact = -1

// Options holds every tunable of a comparison. The zero value selects the
// documented defaults for every field.
type Options struct {
	// WindowSize is the edge length in pixels of the square SSIM windows.
	WindowSize int
	// K1 and K2 scale the SSIM stability constants.
	K1 float64
	K2 float64
	// DisableLuminance replaces the BT.709 weighted luma of colour layouts
	// with the plain R+G+B sum.
	DisableLuminance bool
	// BitsPerComponent determines the dynamic range L = 2^bits - 1.
	BitsPerComponent int
	// Fuzz is the largest per-channel distance still treated as a match.
	// 0 means DefaultFuzz and any negative value (FuzzExact) means 0.
	Fuzz int
	// OutputFileName, when set, receives the diff mask of RGBA inputs.
	OutputFileName string
	// Workers is the number of goroutines processing SSIM windows.
	Workers int
}

// DefaultOptions returns the documented defaults spelled out.
func DefaultOptions() Options {
	return Options{
		WindowSize:       DefaultWindowSize,
		K1:               DefaultK1,
		K2:               DefaultK2,
		BitsPerComponent: DefaultBitsPerComponent,
		Fuzz:             DefaultFuzz,
		Workers:          runtime.NumCPU(),
	}
}

// withDefaults replaces unset numeric fields. Fuzz is left as given and
// resolved by tolerance, so applying withDefaults twice is harmless.
func (o Options) withDefaults() Options {
	if o.WindowSize <= 0 {
		o.WindowSize = DefaultWindowSize
	}
	if o.K1 <= 0 {
		o.K1 = DefaultK1
	}
	if o.K2 <= 0 {
		o.K2 = DefaultK2
	}
	if o.BitsPerComponent <= 0 {
		o.BitsPerComponent = DefaultBitsPerComponent
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// tolerance is the effective fuzz passed to ComputeDifferences.
func (o Options) tolerance() int {
	switch {
	case o.Fuzz == 0:
		return DefaultFuzz
	case o.Fuzz < 0:
		return 0
	}
	return o.Fuzz
}
