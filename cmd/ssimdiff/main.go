package main

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/sokinpui/ssim-cv/comparator"
	"github.com/sokinpui/ssim-cv/internal/logger"
	"github.com/spf13/pflag"
)

// Config holds all the configuration parameters for the application,
// parsed from command-line flags.
type Config struct {
	BaselinePath string
	ComparePath  string
	ImageType    string
	LogPath      string
	JSON         bool

	Threshold  float64
	WindowsDir string

	// Luminance and Fuzz are the raw flag values; applyFlags folds them
	// into Options, where a zero fuzz would otherwise mean the default.
	Luminance bool
	Fuzz      int

	Options comparator.Options
}

func main() {
	cfg := parseFlags(os.Args[1:])

	logFile, err := logger.Init(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if err = validateConfig(cfg); err != nil {
		log.Printf("Configuration error: %v", err)
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	if err = run(cfg, os.Stdout); err != nil {
		log.Printf("Application error: %v", err)
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

// parseFlags defines and parses command-line flags, returning them
// in a Config struct.
func parseFlags(args []string) *Config {
	cfg := &Config{Options: comparator.DefaultOptions()}
	fs := pflag.NewFlagSet("ssimdiff", pflag.ExitOnError)

	fs.StringVarP(&cfg.BaselinePath, "baseline", "a", "", "Path to the baseline image.")
	fs.StringVarP(&cfg.ComparePath, "compare", "b", "", "Path to the image compared against the baseline.")
	fs.StringVar(&cfg.ImageType, "type", "", "Type of the input images (jpeg, png, gif, bmp, tiff, webp). Inferred when empty.")
	fs.StringVar(&cfg.LogPath, "log", "ssimdiff.log", "Log file path, - for stderr, empty to disable.")
	fs.BoolVar(&cfg.JSON, "json", false, "Print the report as JSON.")

	fs.IntVarP(&cfg.Options.WindowSize, "window-size", "w", comparator.DefaultWindowSize, "Edge length of the square SSIM windows.")
	fs.Float64Var(&cfg.Options.K1, "k1", comparator.DefaultK1, "SSIM K1 constant.")
	fs.Float64Var(&cfg.Options.K2, "k2", comparator.DefaultK2, "SSIM K2 constant.")
	fs.BoolVar(&cfg.Luminance, "luminance", true, "Use weighted luma instead of the R+G+B sum.")
	fs.IntVar(&cfg.Options.BitsPerComponent, "bits", comparator.DefaultBitsPerComponent, "Bits per colour component.")
	fs.IntVarP(&cfg.Fuzz, "fuzz", "f", comparator.DefaultFuzz, "Largest per-channel distance still treated as a match.")
	fs.StringVarP(&cfg.Options.OutputFileName, "output", "o", "", "Write the diff mask to this file (.png, .bmp, .tiff).")
	fs.IntVarP(&cfg.Options.Workers, "cpu-cores", "c", runtime.NumCPU(), "Number of goroutines scoring SSIM windows.")

	fs.Float64VarP(&cfg.Threshold, "threshold", "t", 0, "Report windows whose SSIM is below this value (0 disables).")
	fs.StringVar(&cfg.WindowsDir, "windows-dir", "", "Directory to save crops of the reported windows.")

	fs.Parse(args)
	cfg.applyFlags()
	return cfg
}

// applyFlags maps the raw luminance and fuzz flags onto Options.
func (c *Config) applyFlags() {
	c.Options.DisableLuminance = !c.Luminance
	switch {
	case c.Fuzz == 0:
		c.Options.Fuzz = comparator.FuzzExact
	case c.Fuzz > 0:
		c.Options.Fuzz = c.Fuzz
	}
}

// validateConfig checks if the provided configuration is valid.
func validateConfig(cfg *Config) error {
	if cfg.BaselinePath == "" || cfg.ComparePath == "" {
		return fmt.Errorf("--baseline/-a and --compare/-b flags are required")
	}
	for _, p := range []string{cfg.BaselinePath, cfg.ComparePath} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("input file does not exist: %s", p)
		}
	}
	if cfg.Options.WindowSize <= 0 {
		return fmt.Errorf("--window-size must be a positive integer")
	}
	if cfg.Options.BitsPerComponent <= 0 || cfg.Options.BitsPerComponent > 16 {
		return fmt.Errorf("--bits must be between 1 and 16")
	}
	if cfg.Fuzz < 0 {
		return fmt.Errorf("--fuzz must not be negative")
	}
	if cfg.Options.Workers <= 0 {
		return fmt.Errorf("--cpu-cores must be a positive integer")
	}
	if cfg.WindowsDir != "" && cfg.Threshold <= 0 {
		return fmt.Errorf("--windows-dir requires a positive --threshold")
	}
	if cfg.ImageType != "" {
		switch strings.ToLower(cfg.ImageType) {
		case "jpeg", "jpg", "png", "gif", "bmp", "tiff", "tif", "webp":
		default:
			return fmt.Errorf("unsupported image type: %s", cfg.ImageType)
		}
	}
	return nil
}
