package wheatconv

// Dataset configuration. The defaults reproduce the wheat_head_counting
// dataset constants; a YAML file can override any of them.

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries the dataset-specific constants used across the converters.
type Config struct {
	// Category is the dataset directory name under the root ("wheat_heads").
	Category string `yaml:"category"`
	// CategoryName is the COCO category name ("wheat_head").
	CategoryName string `yaml:"categoryName"`
	// Supercategory used in split-level documents.
	Supercategory string `yaml:"supercategory"`
	// DocSupercategory used in per-image documents.
	DocSupercategory string `yaml:"docSupercategory"`

	// Wide-table CSV file names, looked up under the dataset root.
	TrainCSV string `yaml:"trainCSV"`
	ValCSV   string `yaml:"valCSV"`
	TestCSV  string `yaml:"testCSV"`

	// Fallback image dimensions substituted when a file cannot be decoded.
	FallbackWidth     int `yaml:"fallbackWidth"`
	FallbackHeight    int `yaml:"fallbackHeight"`
	DocFallbackWidth  int `yaml:"docFallbackWidth"`
	DocFallbackHeight int `yaml:"docFallbackHeight"`

	// COCO info block fields.
	InfoYear        int    `yaml:"infoYear"`
	InfoVersion     string `yaml:"infoVersion"`
	DocInfoVersion  string `yaml:"docInfoVersion"`
	DocDescription  string `yaml:"docDescription"`
	DatasetURL      string `yaml:"datasetURL"`
	Contributor     string `yaml:"contributor"`
	ContribSource   string `yaml:"contribSource"`
	LicenseName     string `yaml:"licenseName"`
	LicenseURL      string `yaml:"licenseURL"`
	DatasetFullName string `yaml:"datasetFullName"`

	// JPEGQuality applies to rendered previews.
	JPEGQuality int `yaml:"jpegQuality"`
}

// DefaultConfig returns the configuration of the original dataset release.
func DefaultConfig() Config {
	return Config{
		Category:          "wheat_heads",
		CategoryName:      "wheat_head",
		Supercategory:     "cereal",
		DocSupercategory:  "broccoli",
		TrainCSV:          "competition_train.csv",
		ValCSV:            "competition_val.csv",
		TestCSV:           "competition_test.csv",
		FallbackWidth:     1024,
		FallbackHeight:    1024,
		DocFallbackWidth:  512,
		DocFallbackHeight: 512,
		InfoYear:          2025,
		InfoVersion:       "1.0.0",
		DocInfoVersion:    "1.0",
		DocDescription:    "Wheat head counting dataset",
		DatasetURL:        "https://zenodo.org/records/5092309/files/gwhd_2021.zip?download=1",
		Contributor:       "Agricultural AI",
		ContribSource:     "augmented",
		LicenseName:       "Creative Commons Attribution 4.0 International",
		LicenseURL:        "https://creativecommons.org/licenses/by/4.0/",
		DatasetFullName:   "wheat_head_counting",
		JPEGQuality:       90,
	}
}

// LoadConfig reads a YAML file over the defaults. Unset fields keep their
// default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("cannot read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("cannot parse config %q: %w", path, err)
	}
	return cfg, nil
}
