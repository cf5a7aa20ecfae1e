package uienhance

import (
	"fmt"
	"os"
	"strings"

	"github.com/mazznoer/csscolorparser"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultStylesheet is the file name of the companion stylesheet.
	DefaultStylesheet = "ui-enhance.css"
	// DefaultContrastColor is the text color for small print in buttons.
	DefaultContrastColor = "#dfeeff"
	// HoverAttribute marks elements that should get the hover class.
	HoverAttribute = "data-hover"
	// HoverValue is the value of HoverAttribute that is recognized.
	HoverValue = "red"
	// HoverClass is added to every marked element.
	HoverClass = "hover-red"
)

// Config controls an Enhancer.
type Config struct {
	// Stylesheet is the href of the injected link and the suffix that
	// identifies an existing one.
	Stylesheet string `yaml:"stylesheet"`
	// ContrastColor is any CSS color.
	ContrastColor string `yaml:"contrast_color"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Stylesheet:    DefaultStylesheet,
		ContrastColor: DefaultContrastColor,
	}
}

// Validate checks the stylesheet name and the contrast color.
func (c Config) Validate() error {
	if c.Stylesheet == "" {
		return fmt.Errorf("stylesheet: empty file name")
	}
	if strings.ContainsAny(c.Stylesheet, `/\`) {
		return fmt.Errorf("stylesheet %q: must be a file name, not a path", c.Stylesheet)
	}
	if _, err := csscolorparser.Parse(c.ContrastColor); err != nil {
		return fmt.Errorf("contrast_color %q: %w", c.ContrastColor, err)
	}
	return nil
}

// ParseConfig reads YAML settings. Missing keys keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a YAML configuration file.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}
