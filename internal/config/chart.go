package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/TWRT/project-gantt/internal/chart"
	"github.com/TWRT/project-gantt/internal/models"
)

// LoadChartOptions overlays the YAML file at path on the default chart options.
// An empty path returns the defaults.
func LoadChartOptions(path string) (chart.Options, error) {
	opts := chart.DefaultOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return chart.Options{}, fmt.Errorf("read chart options: %w", err)
	}
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return chart.Options{}, fmt.Errorf("parse chart options %s: %w", path, err)
	}

	mode, err := models.ParseViewMode(string(opts.ViewMode))
	if err != nil {
		return chart.Options{}, fmt.Errorf("chart options %s: %w", path, err)
	}
	opts.ViewMode = mode

	for name, v := range map[string]int{
		"bar_height":    opts.BarHeight,
		"padding":       opts.Padding,
		"column_width":  opts.ColumnWidth,
		"header_height": opts.HeaderHeight,
		"label_width":   opts.LabelWidth,
	} {
		if v <= 0 {
			return chart.Options{}, fmt.Errorf("chart options %s: %s must be positive, got %d", path, name, v)
		}
	}
	return opts, nil
}
