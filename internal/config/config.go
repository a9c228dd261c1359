// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Render  RenderConfig  `yaml:"render"`
	Picking PickingConfig `yaml:"picking"`
	Logging LoggingConfig `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title       string `yaml:"title"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	VSync       bool   `yaml:"vsync"`
	MSAASamples int    `yaml:"msaa_samples"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	Background [3]float32 `yaml:"background"`
	LineWidth  float32    `yaml:"line_width"`
	PointSize  float32    `yaml:"point_size"`
	Wireframe  bool       `yaml:"wireframe"`
	ShaderDir  string     `yaml:"shader_dir"`
}

// PickingConfig holds selection settings.
type PickingConfig struct {
	// DrawDistance is the depth below which vertex index labels are drawn.
	// Zero disables labels.
	DrawDistance float32 `yaml:"draw_distance"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:       "meshview",
			Width:       1280,
			Height:      720,
			VSync:       true,
			MSAASamples: 4,
		},
		Render: RenderConfig{
			Background: [3]float32{0.12, 0.12, 0.14},
			LineWidth:  1.0,
			PointSize:  3.0,
			Wireframe:  true,
			ShaderDir:  "",
		},
		Picking: PickingConfig{
			DrawDistance: 0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
