package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Window.Height)
	}
	if !cfg.Window.VSync {
		t.Error("expected vsync to be true by default")
	}
	if cfg.Window.MSAASamples != 4 {
		t.Errorf("expected 4 MSAA samples, got %d", cfg.Window.MSAASamples)
	}

	if cfg.Render.LineWidth != 1.0 {
		t.Errorf("expected line width 1.0, got %f", cfg.Render.LineWidth)
	}
	if cfg.Render.PointSize != 3.0 {
		t.Errorf("expected point size 3.0, got %f", cfg.Render.PointSize)
	}
	if !cfg.Render.Wireframe {
		t.Error("expected wireframe to be true by default")
	}

	if cfg.Picking.DrawDistance != 0 {
		t.Errorf("expected draw distance 0, got %f", cfg.Picking.DrawDistance)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  title: "landmarker"
  width: 1920
  height: 1080
  vsync: false
  msaa_samples: 8

render:
  background: [0.0, 0.0, 0.0]
  line_width: 2.5
  point_size: 6
  wireframe: false
  shader_dir: "./shaders"

picking:
  draw_distance: 4.5

logging:
  level: "debug"
  log_file: "viewer.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Title != "landmarker" {
		t.Errorf("expected title 'landmarker', got %s", cfg.Window.Title)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Window.Height)
	}
	if cfg.Window.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Window.MSAASamples != 8 {
		t.Errorf("expected 8 MSAA samples, got %d", cfg.Window.MSAASamples)
	}

	if cfg.Render.LineWidth != 2.5 {
		t.Errorf("expected line width 2.5, got %f", cfg.Render.LineWidth)
	}
	if cfg.Render.PointSize != 6 {
		t.Errorf("expected point size 6, got %f", cfg.Render.PointSize)
	}
	if cfg.Render.Wireframe {
		t.Error("expected wireframe to be false")
	}
	if cfg.Render.ShaderDir != "./shaders" {
		t.Errorf("expected shader dir './shaders', got %s", cfg.Render.ShaderDir)
	}

	if cfg.Picking.DrawDistance != 4.5 {
		t.Errorf("expected draw distance 4.5, got %f", cfg.Picking.DrawDistance)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
window:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := FindConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = FindConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestSaveTo(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 800
	cfg.Render.LineWidth = 2.5
	cfg.Logging.Level = "warn"

	// Parent directories should be created as needed
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}

	if loaded.Window.Width != 800 {
		t.Errorf("expected width 800, got %d", loaded.Window.Width)
	}
	if loaded.Render.LineWidth != 2.5 {
		t.Errorf("expected line width 2.5, got %f", loaded.Render.LineWidth)
	}
	if loaded.Logging.Level != "warn" {
		t.Errorf("expected log level 'warn', got %s", loaded.Logging.Level)
	}
}

func TestSaveToOverwrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Window.Width = 800
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	cfg.Window.Width = 1024
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Window.Width != 1024 {
		t.Errorf("expected width 1024 after overwrite, got %d", loaded.Window.Width)
	}

	// The rename should leave no temporary files behind
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file in config dir, got %d", len(entries))
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) {
				if cfg.Window.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Window.Width)
				}
				if cfg.Window.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name: "no-vsync flag",
			setup: func() {
				*flagNoVSync = true
			},
			verify: func(cfg *Config) {
				if cfg.Window.VSync {
					t.Error("expected vsync to be false with no-vsync flag")
				}
			},
			teardown: func() {
				*flagNoVSync = false
			},
		},
		{
			name: "shader dir flag",
			setup: func() {
				*flagShaderDir = "custom/shaders"
			},
			verify: func(cfg *Config) {
				if cfg.Render.ShaderDir != "custom/shaders" {
					t.Errorf("expected shader dir 'custom/shaders', got %s", cfg.Render.ShaderDir)
				}
			},
			teardown: func() {
				*flagShaderDir = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}
