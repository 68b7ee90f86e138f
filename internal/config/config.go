package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig is the application configuration, loaded from a config.toml
// beside the binary.
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Pipeline PipelineConfig `toml:"pipeline"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig holds data directory settings.
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// PipelineConfig holds the cleaning pipeline settings.
type PipelineConfig struct {
	TargetSheet  string       `toml:"target_sheet"`
	SummarySheet string       `toml:"summary_sheet"`
	HeaderRows   int          `toml:"header_rows"`
	Sources      []SourceRule `toml:"sources"`
	DropColsLo   int          `toml:"drop_cols_lo"`
	DropColsHi   int          `toml:"drop_cols_hi"`
}

// SourceRule describes one expected upload source.
type SourceRule struct {
	Label                string   `toml:"label"`
	Sheet                string   `toml:"sheet"`
	Tokens               []string `toml:"tokens"`
	InsertCategoryColumn bool     `toml:"insert_category_column"`
}

// DefaultConfig returns the built-in defaults: the standard UNOPS
// distribution export on port 20831.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20831,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Pipeline: PipelineConfig{
			TargetSheet:  "UNOPS Total Distribution",
			SummarySheet: "Summary",
			HeaderRows:   2,
			Sources: []SourceRule{{
				Label:  "UNOPS",
				Sheet:  "UNOPS Total Distribution",
				Tokens: []string{"UNOPS", "DISTRIBUTION"},
			}},
		},
	}
}

// GetExeDir returns the directory holding the running executable.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig loads config.toml from the executable's directory, falling
// back to the defaults when the file does not exist. Sections present in
// the file override the defaults; a missing sources list keeps the
// default source rules.
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if len(config.Pipeline.Sources) == 0 {
		config.Pipeline.Sources = DefaultConfig().Pipeline.Sources
	}
	return config, nil
}

// SaveConfig writes the configuration back to config.toml beside the
// binary.
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir creates the data directory (and its uploads/exports
// subdirectories) beside the binary and returns its path.
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	for _, subdir := range []string{"uploads", "exports"} {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}
	return dataDir, nil
}
