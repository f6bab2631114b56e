package gen

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultOutput is the file name written into the package directory.
const DefaultOutput = "store_gen.go"

// Config controls one generator run. It can be loaded from YAML:
//
//	output: store_gen.go
//	store_import: github.com/likearthian/storegen
//	id_column: id
type Config struct {
	Output      string `yaml:"output"`
	StoreImport string `yaml:"store_import"`
	IDColumn    string `yaml:"id_column"`
}

func DefaultConfig() Config {
	return Config{
		Output:      DefaultOutput,
		StoreImport: DefaultStoreImport,
	}
}

// LoadConfig reads path over the defaults. Keys absent from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.StoreImport == "" {
		cfg.StoreImport = DefaultStoreImport
	}

	return cfg, nil
}
