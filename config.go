package icap

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration consumed by the CLI and the
// scan gateway.
type Config struct {
	ICAP    ServiceConfig `yaml:"icap"`
	Gateway GatewayConfig `yaml:"gateway"`
}

// ServiceConfig locates the remote adaptation service.
type ServiceConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Service   string `yaml:"service"`
	UserAgent string `yaml:"userAgent"`
}

// GatewayConfig configures the HTTP scan gateway.
type GatewayConfig struct {
	Port   int    `yaml:"port"`
	Store  string `yaml:"store"` // "memory" or "sqlite"
	DBFile string `yaml:"dbFile"`
}

// LoadConfig reads and parses the YAML config file at filename.
func LoadConfig(filename string) (Config, error) {
	var config Config
	configBytes, err := os.ReadFile(filename)
	if err != nil {
		return config, err
	}
	err = yaml.Unmarshal(configBytes, &config)
	return config, err
}

// Settings converts the service section into client settings.
func (c ServiceConfig) Settings() Settings {
	return Settings{
		Host:      c.Host,
		Port:      c.Port,
		Service:   c.Service,
		UserAgent: c.UserAgent,
	}
}
