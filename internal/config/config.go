package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Root struct {
	Env   string     `yaml:"env"`
	CORS  CORSConfig `yaml:"cors"`
	Local Config     `yaml:"local"`
	Dev   Config     `yaml:"dev"`
	Prod  Config     `yaml:"prod"`
}

type SQLConfig struct {
	Driver       string `yaml:"driver"` // sqlite|mysql|postgres
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type Config struct {
	Env string `yaml:"-"`

	Log struct {
		Level     string `yaml:"level"`
		Format    string `yaml:"format"`
		AddSource bool   `yaml:"add_source"`
	} `yaml:"log"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`

	HTTP struct {
		TimeoutSeconds int   `yaml:"timeout_seconds"`
		MaxBodyBytes   int64 `yaml:"max_body_bytes"`
		MaxUploadBytes int64 `yaml:"max_upload_bytes"`
	} `yaml:"http"`

	Storage struct {
		Backend        string    `yaml:"backend"` // json|sql
		DataDir        string    `yaml:"data_dir"`
		LegacyDir      string    `yaml:"legacy_dir"`
		MigrateOnStart bool      `yaml:"migrate_on_start"`
		SQL            SQLConfig `yaml:"sql"`
	} `yaml:"storage"`

	Uploads struct {
		Backend          string `yaml:"backend"` // local|cloudinary
		Dir              string `yaml:"dir"`
		PublicPrefix     string `yaml:"public_prefix"`
		CloudinaryURL    string `yaml:"cloudinary_url"`
		CloudinaryFolder string `yaml:"cloudinary_folder"`
	} `yaml:"uploads"`

	CORS CORSConfig `yaml:"cors"`
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse selects the profile named by the root env key and fills defaults.
func Parse(b []byte) (*Config, error) {
	var root Root
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, err
	}

	env := strings.TrimSpace(strings.ToLower(root.Env))
	if env == "" {
		env = "local"
	}

	var p Config
	switch env {
	case "local":
		p = root.Local
	case "dev":
		p = root.Dev
	case "prod":
		p = root.Prod
	default:
		return nil, fmt.Errorf("unknown env=%q (expected local|dev|prod)", env)
	}
	p.Env = env

	if len(p.CORS.AllowedOrigins) == 0 && len(root.CORS.AllowedOrigins) > 0 {
		p.CORS = root.CORS
	}

	applyDefaults(&p)
	if err := validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func applyDefaults(p *Config) {
	if p.Server.Host == "" {
		p.Server.Host = "0.0.0.0"
	}
	if p.Server.Port == 0 {
		p.Server.Port = 5000
	}

	if p.HTTP.TimeoutSeconds <= 0 {
		p.HTTP.TimeoutSeconds = 30
	}
	if p.HTTP.MaxBodyBytes <= 0 {
		p.HTTP.MaxBodyBytes = 1 << 20
	}
	if p.HTTP.MaxUploadBytes <= 0 {
		p.HTTP.MaxUploadBytes = 5 << 20
	}

	p.Storage.Backend = strings.ToLower(strings.TrimSpace(p.Storage.Backend))
	if p.Storage.Backend == "" {
		p.Storage.Backend = "json"
	}
	if p.Storage.DataDir == "" {
		p.Storage.DataDir = "./data"
	}
	if p.Storage.LegacyDir == "" {
		p.Storage.LegacyDir = p.Storage.DataDir
	}
	p.Storage.SQL.Driver = strings.ToLower(strings.TrimSpace(p.Storage.SQL.Driver))
	if p.Storage.SQL.Driver == "" {
		p.Storage.SQL.Driver = "sqlite"
	}
	if p.Storage.SQL.DSN == "" {
		p.Storage.SQL.DSN = os.Getenv("DATABASE_URL")
	}
	if p.Storage.SQL.DSN == "" && p.Storage.SQL.Driver == "sqlite" {
		p.Storage.SQL.DSN = filepath.Join(p.Storage.DataDir, "storefront.db")
	}
	if p.Storage.SQL.MaxOpenConns <= 0 {
		p.Storage.SQL.MaxOpenConns = 10
	}

	p.Uploads.Backend = strings.ToLower(strings.TrimSpace(p.Uploads.Backend))
	if p.Uploads.Backend == "" {
		p.Uploads.Backend = "local"
	}
	if p.Uploads.Dir == "" {
		p.Uploads.Dir = "./uploads"
	}
	if p.Uploads.PublicPrefix == "" {
		p.Uploads.PublicPrefix = "/uploads"
	}
	if p.Uploads.CloudinaryURL == "" {
		p.Uploads.CloudinaryURL = os.Getenv("CLOUDINARY_URL")
	}

	if len(p.CORS.AllowedOrigins) > 0 {
		clean := make([]string, 0, len(p.CORS.AllowedOrigins))
		for _, s := range p.CORS.AllowedOrigins {
			s = strings.TrimSpace(s)
			if s != "" {
				clean = append(clean, s)
			}
		}
		p.CORS.AllowedOrigins = clean
	}

	if p.Log.Level == "" {
		if p.Env == "prod" {
			p.Log.Level = "info"
		} else {
			p.Log.Level = "debug"
		}
	}
	if p.Log.Format == "" {
		if p.Env == "prod" {
			p.Log.Format = "json"
		} else {
			p.Log.Format = "text"
		}
	}
}

func validate(p *Config) error {
	switch p.Storage.Backend {
	case "json", "sql":
	default:
		return fmt.Errorf("unknown storage.backend=%q (expected json|sql)", p.Storage.Backend)
	}
	if p.Storage.Backend == "sql" && p.Storage.SQL.DSN == "" {
		return fmt.Errorf("storage.sql.dsn is required for driver=%q (or set DATABASE_URL)", p.Storage.SQL.Driver)
	}

	switch p.Uploads.Backend {
	case "local", "cloudinary":
	default:
		return fmt.Errorf("unknown uploads.backend=%q (expected local|cloudinary)", p.Uploads.Backend)
	}
	if p.Uploads.Backend == "cloudinary" && p.Uploads.CloudinaryURL == "" {
		return fmt.Errorf("uploads.cloudinary_url is required (or set CLOUDINARY_URL)")
	}
	return nil
}
