package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig holds process-wide settings.
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig holds HTTP server settings.
type WebConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	JwtSecret string `yaml:"jwt_secret"`
	// TokenTTLHours bounds issued bearer tokens; 0 means no expiry.
	TokenTTLHours int `yaml:"token_ttl_hours"`
}

// DBConfig holds database connection settings.
type DBConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Passwd   string `yaml:"passwd"`
	MaxConn  int    `yaml:"max_conn"`
	IdleConn int    `yaml:"idle_conn"`
	Debug    bool   `yaml:"debug"`
}

// MediaConfig holds media store settings.
type MediaConfig struct {
	// Dir is the filesystem root for stored files; defaults to
	// <workdir>/public/storage.
	Dir string `yaml:"dir"`
	// BaseURL prefixes path references when rendered for clients.
	BaseURL string `yaml:"base_url"`
	// MaxFileBytes caps a single upload; defaults to 2 MiB.
	MaxFileBytes int64 `yaml:"max_file_bytes"`
}

// PurgeConfig controls the scheduled hard purge of soft-deleted resources.
type PurgeConfig struct {
	// Cron expression for the purge job.
	Spec string `yaml:"spec"`
	// RetentionDays is how long a soft-deleted resource keeps its row and
	// media before the purge job removes both.
	RetentionDays int `yaml:"retention_days"`
}

type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig   `yaml:"system"`
	Web      WebConfig   `yaml:"web"`
	Database DBConfig    `yaml:"database"`
	Media    MediaConfig `yaml:"media"`
	Purge    PurgeConfig `yaml:"purge"`
	Logger   LogConfig   `yaml:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Emprendia",
		Location: "America/Bogota",
		Workdir:  "/var/emprendia",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          1816,
		JwtSecret:     "9b6de5cc-emprendia-b9af-0f45",
		TokenTTLHours: 24 * 7,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "emprendia",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Media: MediaConfig{
		BaseURL:      "/storage",
		MaxFileBytes: 2 << 20,
	},
	Purge: PurgeConfig{
		Spec:          "@daily",
		RetentionDays: 30,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/emprendia/emprendia.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	if v, ok := os.LookupEnv(name); ok {
		f(v)
	}
}

// LoadConfig reads the yaml config file when present and applies
// EMPRENDIA_* environment overrides on top.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("EMPRENDIA_SYSTEM_WORKDIR", func(v string) { cfg.System.Workdir = v })
	setEnvValue("EMPRENDIA_SYSTEM_DEBUG", func(v string) { cfg.System.Debug = cast.ToBool(v) })
	setEnvValue("EMPRENDIA_WEB_HOST", func(v string) { cfg.Web.Host = v })
	setEnvValue("EMPRENDIA_WEB_PORT", func(v string) { cfg.Web.Port = cast.ToInt(v) })
	setEnvValue("EMPRENDIA_WEB_SECRET", func(v string) { cfg.Web.JwtSecret = v })
	setEnvValue("EMPRENDIA_DB_TYPE", func(v string) { cfg.Database.Type = v })
	setEnvValue("EMPRENDIA_DB_HOST", func(v string) { cfg.Database.Host = v })
	setEnvValue("EMPRENDIA_DB_PORT", func(v string) { cfg.Database.Port = cast.ToInt(v) })
	setEnvValue("EMPRENDIA_DB_NAME", func(v string) { cfg.Database.Name = v })
	setEnvValue("EMPRENDIA_DB_USER", func(v string) { cfg.Database.User = v })
	setEnvValue("EMPRENDIA_DB_PWD", func(v string) { cfg.Database.Passwd = v })
	setEnvValue("EMPRENDIA_MEDIA_DIR", func(v string) { cfg.Media.Dir = v })
	setEnvValue("EMPRENDIA_MEDIA_BASE_URL", func(v string) { cfg.Media.BaseURL = v })
	setEnvValue("EMPRENDIA_PURGE_RETENTION_DAYS", func(v string) { cfg.Purge.RetentionDays = cast.ToInt(v) })

	if cfg.Media.Dir == "" {
		cfg.Media.Dir = filepath.Join(cfg.System.Workdir, "public", "storage")
	}
	if cfg.Media.MaxFileBytes <= 0 {
		cfg.Media.MaxFileBytes = 2 << 20
	}
	return cfg
}
