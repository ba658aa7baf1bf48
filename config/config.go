package config

import (
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// SysConfig system configuration
type SysConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

// WebConfig storefront api server
type WebConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	Secret        string `yaml:"secret"`
	SessionMaxAge int    `yaml:"session_max_age"` // seconds
}

// RemoteTables maps logical table names to the remote store's table identifiers.
// Identifiers are used verbatim in the request path, so spaces must already be escaped.
type RemoteTables struct {
	Products          string `yaml:"products"`
	Therapies         string `yaml:"therapies"`
	BlogPosts         string `yaml:"blog_posts"`
	ServiceHighlights string `yaml:"service_highlights"`
	Testimonials      string `yaml:"testimonials"`
	Bookings          string `yaml:"bookings"`
}

// RemoteConfig hosted tabular store
type RemoteConfig struct {
	BaseURL          string       `yaml:"base_url"`
	ApiPath          string       `yaml:"api_path"`
	Token            string       `yaml:"token"`
	PlaceholderImage string       `yaml:"placeholder_image"`
	Tables           RemoteTables `yaml:"tables"`
}

// CartConfig cart session and storage settings
type CartConfig struct {
	Storage     string `yaml:"storage"` // memory | bolt | postgres
	BoltFile    string `yaml:"bolt_file"`
	IdleMinutes int    `yaml:"idle_minutes"`
	NodeID      int64  `yaml:"node_id"`
}

// DBConfig Database config, used when cart storage is postgres
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

// LogConfig Log configuration
type LogConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system"`
	Web      WebConfig    `yaml:"web"`
	Remote   RemoteConfig `yaml:"remote"`
	Cart     CartConfig   `yaml:"cart"`
	Database DBConfig     `yaml:"database"`
	Logger   LogConfig    `yaml:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return path.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return path.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(c.GetLogDir(), 0o755)
	_ = os.MkdirAll(c.GetDataDir(), 0o755)
}

// DefaultAppConfig is used when no config file is given. Table names and the
// placeholder image are the values the shop has always used.
var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Storefront",
		Location: "Asia/Kolkata",
		Workdir:  "/var/storefront",
		Debug:    true,
	},
	Web: WebConfig{
		Host:          "0.0.0.0",
		Port:          8080,
		Secret:        "9b6de5cc-0731-4bf1-storefront",
		SessionMaxAge: 86400,
	},
	Remote: RemoteConfig{
		BaseURL:          "https://nocodb.avignatattva.com",
		ApiPath:          "/api/v1/db/data/noco/p17v6gzvns4x35c",
		PlaceholderImage: "https://picsum.photos/seed/placeholder/600/400",
		Tables: RemoteTables{
			Products:          "Ayurveda%20Products",
			Therapies:         "Therapy%20Services",
			BlogPosts:         "Blog%20Posts",
			ServiceHighlights: "ServiceHighlights",
			Testimonials:      "Testimonials",
			Bookings:          "Bookings",
		},
	},
	Cart: CartConfig{
		Storage:     "memory",
		BoltFile:    "carts.db",
		IdleMinutes: 120,
		NodeID:      1,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "storefront",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  20,
		IdleConn: 5,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/storefront/logs/storefront.log",
	},
}

// LoadConfig reads the yaml file at cfile on top of the defaults and then
// applies STOREFRONT_* environment overrides. An empty cfile skips the file.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := *DefaultAppConfig
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err != nil {
			return nil, errors.Wrapf(err, "read config %s", cfile)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrapf(err, "parse config %s", cfile)
		}
	}
	applyEnv(&cfg)
	cfg.initDirs()
	return &cfg, nil
}

func applyEnv(cfg *AppConfig) {
	setEnvString("STOREFRONT_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvString("STOREFRONT_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBool("STOREFRONT_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvString("STOREFRONT_WEB_HOST", &cfg.Web.Host)
	setEnvInt("STOREFRONT_WEB_PORT", &cfg.Web.Port)
	setEnvString("STOREFRONT_WEB_SECRET", &cfg.Web.Secret)
	setEnvString("STOREFRONT_REMOTE_BASE_URL", &cfg.Remote.BaseURL)
	setEnvString("STOREFRONT_REMOTE_API_PATH", &cfg.Remote.ApiPath)
	setEnvString("STOREFRONT_REMOTE_TOKEN", &cfg.Remote.Token)
	setEnvString("STOREFRONT_CART_STORAGE", &cfg.Cart.Storage)
	setEnvInt("STOREFRONT_CART_IDLE_MINUTES", &cfg.Cart.IdleMinutes)
	setEnvString("STOREFRONT_DB_HOST", &cfg.Database.Host)
	setEnvInt("STOREFRONT_DB_PORT", &cfg.Database.Port)
	setEnvString("STOREFRONT_DB_NAME", &cfg.Database.Name)
	setEnvString("STOREFRONT_DB_USER", &cfg.Database.User)
	setEnvString("STOREFRONT_DB_PWD", &cfg.Database.Passwd)
	setEnvString("STOREFRONT_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBool("STOREFRONT_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
}

func setEnvString(name string, val *string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*val = v
	}
}

func setEnvInt(name string, val *int) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := cast.ToIntE(v); err == nil {
			*val = n
		}
	}
}

func setEnvBool(name string, val *bool) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if b, err := cast.ToBoolE(v); err == nil {
			*val = b
		}
	}
}
