package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ==================== 配置结构 ====================

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug | release | test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres | sqlite
	DSN      string `mapstructure:"dsn"`
	LogLevel string `mapstructure:"log_level"` // silent | error | warn | info
}

// StoreConfig 商品存储配置
// db: 本地数据库; remote: 远程文档存储
type StoreConfig struct {
	Provider string        `mapstructure:"provider"`
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// StorageConfig 图片存储配置
type StorageConfig struct {
	Provider  string `mapstructure:"provider"` // s3 | cos | local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Endpoint  string `mapstructure:"endpoint"`   // 自定义端点 (COS) / 本地存储的访问前缀
	CDNDomain string `mapstructure:"cdn_domain"` // CDN域名 (可选)
	BasePath  string `mapstructure:"base_path"`  // 基础路径前缀
}

// GalleryConfig 图集配置
type GalleryConfig struct {
	MaxImages         int           `mapstructure:"max_images"`
	MaxFileSize       int64         `mapstructure:"max_file_size"`
	UploadConcurrency int           `mapstructure:"upload_concurrency"`
	ProgressReset     time.Duration `mapstructure:"progress_reset"`
	SessionTTL        time.Duration `mapstructure:"session_ttl"`
	SweepCron         string        `mapstructure:"sweep_cron"` // 过期会话清理周期
}

// FacetsConfig 筛选项配置
type FacetsConfig struct {
	RefreshCron string `mapstructure:"refresh_cron"`
}

// AuthConfig 后台鉴权配置
type AuthConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	SecretKey string        `mapstructure:"secret_key"`
	Issuer    string        `mapstructure:"issuer"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
}

// UploadLimitConfig 上传限流配置
type UploadLimitConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Burst    int           `mapstructure:"burst"`
}

// Config 应用总配置
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Store       StoreConfig       `mapstructure:"store"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Gallery     GalleryConfig     `mapstructure:"gallery"`
	Facets      FacetsConfig      `mapstructure:"facets"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Log         LogConfig         `mapstructure:"log"`
	UploadLimit UploadLimitConfig `mapstructure:"upload_limit"`
}

// ==================== 加载 ====================

// EnvPrefix 环境变量前缀，例如 CATALOG_SERVER_PORT
const EnvPrefix = "CATALOG"

// setDefaults 默认配置，方便快速跑起来
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "catalog.db")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("store.provider", "db")
	v.SetDefault("store.timeout", 15*time.Second)

	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.base_path", "./uploads")
	v.SetDefault("storage.endpoint", "http://localhost:8080/uploads")

	v.SetDefault("gallery.max_images", 10)
	v.SetDefault("gallery.max_file_size", 700*1024)
	v.SetDefault("gallery.upload_concurrency", 4)
	v.SetDefault("gallery.progress_reset", time.Second)
	v.SetDefault("gallery.session_ttl", 30*time.Minute)
	v.SetDefault("gallery.sweep_cron", "0 * * * * *")

	v.SetDefault("facets.refresh_cron", "0 */10 * * * *")

	v.SetDefault("auth.enabled", true)
	v.SetDefault("auth.secret_key", "laptop-catalog-secret-change-in-production")
	v.SetDefault("auth.issuer", "laptop-catalog")
	v.SetDefault("auth.token_ttl", 12*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("upload_limit.interval", 500*time.Millisecond)
	v.SetDefault("upload_limit.burst", 5)
}

// Load 读取配置文件 + 环境变量
// path 为空时在 . 和 ./config 下查找 config.yaml，文件不存在时只使用默认值和环境变量
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 检查配置合法性
func (c *Config) Validate() error {
	if c.Gallery.MaxImages <= 0 {
		return fmt.Errorf("gallery.max_images 必须大于 0")
	}
	if c.Gallery.MaxFileSize <= 0 {
		return fmt.Errorf("gallery.max_file_size 必须大于 0")
	}
	switch c.Store.Provider {
	case "db":
	case "remote":
		if c.Store.BaseURL == "" {
			return fmt.Errorf("store.provider=remote 时必须配置 store.base_url")
		}
	default:
		return fmt.Errorf("不支持的商品存储: %s", c.Store.Provider)
	}
	if c.Auth.Enabled && c.Auth.SecretKey == "" {
		return fmt.Errorf("auth.secret_key 不能为空")
	}
	return nil
}
