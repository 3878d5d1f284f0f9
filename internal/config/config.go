package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ViewportProviderMercator = "mercator"
	ViewportProviderRemote   = "remote"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Log       LogConfig
	Worker    WorkerConfig
	Viewport  ViewportConfig
	Selection SelectionConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	MigrationsPath  string
	AutoMigrate     bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

type CacheConfig struct {
	ZoomCacheTTL time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxBatch          int
	MaxRetries        int
	ShutdownTimeout   time.Duration
	ClaimMinIdle      time.Duration
}

// ViewportConfig описывает хост карты: локальную симуляцию Web Mercator
// или удалённый сервис, отдающий видимые границы
type ViewportConfig struct {
	Provider      string
	WidthPx       int
	HeightPx      int
	TileSize      int
	MinZoom       float64
	MaxZoom       float64
	RemoteURL     string
	RemoteTimeout time.Duration
	RemoteRPS     float64
}

type SelectionConfig struct {
	MaxPOIs int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return fromViper(viper.GetViper()), nil
}

// LoadFromEnv читает только переменные окружения, без .env файла
func LoadFromEnv() *Config {
	v := viper.New()
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        v.GetString("API_HOST"),
			Port:        v.GetInt("API_PORT"),
			Env:         v.GetString("API_ENV"),
			CORSOrigins: v.GetString("CORS_ALLOW_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxConns:        v.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(v.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
			MigrationsPath:  v.GetString("DB_MIGRATIONS_PATH"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		Cache: CacheConfig{
			ZoomCacheTTL: time.Duration(v.GetInt("ZOOM_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           v.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     v.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(v.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxBatch:          v.GetInt("WORKER_MAX_BATCH"),
			MaxRetries:        v.GetInt("WORKER_MAX_RETRIES"),
			ShutdownTimeout:   time.Duration(v.GetInt("WORKER_SHUTDOWN_TIMEOUT")) * time.Second,
			ClaimMinIdle:      time.Duration(v.GetInt("WORKER_CLAIM_MIN_IDLE")) * time.Second,
		},
		Viewport: ViewportConfig{
			Provider:      strings.ToLower(strings.TrimSpace(v.GetString("VIEWPORT_PROVIDER"))),
			WidthPx:       v.GetInt("VIEWPORT_WIDTH_PX"),
			HeightPx:      v.GetInt("VIEWPORT_HEIGHT_PX"),
			TileSize:      v.GetInt("VIEWPORT_TILE_SIZE"),
			MinZoom:       v.GetFloat64("VIEWPORT_MIN_ZOOM"),
			MaxZoom:       v.GetFloat64("VIEWPORT_MAX_ZOOM"),
			RemoteURL:     strings.TrimRight(v.GetString("VIEWPORT_REMOTE_URL"), "/"),
			RemoteTimeout: time.Duration(v.GetInt("VIEWPORT_REMOTE_TIMEOUT")) * time.Second,
			RemoteRPS:     v.GetFloat64("VIEWPORT_REMOTE_RPS"),
		},
		Selection: SelectionConfig{
			MaxPOIs: v.GetInt("SELECTION_MAX_POIS"),
		},
	}

	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.CORSOrigins == "" {
		c.Server.CORSOrigins = "http://localhost:3000,http://localhost:5173"
	}
	if c.Redis.PoolSize == 0 {
		c.Redis.PoolSize = 10
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Cache.ZoomCacheTTL == 0 {
		c.Cache.ZoomCacheTTL = 10 * time.Minute
	}
	if c.Database.MigrationsPath == "" {
		c.Database.MigrationsPath = "migrations"
	}

	// Значения по умолчанию
	if c.Worker.ConsumerGroup == "" {
		c.Worker.ConsumerGroup = "zoom-selection-workers"
	}
	if c.Worker.StreamReadTimeout == 0 {
		c.Worker.StreamReadTimeout = 5000 * time.Millisecond
	}
	if c.Worker.MaxBatch == 0 {
		c.Worker.MaxBatch = 10
	}
	if c.Worker.MaxRetries == 0 {
		c.Worker.MaxRetries = 3
	}
	if c.Worker.ShutdownTimeout == 0 {
		c.Worker.ShutdownTimeout = 30 * time.Second
	}
	if c.Worker.ClaimMinIdle == 0 {
		c.Worker.ClaimMinIdle = 30 * time.Second
	}

	if c.Viewport.Provider == "" {
		c.Viewport.Provider = ViewportProviderMercator
	}
	if c.Viewport.WidthPx == 0 {
		c.Viewport.WidthPx = 1080
	}
	if c.Viewport.HeightPx == 0 {
		c.Viewport.HeightPx = 1920
	}
	if c.Viewport.TileSize == 0 {
		c.Viewport.TileSize = 256
	}
	if c.Viewport.MinZoom == 0 && c.Viewport.MaxZoom == 0 {
		c.Viewport.MinZoom = 2
		c.Viewport.MaxZoom = 21
	}
	if c.Viewport.RemoteTimeout == 0 {
		c.Viewport.RemoteTimeout = 5 * time.Second
	}
	if c.Viewport.RemoteRPS == 0 {
		c.Viewport.RemoteRPS = 50
	}

	if c.Selection.MaxPOIs == 0 {
		c.Selection.MaxPOIs = 500
	}
}

// Validate проверяет согласованность настроек, которые нельзя исправить значениями по умолчанию
func (c *Config) Validate() error {
	switch c.Viewport.Provider {
	case ViewportProviderMercator:
	case ViewportProviderRemote:
		if c.Viewport.RemoteURL == "" {
			return fmt.Errorf("VIEWPORT_REMOTE_URL is required for remote viewport provider")
		}
	default:
		return fmt.Errorf("unknown VIEWPORT_PROVIDER %q", c.Viewport.Provider)
	}
	if c.Viewport.MinZoom > c.Viewport.MaxZoom {
		return fmt.Errorf("VIEWPORT_MIN_ZOOM (%v) exceeds VIEWPORT_MAX_ZOOM (%v)", c.Viewport.MinZoom, c.Viewport.MaxZoom)
	}
	if c.Viewport.WidthPx < 0 || c.Viewport.HeightPx < 0 || c.Viewport.TileSize < 0 {
		return fmt.Errorf("viewport dimensions must be positive")
	}
	if c.Selection.MaxPOIs < 0 {
		return fmt.Errorf("SELECTION_MAX_POIS must be positive")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN - строка подключения в формате key=value для драйвера pgx
func (d *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s", d.Host, d.Port, d.User, d.DBName)
	if d.Password != "" {
		dsn += " password=" + d.Password
	}
	if d.SSLMode != "" {
		dsn += " sslmode=" + d.SSLMode
	}
	return dsn
}

// GetDatabaseURL - DSN в формате URL, который ожидает golang-migrate
func (c *Config) GetDatabaseURL() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
