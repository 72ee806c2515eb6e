package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-CarBookingService/internal/domain"
	"github.com/m04kA/SMC-CarBookingService/pkg/types"
)

// Режимы аутентификации
const (
	AuthModeJWT    = "jwt"
	AuthModeHeader = "header"
)

// Реализации блокировки автомобиля
const (
	LockDriverLocal = "local"
	LockDriverRedis = "redis"
)

// Переменные окружения, переопределяющие секреты из файла
const (
	EnvDatabasePassword = "DATABASE_PASSWORD"
	EnvJWTSecret        = "AUTH_JWT_SECRET"
)

// ErrInvalidConfig возвращается, когда конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("invalid config")

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Auth      AuthConfig      `toml:"auth"`
	Booking   BookingConfig   `toml:"booking"`
	Lock      LockConfig      `toml:"lock"`
	Redis     RedisConfig     `toml:"redis"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AuthConfig настройки аутентификации
type AuthConfig struct {
	Mode      string `toml:"mode"` // jwt | header
	JWTSecret string `toml:"jwt_secret"`
}

// BookingConfig рабочее окно и размер слота по умолчанию
type BookingConfig struct {
	Timezone      string `toml:"timezone"`
	BusinessStart string `toml:"business_start"` // HH:MM
	BusinessEnd   string `toml:"business_end"`   // HH:MM
	SlotMinutes   int    `toml:"slot_minutes"`
}

// Location часовой пояс рабочего дня
func (b BookingConfig) Location() (*time.Location, error) {
	return time.LoadLocation(b.Timezone)
}

// Window начало и конец рабочего дня
func (b BookingConfig) Window() (types.TimeString, types.TimeString, error) {
	start, err := types.NewTimeStringFromString(b.BusinessStart)
	if err != nil {
		return "", "", fmt.Errorf("business_start: %w", err)
	}
	end, err := types.NewTimeStringFromString(b.BusinessEnd)
	if err != nil {
		return "", "", fmt.Errorf("business_end: %w", err)
	}
	return start, end, nil
}

// LockConfig настройки блокировки автомобиля на время приёма бронирования
type LockConfig struct {
	Driver           string `toml:"driver"` // local | redis
	AcquireTimeoutMs int    `toml:"acquire_timeout_ms"`
	TTLSeconds       int    `toml:"ttl_seconds"`
	RetryIntervalMs  int    `toml:"retry_interval_ms"`
}

// AcquireTimeout максимальное ожидание блокировки
func (l LockConfig) AcquireTimeout() time.Duration {
	return time.Duration(l.AcquireTimeoutMs) * time.Millisecond
}

// TTL время жизни распределённой блокировки
func (l LockConfig) TTL() time.Duration {
	return time.Duration(l.TTLSeconds) * time.Second
}

// RetryInterval пауза между попытками взять распределённую блокировку
func (l LockConfig) RetryInterval() time.Duration {
	return time.Duration(l.RetryIntervalMs) * time.Millisecond
}

// RedisConfig настройки подключения к Redis
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RateLimitConfig ограничение частоты запросов к публичным endpoint
type RateLimitConfig struct {
	Enabled           bool     `toml:"enabled"`
	RequestsPerSecond float64  `toml:"requests_per_second"`
	Burst             int      `toml:"burst"`
	IdleTTLSeconds    int      `toml:"idle_ttl_seconds"`
	TrustedProxies    []string `toml:"trusted_proxies"`
}

// IdleTTL время, после которого лимитер неактивного IP удаляется
func (r RateLimitConfig) IdleTTL() time.Duration {
	return time.Duration(r.IdleTTLSeconds) * time.Second
}

// TrustedProxyPrefixes разбирает trusted_proxies; одиночный адрес становится префиксом /32 или /128
func (r RateLimitConfig) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(r.TrustedProxies))
	for _, raw := range r.TrustedProxies {
		if prefix, err := netip.ParsePrefix(raw); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q is neither an address nor a CIDR", raw)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// Load читает конфигурацию из TOML файла, применяет значения по умолчанию,
// переменные окружения и проверяет результат
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefault(&c.Database.Host, "localhost")
	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.SSLMode, "disable")
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	setDefault(&c.Logs.Level, "info")

	setDefault(&c.Metrics.Path, "/metrics")
	setDefault(&c.Metrics.ServiceName, "car_booking_service")

	setDefault(&c.Auth.Mode, AuthModeJWT)

	setDefault(&c.Booking.Timezone, domain.DefaultTimezone)
	setDefault(&c.Booking.BusinessStart, domain.DefaultBusinessStart)
	setDefault(&c.Booking.BusinessEnd, domain.DefaultBusinessEnd)
	setDefault(&c.Booking.SlotMinutes, domain.DefaultSlotDurationMinutes)

	setDefault(&c.Lock.Driver, LockDriverLocal)
	setDefault(&c.Lock.AcquireTimeoutMs, 3000)
	setDefault(&c.Lock.TTLSeconds, 30)
	setDefault(&c.Lock.RetryIntervalMs, 25)

	setDefault(&c.Redis.Addr, "localhost:6379")

	setDefault(&c.RateLimit.RequestsPerSecond, 10)
	setDefault(&c.RateLimit.Burst, 20)
	setDefault(&c.RateLimit.IdleTTLSeconds, 300)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDatabasePassword); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv(EnvJWTSecret); v != "" {
		c.Auth.JWTSecret = v
	}
}

// Validate проверяет значения, которые нельзя исправить значениями по умолчанию
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}

	if c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("%w: database.dbname and database.user are required", ErrInvalidConfig)
	}

	switch c.Auth.Mode {
	case AuthModeJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("%w: auth.jwt_secret is required in jwt mode (or %s)", ErrInvalidConfig, EnvJWTSecret)
		}
	case AuthModeHeader:
	default:
		return fmt.Errorf("%w: unknown auth.mode %q", ErrInvalidConfig, c.Auth.Mode)
	}

	if _, err := c.Booking.Location(); err != nil {
		return fmt.Errorf("%w: booking.timezone: %v", ErrInvalidConfig, err)
	}

	start, end, err := c.Booking.Window()
	if err != nil {
		return fmt.Errorf("%w: booking.%v", ErrInvalidConfig, err)
	}
	if !start.IsBefore(end) {
		return fmt.Errorf("%w: booking.business_start %s must be before business_end %s", ErrInvalidConfig, start, end)
	}

	if c.Booking.SlotMinutes < domain.MinSlotDurationMinutes || c.Booking.SlotMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: booking.slot_minutes must be in [%d, %d]",
			ErrInvalidConfig, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	switch c.Lock.Driver {
	case LockDriverLocal, LockDriverRedis:
	default:
		return fmt.Errorf("%w: unknown lock.driver %q", ErrInvalidConfig, c.Lock.Driver)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("%w: rate_limit.requests_per_second and rate_limit.burst must be positive", ErrInvalidConfig)
	}

	if _, err := c.RateLimit.TrustedProxyPrefixes(); err != nil {
		return fmt.Errorf("%w: rate_limit.%v", ErrInvalidConfig, err)
	}

	return nil
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
