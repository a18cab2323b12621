// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Database      DatabaseConfig      `yaml:"database" mapstructure:"database"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Search        SearchConfig        `yaml:"search" mapstructure:"search"`
	Deploy        DeployConfig        `yaml:"deploy" mapstructure:"deploy"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres" mapstructure:"postgres"`
}

// PostgresConfig PostgreSQL 配置
type PostgresConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Database        string        `yaml:"database" mapstructure:"database"`
	SSLMode         string        `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// LLMConfig LLM 后端与回退编排配置
type LLMConfig struct {
	OpenRouter OpenRouterConfig `yaml:"openrouter" mapstructure:"openrouter"`
	Groq       GroqConfig       `yaml:"groq" mapstructure:"groq"`
	Gemini     GeminiConfig     `yaml:"gemini" mapstructure:"gemini"`

	// Roles 角色到候选后端的静态映射，按偏好降序排列。
	// 留空的角色使用内置默认表。
	Roles map[string][]CandidateConfig `yaml:"roles" mapstructure:"roles"`

	// Bridge 第二层固定桥接后端（与角色无关）
	Bridge CandidateConfig `yaml:"bridge" mapstructure:"bridge"`
	// Floor 第四层兜底后端（与角色无关）
	Floor CandidateConfig `yaml:"floor" mapstructure:"floor"`

	// Verifier 共识流水线校验阶段专用的双候选（不经过角色注册表）
	Verifier VerifierConfig `yaml:"verifier" mapstructure:"verifier"`

	// RateLimitBackoff 命中限流后前进到下一层之前的固定等待
	RateLimitBackoff time.Duration `yaml:"rate_limit_backoff" mapstructure:"rate_limit_backoff"`

	// MaxTokens 中段生成阶段的 token 上限
	MaxTokens int `yaml:"max_tokens" mapstructure:"max_tokens"`
	// LightMaxTokens 轻量角色（大纲等）的 token 上限
	LightMaxTokens int `yaml:"light_max_tokens" mapstructure:"light_max_tokens"`
}

// CandidateConfig 一个 (后端, 模型) 候选
type CandidateConfig struct {
	Backend string `yaml:"backend" mapstructure:"backend"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// OpenRouterConfig Chat-Completions HTTP 后端配置
type OpenRouterConfig struct {
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// GroqConfig 快速推理 SDK 后端配置
type GroqConfig struct {
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// GeminiConfig 生成式 AI SDK 后端配置
type GeminiConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
}

// VerifierConfig 校验阶段的主/备模型（均走 Chat-Completions HTTP 后端）
type VerifierConfig struct {
	PrimaryModel  string `yaml:"primary_model" mapstructure:"primary_model"`
	FallbackModel string `yaml:"fallback_model" mapstructure:"fallback_model"`
}

// SearchConfig 搜索聚合配置
type SearchConfig struct {
	Providers  map[string]SearchProviderConfig `yaml:"providers" mapstructure:"providers"`
	MaxResults int                             `yaml:"max_results" mapstructure:"max_results"`
	Timeout    time.Duration                   `yaml:"timeout" mapstructure:"timeout"`
}

// SearchProviderConfig 单个搜索提供商配置
type SearchProviderConfig struct {
	APIKey   string  `yaml:"api_key" mapstructure:"api_key"`
	Endpoint string  `yaml:"endpoint" mapstructure:"endpoint"`
	Weight   float64 `yaml:"weight" mapstructure:"weight"`
	Enabled  bool    `yaml:"enabled" mapstructure:"enabled"`
}

// DeployConfig 静态站点重建触发配置
type DeployConfig struct {
	BuildHookURL string        `yaml:"build_hook_url" mapstructure:"build_hook_url"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter   string  `yaml:"exporter" mapstructure:"exporter"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	JWT       JWTConfig       `yaml:"jwt" mapstructure:"jwt"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	Secret            string        `yaml:"secret" mapstructure:"secret"`
	Issuer            string        `yaml:"issuer" mapstructure:"issuer"`
	Enabled           bool          `yaml:"enabled" mapstructure:"enabled"`
	Expiration        time.Duration `yaml:"expiration" mapstructure:"expiration"`
	RefreshExpiration time.Duration `yaml:"refresh_expiration" mapstructure:"refresh_expiration"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int  `yaml:"burst" mapstructure:"burst"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
