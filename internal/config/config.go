package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/catlover7211/news-aggregator/internal/engine"
	"github.com/catlover7211/news-aggregator/internal/source"
)

// Config 应用配置
type Config struct {
	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// 本地来源配置，为空时使用内置来源表
	Sources []source.Config `yaml:"sources"`

	// 本地抓取配置
	Local LocalConfig `yaml:"local"`

	// 远程聚合服务配置
	Remote RemoteConfig `yaml:"remote"`

	// 结果缓存配置
	Cache CacheConfig `yaml:"cache"`

	// 代理配置
	Proxy ProxyConfig `yaml:"proxy"`

	// 浏览器配置
	Browser BrowserConfig `yaml:"browser"`

	// 搜索历史配置
	History HistoryConfig `yaml:"history"`

	// MCP 配置
	MCP MCPConfig `yaml:"mcp"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port      int             `yaml:"port"`
	Host      string          `yaml:"host"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Origin  string `yaml:"origin"`
}

// RateLimitConfig /search 限流配置
type RateLimitConfig struct {
	Enabled        bool `yaml:"enabled"`
	RequestsPerMin int  `yaml:"requests_per_min"`
	Burst          int  `yaml:"burst"`
}

// LocalConfig 本地抓取配置
type LocalConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxPerSource int           `yaml:"max_per_source"`
	UserAgent    string        `yaml:"user_agent"`
}

// RemoteConfig 远程聚合服务配置
type RemoteConfig struct {
	BaseURL            string        `yaml:"base_url"`
	HealthTimeout      time.Duration `yaml:"health_timeout"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	MaxAttempts        int           `yaml:"max_attempts"`
	RetryInterval      time.Duration `yaml:"retry_interval"`
	Limit              int           `yaml:"limit"`
	Lang               string        `yaml:"lang"`
	Region             string        `yaml:"region"`
	Command            string        `yaml:"command"`
	Args               []string      `yaml:"args"`
	Dir                string        `yaml:"dir"`
	BreakerMaxFailures uint32        `yaml:"breaker_max_failures"`
	BreakerTimeout     time.Duration `yaml:"breaker_timeout"`
}

// CacheConfig 结果缓存配置
type CacheConfig struct {
	Capacity  int     `yaml:"capacity"`
	Threshold float64 `yaml:"threshold"`
}

// ProxyConfig 代理配置
type ProxyConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// BrowserConfig 浏览器配置
type BrowserConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Headless bool          `yaml:"headless"`
	Timeout  time.Duration `yaml:"timeout"`
}

// HistoryConfig 搜索历史配置
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// MCPConfig MCP 协议配置
type MCPConfig struct {
	ServerName    string `yaml:"server_name"`
	ServerVersion string `yaml:"server_version"`
	ToolName      string `yaml:"tool_name"`
}

// DefaultConfig 默认配置
var DefaultConfig = &Config{
	Server: ServerConfig{
		Port: 5000,
		Host: "0.0.0.0",
		CORS: CORSConfig{
			Enabled: false,
			Origin:  "*",
		},
		RateLimit: RateLimitConfig{
			Enabled:        true,
			RequestsPerMin: 60,
			Burst:          20,
		},
	},
	Local: LocalConfig{
		Timeout:      10 * time.Second,
		MaxPerSource: 5,
		UserAgent:    engine.DefaultUserAgent,
	},
	Remote: RemoteConfig{
		BaseURL:            "http://127.0.0.1:3001",
		HealthTimeout:      2 * time.Second,
		RequestTimeout:     10 * time.Second,
		MaxAttempts:        3,
		RetryInterval:      1 * time.Second,
		Limit:              30,
		Lang:               "zh-TW",
		Region:             "tw",
		Command:            "node",
		Args:               []string{"index.js"},
		Dir:                "search_engine_service",
		BreakerMaxFailures: 5,
		BreakerTimeout:     30 * time.Second,
	},
	Cache: CacheConfig{
		Capacity:  100,
		Threshold: 0.8,
	},
	Proxy: ProxyConfig{
		Enabled: false,
		URL:     "http://127.0.0.1:7890",
	},
	Browser: BrowserConfig{
		Enabled:  true,
		Headless: true,
		Timeout:  30 * time.Second,
	},
	History: HistoryConfig{
		Enabled: true,
		Path:    "data/history.db",
	},
	MCP: MCPConfig{
		ServerName:    "news-aggregator",
		ServerVersion: "1.0.0",
		ToolName:      "search_news",
	},
}

// configSearchPaths 配置文件搜索路径
var configSearchPaths = []string{
	"config.yaml",
	"config.yml",
	"configs/config.yaml",
	"configs/config.yml",
}

// Load 从 YAML 配置文件加载配置
// 支持通过 CONFIG_FILE 环境变量指定配置文件路径
func Load() *Config {
	cfg := defaults()

	configPath := findConfigFile()
	if configPath == "" {
		log.Printf("⚠️ No config file found, using default configuration")
		log.Printf("💡 You can create a config.yaml file or set CONFIG_FILE environment variable")
		cfg.validate()
		cfg.Print()
		return cfg
	}

	log.Printf("📄 Loading configuration from: %s", configPath)
	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Printf("⚠️ Failed to read config file: %v, using defaults", err)
		cfg.validate()
		cfg.Print()
		return cfg
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		log.Printf("⚠️ Failed to parse config file: %v, using defaults", err)
		cfg = defaults()
	}

	cfg.validate()
	cfg.Print()

	return cfg
}

// LoadFromFile 从指定路径加载配置
func LoadFromFile(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file failed: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file failed: %w", err)
	}

	cfg.validate()
	return cfg, nil
}

// defaults 深拷贝默认配置，避免切片字段共享
func defaults() *Config {
	cfg := *DefaultConfig
	cfg.Remote.Args = append([]string(nil), DefaultConfig.Remote.Args...)
	cfg.Sources = nil
	return &cfg
}

// findConfigFile 查找配置文件
func findConfigFile() string {
	if envPath := os.Getenv("CONFIG_FILE"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		log.Printf("⚠️ CONFIG_FILE=%s not found, searching default paths", envPath)
	}

	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	workDir, _ := os.Getwd()

	searchDirs := []string{workDir}
	if execDir != "" && execDir != workDir {
		searchDirs = append(searchDirs, execDir)
	}

	for _, dir := range searchDirs {
		for _, name := range configSearchPaths {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// validate 验证并修正配置
func (c *Config) validate() {
	d := DefaultConfig

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		log.Printf("⚠️ Invalid port %d, using default %d", c.Server.Port, d.Server.Port)
		c.Server.Port = d.Server.Port
	}
	if c.Server.Host == "" {
		c.Server.Host = d.Server.Host
	}
	if c.Server.CORS.Origin == "" {
		c.Server.CORS.Origin = d.Server.CORS.Origin
	}
	if c.Server.RateLimit.RequestsPerMin <= 0 {
		c.Server.RateLimit.RequestsPerMin = d.Server.RateLimit.RequestsPerMin
	}
	if c.Server.RateLimit.Burst <= 0 {
		c.Server.RateLimit.Burst = d.Server.RateLimit.Burst
	}

	if len(c.Sources) == 0 {
		c.Sources = source.Defaults()
	}

	if c.Local.Timeout <= 0 {
		c.Local.Timeout = d.Local.Timeout
	}
	if c.Local.MaxPerSource <= 0 {
		c.Local.MaxPerSource = d.Local.MaxPerSource
	}
	if c.Local.UserAgent == "" {
		c.Local.UserAgent = d.Local.UserAgent
	}

	c.Remote.BaseURL = strings.TrimRight(c.Remote.BaseURL, "/")
	if c.Remote.BaseURL == "" {
		log.Printf("⚠️ Remote base_url is empty, using %s", d.Remote.BaseURL)
		c.Remote.BaseURL = d.Remote.BaseURL
	}
	if c.Remote.HealthTimeout <= 0 {
		c.Remote.HealthTimeout = d.Remote.HealthTimeout
	}
	if c.Remote.RequestTimeout <= 0 {
		c.Remote.RequestTimeout = d.Remote.RequestTimeout
	}
	if c.Remote.MaxAttempts <= 0 {
		log.Printf("⚠️ Invalid max_attempts %d, using default %d", c.Remote.MaxAttempts, d.Remote.MaxAttempts)
		c.Remote.MaxAttempts = d.Remote.MaxAttempts
	}
	if c.Remote.RetryInterval < 0 {
		c.Remote.RetryInterval = d.Remote.RetryInterval
	}
	if c.Remote.Limit <= 0 {
		c.Remote.Limit = d.Remote.Limit
	}
	if c.Remote.Lang == "" {
		c.Remote.Lang = d.Remote.Lang
	}
	if c.Remote.Region == "" {
		c.Remote.Region = d.Remote.Region
	}
	if c.Remote.BreakerMaxFailures == 0 {
		c.Remote.BreakerMaxFailures = d.Remote.BreakerMaxFailures
	}
	if c.Remote.BreakerTimeout <= 0 {
		c.Remote.BreakerTimeout = d.Remote.BreakerTimeout
	}

	if c.Cache.Capacity <= 0 {
		log.Printf("⚠️ Invalid cache capacity %d, using default %d", c.Cache.Capacity, d.Cache.Capacity)
		c.Cache.Capacity = d.Cache.Capacity
	}
	if c.Cache.Threshold <= 0 || c.Cache.Threshold > 1 {
		c.Cache.Threshold = d.Cache.Threshold
	}

	if c.Proxy.Enabled && c.Proxy.URL == "" {
		log.Printf("⚠️ Proxy enabled but URL is empty, using default")
		c.Proxy.URL = d.Proxy.URL
	}

	if c.Browser.Timeout <= 0 {
		c.Browser.Timeout = d.Browser.Timeout
	}

	if c.History.Enabled && c.History.Path == "" {
		c.History.Path = d.History.Path
	}

	if c.MCP.ServerName == "" {
		c.MCP.ServerName = d.MCP.ServerName
	}
	if c.MCP.ServerVersion == "" {
		c.MCP.ServerVersion = d.MCP.ServerVersion
	}
	if c.MCP.ToolName == "" {
		c.MCP.ToolName = d.MCP.ToolName
	}
}

// Print 打印配置信息
func (c *Config) Print() {
	log.Printf("📰 Local sources: %d", len(c.Sources))
	log.Printf("🌍 Remote search service: %s (attempts=%d, timeout=%s)", c.Remote.BaseURL, c.Remote.MaxAttempts, c.Remote.RequestTimeout)
	log.Printf("🗃️ Result cache capacity: %d (clear above %.0f%%)", c.Cache.Capacity, c.Cache.Threshold*100)
	if c.Proxy.Enabled {
		log.Printf("🌐 Using proxy: %s", c.Proxy.URL)
	} else {
		log.Printf("🌐 No proxy configured")
	}
	if c.Server.CORS.Enabled {
		log.Printf("🔒 CORS enabled with origin: %s", c.Server.CORS.Origin)
	} else {
		log.Printf("🔒 CORS disabled")
	}
	if c.History.Enabled {
		log.Printf("📈 Search history: %s", c.History.Path)
	}
	log.Printf("🔧 MCP Server: %s v%s", c.MCP.ServerName, c.MCP.ServerVersion)
	log.Printf("🖥️ Server will listen on %s:%d", c.Server.Host, c.Server.Port)
}

// GetPort 获取端口
func (c *Config) GetPort() int {
	return c.Server.Port
}

// GetHost 获取主机
func (c *Config) GetHost() string {
	return c.Server.Host
}

// GetAddr 获取监听地址
func (c *Config) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsEnableCORS 是否启用 CORS
func (c *Config) IsEnableCORS() bool {
	return c.Server.CORS.Enabled
}

// GetCORSOrigin 获取 CORS Origin
func (c *Config) GetCORSOrigin() string {
	return c.Server.CORS.Origin
}

// IsUseProxy 是否使用代理
func (c *Config) IsUseProxy() bool {
	return c.Proxy.Enabled
}

// GetProxyURL 获取代理 URL，未启用时返回空
func (c *Config) GetProxyURL() string {
	if !c.Proxy.Enabled {
		return ""
	}
	return c.Proxy.URL
}

// IsBrowserEnabled 是否启用浏览器渲染
func (c *Config) IsBrowserEnabled() bool {
	return c.Browser.Enabled
}

// IsBrowserHeadless 浏览器是否使用无头模式
func (c *Config) IsBrowserHeadless() bool {
	return c.Browser.Headless
}
