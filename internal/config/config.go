package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zhouzirui/persona-widget/internal/model/persona"
)

// Attribution 决定回复署名使用发送时还是收到时的 persona，默认收到时。
type Attribution string

const (
	AttributeAtRequest  Attribution = "request"
	AttributeAtResponse Attribution = "response"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	Widget WidgetConfig
	Log    LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	widget, err := loadWidgetConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Widget: widget, Log: logCfg}, nil
}

// ServerConfig 描述本地上游桩服务的 HTTP 配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8000" 或 "127.0.0.1:8000"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// WidgetConfig 描述聊天组件连接上游的配置。
type WidgetConfig struct {
	BaseURL        string
	DefaultPersona string
	// Timeout 为 0 表示请求不设超时。
	Timeout     time.Duration
	Attribution Attribution
}

func loadWidgetConfig() (WidgetConfig, error) {
	timeout, err := parseOptionalIntEnv("WIDGET_REQUEST_TIMEOUT")
	if err != nil {
		return WidgetConfig{}, err
	}
	var requestTimeout time.Duration
	if timeout != nil {
		if *timeout < 0 {
			return WidgetConfig{}, fmt.Errorf("invalid WIDGET_REQUEST_TIMEOUT value %d: must not be negative", *timeout)
		}
		requestTimeout = time.Duration(*timeout) * time.Second
	}

	attribution, err := ParseAttribution(getEnvOrDefault("WIDGET_ATTRIBUTION", string(AttributeAtResponse)))
	if err != nil {
		return WidgetConfig{}, err
	}

	return WidgetConfig{
		BaseURL:        strings.TrimRight(getEnvOrDefault("WIDGET_API_BASE_URL", "http://localhost:8000"), "/"),
		DefaultPersona: getEnvOrDefault("WIDGET_DEFAULT_PERSONA", persona.DefaultID),
		Timeout:        requestTimeout,
		Attribution:    attribution,
	}, nil
}

// ParseAttribution 校验署名策略。
func ParseAttribution(raw string) (Attribution, error) {
	switch Attribution(strings.ToLower(strings.TrimSpace(raw))) {
	case AttributeAtRequest:
		return AttributeAtRequest, nil
	case AttributeAtResponse:
		return AttributeAtResponse, nil
	default:
		return "", fmt.Errorf("invalid attribution %q: want %q or %q", raw, AttributeAtRequest, AttributeAtResponse)
	}
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level string
	File  string
}

func loadLogConfig() (LogConfig, error) {
	level := strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info"))
	switch level {
	case "trace", "debug", "info", "warn", "error", "disabled":
	default:
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL value %q", level)
	}

	return LogConfig{
		Level: level,
		File:  strings.TrimSpace(os.Getenv("LOG_FILE")),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
