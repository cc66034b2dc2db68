package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Log    LogConfig
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// StoreConfig 描述心愿池与分配记录的文件位置。
type StoreConfig struct {
	WishesPath      string
	AssignmentsPath string
	// ReserveAssigned 为 true 时，启动时从心愿池中剔除已分配的心愿。
	ReserveAssigned bool
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level       zapcore.Level
	Development bool
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom 使用给定的 viper 实例加载配置，便于测试覆盖。
func LoadFrom(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)
	v.AutomaticEnv()

	server, err := loadServerConfig(v)
	if err != nil {
		return nil, err
	}

	store, err := loadStoreConfig(v)
	if err != nil {
		return nil, err
	}

	log, err := loadLogConfig(v)
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Store: store, Log: log}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("WISHES_FILE", "wishes.json")
	v.SetDefault("ASSIGNMENTS_FILE", "assignments.json")
	v.SetDefault("WISH_RESERVE_ASSIGNED", "true")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DEVELOPMENT", "false")
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig(v *viper.Viper) (ServerConfig, error) {
	port := getString(v, "PORT", "8080")

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

func loadStoreConfig(v *viper.Viper) (StoreConfig, error) {
	reserve, err := parseBool(v, "WISH_RESERVE_ASSIGNED", true)
	if err != nil {
		return StoreConfig{}, err
	}

	return StoreConfig{
		WishesPath:      getString(v, "WISHES_FILE", "wishes.json"),
		AssignmentsPath: getString(v, "ASSIGNMENTS_FILE", "assignments.json"),
		ReserveAssigned: reserve,
	}, nil
}

func loadLogConfig(v *viper.Viper) (LogConfig, error) {
	raw := getString(v, "LOG_LEVEL", "info")
	level, err := zapcore.ParseLevel(raw)
	if err != nil {
		return LogConfig{}, fmt.Errorf("invalid LOG_LEVEL value %q: %w", raw, err)
	}

	development, err := parseBool(v, "LOG_DEVELOPMENT", false)
	if err != nil {
		return LogConfig{}, err
	}

	return LogConfig{Level: level, Development: development}, nil
}

func getString(v *viper.Viper, key, defaultValue string) string {
	if value := strings.TrimSpace(v.GetString(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v *viper.Viper, key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}
