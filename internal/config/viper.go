package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/ayoisaiah/tally/internal/taxonomy"
)

// viperKeys defines the mapping between config keys and their Viper counterparts.
const (
	keyTimezone             = "timezone"
	keyProduction           = "activities.production"
	keyInvestment           = "activities.investment"
	keyExpense              = "activities.expense"
	keyLLMProvider          = "llm.provider"
	keyLLMModel             = "llm.model"
	keyLLMAPIKey            = "llm.api_key"
	keyLLMTimeout           = "llm.timeout"
	keyLLMTemperature       = "llm.temperature"
	keyLLMMaxTokens         = "llm.max_tokens"
	keyLogLevel             = "log.level"
	keyLogMaxSize           = "log.max_size"
	keyLogMaxBackups        = "log.max_backups"
	keyLogMaxAge            = "log.max_age"
	keyStorageBackend       = "storage.backend"
	keyStoragePath          = "storage.path"
	keyNotificationsEnabled = "notifications.enabled"
	keyDarkTheme            = "display.dark_theme"
)

const (
	DefaultTimezone   = "Asia/Shanghai"
	DefaultProduction = "沟通,管理,输出,总结,目标,吉他,家庭,助人,分享,商业,写作,组织,执行,创新,编程"
	DefaultInvestment = "健康,旅行,人脉,交易,运动,冥想,阅读,恋爱,学习,朋友,播客"
	DefaultExpense    = "购物,日常,睡觉,情绪,无意识,通勤,视频,社交,耍手机,吃饭,杂事,游戏,看电视,休息"
	DefaultModel      = "gemini-2.0-flash"
)

// envPrefix turns llm.api_key into TALLY_LLM_API_KEY.
const envPrefix = "TALLY"

// WithViperConfig returns an Option that loads configuration from Viper.
// A config file with default values is created if none exists.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		c.System.ConfigPath = configPath

		_, err := os.Stat(configPath)
		if errors.Is(err, os.ErrNotExist) {
			if err := writeDefaults(configPath, c); err != nil {
				return errWriteConfig.Wrap(err)
			}
		}

		v := newViper(configPath)

		if err := v.ReadInConfig(); err != nil {
			return errReadConfig.Wrap(err)
		}

		return loadViperConfig(v, c)
	}
}

// Watch reloads the config file whenever it changes and passes the new
// configuration, or the reason it could not be loaded, to fn.
func Watch(configPath string, fn func(*Config, error)) error {
	v := newViper(configPath)

	if err := v.ReadInConfig(); err != nil {
		return errReadConfig.Wrap(err)
	}

	v.OnConfigChange(func(_ fsnotify.Event) {
		fn(reload(v, configPath))
	})

	v.WatchConfig()

	return nil
}

func reload(v *viper.Viper, configPath string) (*Config, error) {
	c := &Config{
		System: SystemConfig{ConfigPath: configPath},
	}

	if err := loadViperConfig(v, c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, errConfigValidation.Wrap(err)
	}

	return c, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// writeDefaults creates the config file from the defaults and any values
// collected by the first-run prompt. Environment overrides are kept out of
// the file.
func writeDefaults(configPath string, c *Config) error {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if c.Timezone != "" {
		v.Set(keyTimezone, c.Timezone)
	}

	if c.LLM.APIKey != "" {
		v.Set(keyLLMAPIKey, c.LLM.APIKey)
	}

	return v.WriteConfig()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyTimezone, DefaultTimezone)
	v.SetDefault(keyProduction, DefaultProduction)
	v.SetDefault(keyInvestment, DefaultInvestment)
	v.SetDefault(keyExpense, DefaultExpense)
	v.SetDefault(keyLLMProvider, ProviderGemini)
	v.SetDefault(keyLLMModel, DefaultModel)
	v.SetDefault(keyLLMAPIKey, "")
	v.SetDefault(keyLLMTimeout, "30s")
	v.SetDefault(keyLLMTemperature, 0.1)
	v.SetDefault(keyLLMMaxTokens, 1000)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogMaxSize, 10)
	v.SetDefault(keyLogMaxBackups, 3)
	v.SetDefault(keyLogMaxAge, 28)
	v.SetDefault(keyStorageBackend, BackendBolt)
	v.SetDefault(keyStoragePath, "")
	v.SetDefault(keyNotificationsEnabled, true)
	v.SetDefault(keyDarkTheme, true)
}

// loadViperConfig loads configuration from Viper into the Config struct.
func loadViperConfig(v *viper.Viper, c *Config) error {
	c.Timezone = strings.TrimSpace(v.GetString(keyTimezone))

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return errInvalidTimezone.Fmt(c.Timezone).Wrap(err)
	}

	c.Location = loc

	c.Taxonomy = taxonomy.Lists{
		Production: v.GetString(keyProduction),
		Investment: v.GetString(keyInvestment),
		Expense:    v.GetString(keyExpense),
	}

	timeout, err := parseDuration(v.GetString(keyLLMTimeout))
	if err != nil {
		return errInvalidDuration.Fmt(keyLLMTimeout, v.GetString(keyLLMTimeout))
	}

	c.LLM = LLMConfig{
		Provider:    strings.ToLower(strings.TrimSpace(v.GetString(keyLLMProvider))),
		Model:       v.GetString(keyLLMModel),
		APIKey:      v.GetString(keyLLMAPIKey),
		Timeout:     timeout,
		Temperature: v.GetFloat64(keyLLMTemperature),
		MaxTokens:   v.GetInt(keyLLMMaxTokens),
	}

	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	}

	c.Log = LogConfig{
		Level:      v.GetString(keyLogLevel),
		MaxSize:    v.GetInt(keyLogMaxSize),
		MaxBackups: v.GetInt(keyLogMaxBackups),
		MaxAge:     v.GetInt(keyLogMaxAge),
	}

	c.Storage = StorageConfig{
		Backend: strings.ToLower(strings.TrimSpace(v.GetString(keyStorageBackend))),
		Path:    v.GetString(keyStoragePath),
	}

	c.Notifications.Enabled = v.GetBool(keyNotificationsEnabled)
	c.Display.DarkTheme = v.GetBool(keyDarkTheme)

	return nil
}

// parseDuration parses duration strings. A bare number is read as seconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	dur, err := time.ParseDuration(s)
	if err == nil {
		return dur, nil
	}

	secs, err := time.ParseDuration(s + "s")
	if err != nil {
		return 0, fmt.Errorf("invalid duration format: %s", s)
	}

	return secs, nil
}
