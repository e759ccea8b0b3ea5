package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode string `mapstructure:"mode"`
	Port int    `mapstructure:"port"`

	// ProviderDomain is the communication provider's domain. Empty disables
	// the coordinator entirely: no session is ever created.
	ProviderDomain string `mapstructure:"provider_domain"`
	RoomAPIBase    string `mapstructure:"room_api_base"`
	PresenceURL    string `mapstructure:"presence_url"`
	Secret         string `mapstructure:"secret"`

	RoomCacheTTL time.Duration `mapstructure:"room_cache_ttl"`

	VideoRange           float64 `mapstructure:"video_range"`
	AudioRangeMultiplier float64 `mapstructure:"audio_range_multiplier"`
	DifferentRoomDamping float64 `mapstructure:"different_room_damping"`

	ProximityTick     time.Duration `mapstructure:"proximity_tick"`
	TrackPollInterval time.Duration `mapstructure:"track_poll_interval"`
	TrackPollAttempts int           `mapstructure:"track_poll_attempts"`
}

// Enabled reports whether the coordinator may create sessions at all.
func (c *Config) Enabled() bool { return c.ProviderDomain != "" }

// AudioRange is the audio subscription radius: a fixed multiple of the video
// range, so audio fades in before video turns on.
func (c *Config) AudioRange() float64 { return c.VideoRange * c.AudioRangeMultiplier }

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("atrium")
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("provider_domain", "")
	v.SetDefault("room_api_base", "http://localhost:8080")
	v.SetDefault("presence_url", "ws://localhost:8080/api/ws/presence")
	v.SetDefault("room_cache_ttl", "10m")
	v.SetDefault("video_range", 2000.0)
	v.SetDefault("audio_range_multiplier", 1.5)
	v.SetDefault("different_room_damping", 0.35)
	v.SetDefault("proximity_tick", "500ms")
	v.SetDefault("track_poll_interval", "300ms")
	v.SetDefault("track_poll_attempts", 10)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
