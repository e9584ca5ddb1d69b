package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

type Service struct {
	URL string `mapstructure:"url" yaml:"url"`
}

type Services struct {
	ASR       Service `mapstructure:"asr" yaml:"asr"`
	Sentiment Service `mapstructure:"sentiment" yaml:"sentiment"`
	Emotion   Service `mapstructure:"emotion" yaml:"emotion"`
}

type Audio struct {
	SampleRate int    `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels   int    `mapstructure:"channels" yaml:"channels"`
	Format     string `mapstructure:"format" yaml:"format"`
	Codec      string `mapstructure:"codec" yaml:"codec"`
}

type Features struct {
	TimeWindow int `mapstructure:"time_window" yaml:"time_window"`
	Overlap    int `mapstructure:"overlap" yaml:"overlap"`
}

type Cloud struct {
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey       string        `mapstructure:"api_key" yaml:"-"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout" yaml:"poll_timeout"`
}

type OpenAI struct {
	APIKey string `mapstructure:"api_key" yaml:"-"`
	Model  string `mapstructure:"model" yaml:"model"`
}

type Server struct {
	Addr            string        `mapstructure:"addr" yaml:"addr"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type Root struct {
	Pipeline struct {
		Name    string `mapstructure:"name" yaml:"name"`
		Version string `mapstructure:"version" yaml:"version"`
		LogLvl  string `mapstructure:"log_level" yaml:"log_level"`
	} `mapstructure:"pipeline" yaml:"pipeline"`
	Audio    Audio    `mapstructure:"audio" yaml:"audio"`
	Features Features `mapstructure:"features" yaml:"features"`
	Services Services `mapstructure:"services" yaml:"services"`
	Cloud    Cloud    `mapstructure:"cloud" yaml:"cloud"`
	OpenAI   OpenAI   `mapstructure:"openai" yaml:"openai"`
	Server   Server   `mapstructure:"server" yaml:"server"`
	Paths    struct {
		Outputs string `mapstructure:"outputs" yaml:"outputs"`
	} `mapstructure:"paths" yaml:"paths"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pipeline.name", "cooper-video-analysis")
	v.SetDefault("pipeline.version", "1.0.0")
	v.SetDefault("pipeline.log_level", "info")
	v.SetDefault("audio.sample_rate", 16000)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.format", "wav")
	v.SetDefault("audio.codec", "pcm_s16le")
	v.SetDefault("features.time_window", 5)
	v.SetDefault("features.overlap", 0)
	v.SetDefault("services.asr.url", "http://localhost:9000")
	v.SetDefault("services.sentiment.url", "http://localhost:9001")
	v.SetDefault("services.emotion.url", "http://localhost:9002")
	v.SetDefault("cloud.base_url", "https://api.assemblyai.com")
	v.SetDefault("cloud.poll_interval", 2*time.Second)
	v.SetDefault("cloud.poll_timeout", 5*time.Minute)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_bytes", int64(512<<20))
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("paths.outputs", "output")
}

// Load reads configuration from an explicit file when given, otherwise from the
// usual config/<env>/config.yaml locations. Environment variables with the
// COOPER_ prefix override file values (COOPER_CLOUD_API_KEY etc.).
func Load(path string) (*Root, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("COOPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// the API keys have no default, so AutomaticEnv alone never surfaces them
	// to Unmarshal; they need an explicit binding
	v.BindEnv("cloud.api_key")
	v.BindEnv("openai.api_key")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		env := os.Getenv("COOPER_ENV")
		if env == "" {
			env = "dev"
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join("config", env))
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			// defaults alone are a complete working config
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	// env names used by the original tooling, kept for .env compatibility
	if k := os.Getenv("ASSEMBLYAI_API_KEY"); k != "" && v.GetString("cloud.api_key") == "" {
		v.Set("cloud.api_key", k)
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" && v.GetString("openai.api_key") == "" {
		v.Set("openai.api_key", k)
	}

	var cfg Root
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Snapshot writes the effective configuration next to a run's artifacts so a
// result can be traced back to the settings that produced it. API keys are
// excluded from the snapshot.
func (r *Root) Snapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
