// Package config loads the server's runtime configuration from a YAML
// file, environment variables, and flag-equivalent defaults, via
// spf13/viper, following the shape of the teacher's ServerConfig.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/vagus-labs/coherence-pipeline/internal/pipeline"
)

// ServerConfig is the runtime configuration for the coherence server.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	WebsocketPath string       `mapstructure:"websocketPath"`
	ReadTimeout  time.Duration `mapstructure:"readTimeout"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout"`
	EnableMetrics bool         `mapstructure:"enableMetrics"`
	MetricsPath  string        `mapstructure:"metricsPath"`

	Pipeline PipelineConfig `mapstructure:"pipeline"`

	// DeviceRegistry maps a strap's hardware ID to a participant/subject
	// ID, standing in for the out-of-scope device-registry service
	// (§5's Non-goals). It is an explicit config value, not a
	// singleton, so a test or a different deployment can supply its own
	// mapping; no pairing/rotation/revocation logic lives here — only
	// the lookup cmd/coherence-server needs before minting a session
	// Header.
	DeviceRegistry map[string]string `mapstructure:"deviceRegistry"`
}

// PipelineConfig mirrors internal/pipeline.Config in viper-friendly form.
type PipelineConfig struct {
	RRBufferCapacity    int     `mapstructure:"rrBufferCapacity"`
	PhaseBufferCapacity int     `mapstructure:"phaseBufferCapacity"`
	CoherenceLag        int     `mapstructure:"coherenceLag"`
	SoftmaxTemperature  float64 `mapstructure:"softmaxTemperature"`
	ModeHistoryCapacity int     `mapstructure:"modeHistoryCapacity"`
}

// ToPipelineConfig converts to the type the pipeline package consumes.
func (p PipelineConfig) ToPipelineConfig() pipeline.Config {
	return pipeline.Config{
		RRBufferCapacity:    p.RRBufferCapacity,
		PhaseBufferCapacity: p.PhaseBufferCapacity,
		CoherenceLag:        p.CoherenceLag,
		SoftmaxTemperature:  p.SoftmaxTemperature,
		ModeHistoryCapacity: p.ModeHistoryCapacity,
	}
}

// defaults populates viper's defaults, matching the spec's documented
// constants (§2, §6.3) so a bare, file-less invocation still runs.
func defaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8090)
	v.SetDefault("websocketPath", "/ws")
	v.SetDefault("readTimeout", 15*time.Second)
	v.SetDefault("writeTimeout", 15*time.Second)
	v.SetDefault("enableMetrics", true)
	v.SetDefault("metricsPath", "/metrics")

	v.SetDefault("pipeline.rrBufferCapacity", 20)
	v.SetDefault("pipeline.phaseBufferCapacity", 30)
	v.SetDefault("pipeline.coherenceLag", 5)
	v.SetDefault("pipeline.softmaxTemperature", 0.45)
	v.SetDefault("pipeline.modeHistoryCapacity", 10)

	v.SetDefault("deviceRegistry", map[string]string{})
}

// ResolveSubject maps a strap ID to its registered participant ID via
// DeviceRegistry, falling back to the strap ID unchanged when it carries
// no registry entry (e.g. a bench strap never paired through the
// out-of-scope registry service).
func (c ServerConfig) ResolveSubject(strapID string) string {
	if participant, ok := c.DeviceRegistry[strapID]; ok {
		return participant
	}
	return strapID
}

// Load reads configPath (if non-empty) plus the COHERENCE_-prefixed
// environment into a ServerConfig, falling back to the spec's defaults
// for anything unset.
func Load(configPath string) (ServerConfig, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("coherence")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return ServerConfig{}, fmt.Errorf("reading config %s: %w", configPath, err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
