// Package config loads ctl settings from defaults, an optional config file,
// BRACHY_ environment variables and command line flags, in rising precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BRACHY_LOG_LEVEL
const EnvPrefix = "BRACHY"

type Config struct {
	Log    Log    `mapstructure:"log"`
	RTDose RTDose `mapstructure:"rtdose"`
	DVH    DVH    `mapstructure:"dvh"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	JSON       bool   `mapstructure:"json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// RTDose feeds the identifiers of converted RT Dose files; empty UIDs are generated
type RTDose struct {
	Template            string `mapstructure:"template"`
	PatientName         string `mapstructure:"patient_name"`
	PatientID           string `mapstructure:"patient_id"`
	StudyUID            string `mapstructure:"study_uid"`
	FrameOfReferenceUID string `mapstructure:"frame_of_reference_uid"`
}

// DVH selects the reported metrics. Prescription is in Gy, Dx in percent of
// volume and Vx in percent of the prescription.
type DVH struct {
	Prescription float64   `mapstructure:"prescription"`
	Dx           []float64 `mapstructure:"dx"`
	Vx           []float64 `mapstructure:"vx"`
}

// flags maps config keys to the command line flags that override them
var flags = map[string]string{
	"log.level":           "log-level",
	"log.json":            "log-json",
	"log.file":            "log-file",
	"rtdose.template":     "template",
	"dvh.prescription":    "prescription",
	"dvh.dx":              "dx",
	"dvh.vx":              "vx",
	"rtdose.patient_id":   "patient-id",
	"rtdose.patient_name": "patient-name",
}

func defaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("rtdose.template", "")
	v.SetDefault("rtdose.patient_name", "")
	v.SetDefault("rtdose.patient_id", "")
	v.SetDefault("rtdose.study_uid", "")
	v.SetDefault("rtdose.frame_of_reference_uid", "")
	v.SetDefault("dvh.prescription", 0.0)
	v.SetDefault("dvh.dx", []float64{90, 50, 2})
	v.SetDefault("dvh.vx", []float64{100, 150, 200})
}

// Load resolves the configuration. path may be empty; fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	defaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if fs != nil {
		for key, name := range flags {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SlogLevel parses Log.Level
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return level, fmt.Errorf("log.level %q: %w", c.Log.Level, err)
	}
	return level, nil
}

// Validate checks ranges and that a configured template file exists
func (c *Config) Validate() error {
	var errs []error
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 {
		errs = append(errs, fmt.Errorf("log rotation limits must not be negative"))
	}
	if c.RTDose.Template != "" {
		if _, err := os.Stat(c.RTDose.Template); err != nil {
			errs = append(errs, fmt.Errorf("rtdose.template: %w", err))
		}
	}
	if c.DVH.Prescription < 0 {
		errs = append(errs, fmt.Errorf("dvh.prescription must not be negative, got %g", c.DVH.Prescription))
	}
	for _, x := range c.DVH.Dx {
		if x < 0 || x > 100 {
			errs = append(errs, fmt.Errorf("dvh.dx %g is outside 0-100", x))
		}
	}
	for _, x := range c.DVH.Vx {
		if x < 0 {
			errs = append(errs, fmt.Errorf("dvh.vx %g must not be negative", x))
		}
	}
	return errors.Join(errs...)
}
