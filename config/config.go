package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Bay holds the numeric parameters of a docking bay
type Bay struct {
	// SecondsToOpen is the time for the doors to go from closed to fully open
	SecondsToOpen float64 `yaml:"secondsToOpen" mapstructure:"secondsToOpen"`
	// DockingSpeed is the tug translation speed, in meters per second
	DockingSpeed      float64 `yaml:"dockingSpeed" mapstructure:"dockingSpeed"`
	MaxDockedVehicles int     `yaml:"maxDockedVehicles" mapstructure:"maxDockedVehicles"`
	// OpenThreshold is the door progress from which a tug may pass
	OpenThreshold float64 `yaml:"openThreshold" mapstructure:"openThreshold"`
	// RedetectRadius bounds the search for previously docked vehicles after a load
	RedetectRadius float64 `yaml:"redetectRadius" mapstructure:"redetectRadius"`
	// EjectDistance is how far a vehicle that no longer fits is pushed away
	EjectDistance float64 `yaml:"ejectDistance" mapstructure:"ejectDistance"`
	LogLevel      string  `yaml:"logLevel" mapstructure:"logLevel"`
}

func Default() Bay {
	return Bay{
		SecondsToOpen:     2,
		DockingSpeed:      2,
		MaxDockedVehicles: 2,
		OpenThreshold:     0.5,
		RedetectRadius:    20,
		EjectDistance:     10,
		LogLevel:          "info",
	}
}

// Validate rejects parameters the bay cannot run with
func (b Bay) Validate() error {
	var errs []error
	if b.SecondsToOpen <= 0 {
		errs = append(errs, fmt.Errorf("secondsToOpen must be positive, got %v", b.SecondsToOpen))
	}
	if b.DockingSpeed <= 0 {
		errs = append(errs, fmt.Errorf("dockingSpeed must be positive, got %v", b.DockingSpeed))
	}
	if b.MaxDockedVehicles < 0 {
		errs = append(errs, fmt.Errorf("maxDockedVehicles must not be negative, got %d", b.MaxDockedVehicles))
	}
	if b.OpenThreshold <= 0 || b.OpenThreshold > 1 {
		errs = append(errs, fmt.Errorf("openThreshold must be in (0,1], got %v", b.OpenThreshold))
	}
	if b.RedetectRadius < 0 {
		errs = append(errs, fmt.Errorf("redetectRadius must not be negative, got %v", b.RedetectRadius))
	}

	return errors.Join(errs...)
}

// Decode reads YAML over the defaults and validates the result
func Decode(r io.Reader) (Bay, error) {
	b := Default()
	if err := yaml.NewDecoder(r).Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return Bay{}, fmt.Errorf("decoding bay config: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Bay{}, err
	}

	return b, nil
}

// Load reads a config file (any format viper knows, by extension) over the
// defaults. DOCK_ prefixed environment variables override file values,
// e.g. DOCK_DOCKINGSPEED=4.
func Load(path string) (Bay, error) {
	v := viper.New()
	d := Default()
	v.SetDefault("secondsToOpen", d.SecondsToOpen)
	v.SetDefault("dockingSpeed", d.DockingSpeed)
	v.SetDefault("maxDockedVehicles", d.MaxDockedVehicles)
	v.SetDefault("openThreshold", d.OpenThreshold)
	v.SetDefault("redetectRadius", d.RedetectRadius)
	v.SetDefault("ejectDistance", d.EjectDistance)
	v.SetDefault("logLevel", d.LogLevel)

	v.SetEnvPrefix("DOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Bay{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var b Bay
	if err := v.Unmarshal(&b); err != nil {
		return Bay{}, fmt.Errorf("unmarshalling bay config: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Bay{}, err
	}

	return b, nil
}
