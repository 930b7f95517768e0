package rigid

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRestitution = 0.2
	DefaultFriction    = 0.7
)

// Config holds the world's tuning constants. Positions are in meters with +Y pointing down.
type Config struct {
	Gravity              Vector  `json:"gravity" yaml:"gravity"`
	FixedDT              float64 `json:"fixed_dt" yaml:"fixed_dt"`
	Iterations           int     `json:"iterations" yaml:"iterations"`
	Baumgarte            float64 `json:"baumgarte" yaml:"baumgarte"`
	PenetrationSlop      float64 `json:"penetration_slop" yaml:"penetration_slop"`
	RestitutionThreshold float64 `json:"restitution_threshold" yaml:"restitution_threshold"`
	WarmStart            bool    `json:"warm_start" yaml:"warm_start"`
	ContactTolerance     float64 `json:"contact_tolerance" yaml:"contact_tolerance"`
	TableCapacity        int     `json:"table_capacity" yaml:"table_capacity"`
	TableLoadFactor      float64 `json:"table_load_factor" yaml:"table_load_factor"`
	DefaultRestitution   float64 `json:"default_restitution" yaml:"default_restitution"`
	DefaultFriction      float64 `json:"default_friction" yaml:"default_friction"`
}

func DefaultConfig() Config {
	return Config{
		Gravity:              Vector{0, 9.8},
		FixedDT:              1.0 / 60.0,
		Iterations:           8,
		Baumgarte:            0.2,
		PenetrationSlop:      0.01,
		RestitutionThreshold: 0.5,
		WarmStart:            true,
		ContactTolerance:     0.01,
		TableCapacity:        16,
		TableLoadFactor:      0.75,
		DefaultRestitution:   DefaultRestitution,
		DefaultFriction:      DefaultFriction,
	}
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Gravity.IsFinite(), "gravity %v", c.Gravity)
	check(c.FixedDT > 0 && !math.IsInf(c.FixedDT, 0), "fixed_dt %v", c.FixedDT)
	check(c.Iterations > 0, "iterations %d", c.Iterations)
	check(c.Baumgarte >= 0 && c.Baumgarte <= 1, "baumgarte %v", c.Baumgarte)
	check(c.PenetrationSlop >= 0, "penetration_slop %v", c.PenetrationSlop)
	check(c.RestitutionThreshold >= 0, "restitution_threshold %v", c.RestitutionThreshold)
	check(c.ContactTolerance > 0, "contact_tolerance %v", c.ContactTolerance)
	check(c.TableCapacity > 0, "table_capacity %d", c.TableCapacity)
	check(c.TableLoadFactor > 0 && c.TableLoadFactor < 1, "table_load_factor %v", c.TableLoadFactor)
	check(c.DefaultRestitution >= 0, "default_restitution %v", c.DefaultRestitution)
	check(c.DefaultFriction >= 0, "default_friction %v", c.DefaultFriction)

	return errors.Join(errs...)
}

// LoadConfig decodes YAML on top of DefaultConfig, so omitted keys keep their defaults.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode world config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
