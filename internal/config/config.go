// YAML config loader with CUE validation and endpoint normalization
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Hard defaults, applied when neither the endpoint nor the global defaults
// provide a value.
const (
	DefaultExpirySeconds    = 900
	DefaultPositionInterval = 5
	DefaultStaticInterval   = 15
	DefaultTickPeriod       = time.Minute
)

// ConfigError marks a fatal configuration problem. The reporter must not be
// started when Normalize returns one.
type ConfigError struct {
	Field string
	Msg   string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Msg)
}

// IntervalList accepts either a single integer or a sequence of integers in
// YAML. A scalar is normalized to a single-element list.
type IntervalList []int

func (l *IntervalList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var v int
		if err := value.Decode(&v); err != nil {
			return err
		}
		*l = IntervalList{v}
		return nil
	case yaml.SequenceNode:
		var vs []int
		if err := value.Decode(&vs); err != nil {
			return err
		}
		*l = IntervalList(vs)
		return nil
	default:
		return fmt.Errorf("update interval must be an integer or a list of integers")
	}
}

// ClassSettings are the raw, all-optional reporting knobs for one vessel
// class. They appear at four levels (endpoint class, endpoint, global class,
// global); Normalize resolves each leaf through that cascade.
type ClassSettings struct {
	ExpiryInterval          *int          `yaml:"expiry_interval"`
	PositionUpdateInterval  *IntervalList `yaml:"position_update_interval"`
	StaticUpdateInterval    *IntervalList `yaml:"static_update_interval"`
	UpdateIntervalIndexPath *string       `yaml:"update_interval_index_path"`
}

// RawEndpoint is one reporting destination as written in the config file.
type RawEndpoint struct {
	Name          string `yaml:"name"`
	Address       string `yaml:"address"`
	Port          int    `yaml:"port"`
	ClassSettings `yaml:",inline"`
	Self          *ClassSettings `yaml:"self"`
	Others        *ClassSettings `yaml:"others"`
}

// Defaults mirrors the per-endpoint knobs at global scope.
type Defaults struct {
	ClassSettings `yaml:",inline"`
	Self          *ClassSettings `yaml:"self"`
	Others        *ClassSettings `yaml:"others"`
}

// OwnVessel carries the installation's own static data, used to seed the
// vessel registry so static reports for the self class work without inbound
// traffic for the own MMSI.
type OwnVessel struct {
	Name             string  `yaml:"name"`
	CallSign         string  `yaml:"callsign"`
	TransceiverClass string  `yaml:"transceiver_class"`
	ShipType         int     `yaml:"ship_type"`
	Destination      string  `yaml:"destination"`
	DraughtM         float64 `yaml:"draught_m"`
	ToBowM           float64 `yaml:"to_bow_m"`
	ToSternM         float64 `yaml:"to_stern_m"`
	ToPortM          float64 `yaml:"to_port_m"`
	ToStarboardM     float64 `yaml:"to_starboard_m"`
}

// Config is the root configuration document.
type Config struct {
	OwnMMSI   string        `yaml:"own_mmsi"`
	Vessel    OwnVessel     `yaml:"vessel"`
	FeedPort  int           `yaml:"feed_port"`
	Defaults  Defaults      `yaml:"defaults"`
	Endpoints []RawEndpoint `yaml:"endpoints"`
}

// ClassConfig is the canonical, fully resolved schedule for one vessel class
// on one endpoint. Interval lists are never empty; a value of 0 means "never
// fire" for that slot.
type ClassConfig struct {
	ExpiryInterval          time.Duration
	PositionUpdateIntervals []int
	StaticUpdateIntervals   []int
	UpdateIntervalIndexPath string
}

// Endpoint is one canonical reporting destination.
type Endpoint struct {
	Name    string
	Address string
	Port    int
	Self    ClassConfig
	Others  ClassConfig
}

// Load reads the YAML config, validating it against the CUE schema first.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	if cueSchemaPath != "" {
		if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize resolves the raw configuration into the own identity and the
// canonical endpoint list. Every leaf resolves endpoint-class value →
// endpoint value → global-class value → global value → hard default.
func Normalize(cfg *Config) (string, []Endpoint, error) {
	endpoints := make([]Endpoint, 0, len(cfg.Endpoints))
	for i, raw := range cfg.Endpoints {
		field := func(name string) string { return fmt.Sprintf("endpoints[%d].%s", i, name) }
		if raw.Address == "" {
			return "", nil, &ConfigError{Field: field("address"), Msg: "required"}
		}
		if raw.Port <= 0 || raw.Port > 65535 {
			return "", nil, &ConfigError{Field: field("port"), Msg: "required"}
		}
		name := raw.Name
		if name == "" {
			name = raw.Address
		}
		self, err := resolveClass(raw.Self, &raw.ClassSettings, cfg.Defaults.Self, &cfg.Defaults.ClassSettings, field("self"))
		if err != nil {
			return "", nil, err
		}
		others, err := resolveClass(raw.Others, &raw.ClassSettings, cfg.Defaults.Others, &cfg.Defaults.ClassSettings, field("others"))
		if err != nil {
			return "", nil, err
		}
		endpoints = append(endpoints, Endpoint{
			Name:    name,
			Address: raw.Address,
			Port:    raw.Port,
			Self:    self,
			Others:  others,
		})
	}
	return cfg.OwnMMSI, endpoints, nil
}

// resolveClass applies the default cascade for one vessel class and checks
// the resulting schedule. Arguments run most specific first: endpoint-class,
// endpoint, global-class, global.
func resolveClass(epClass, ep, globalClass, global *ClassSettings, field string) (ClassConfig, error) {
	var settings []*ClassSettings
	for _, s := range []*ClassSettings{epClass, ep, globalClass, global} {
		if s != nil {
			settings = append(settings, s)
		}
	}

	cc := ClassConfig{
		ExpiryInterval:          time.Duration(DefaultExpirySeconds) * time.Second,
		PositionUpdateIntervals: []int{DefaultPositionInterval},
		StaticUpdateIntervals:   []int{DefaultStaticInterval},
	}
	for i := len(settings) - 1; i >= 0; i-- {
		s := settings[i]
		if s.ExpiryInterval != nil {
			cc.ExpiryInterval = time.Duration(*s.ExpiryInterval) * time.Second
		}
		if s.PositionUpdateInterval != nil {
			cc.PositionUpdateIntervals = []int(*s.PositionUpdateInterval)
		}
		if s.StaticUpdateInterval != nil {
			cc.StaticUpdateIntervals = []int(*s.StaticUpdateInterval)
		}
		if s.UpdateIntervalIndexPath != nil {
			cc.UpdateIntervalIndexPath = *s.UpdateIntervalIndexPath
		}
	}

	if err := checkIntervals(cc.PositionUpdateIntervals, field+".position_update_interval"); err != nil {
		return ClassConfig{}, err
	}
	if err := checkIntervals(cc.StaticUpdateIntervals, field+".static_update_interval"); err != nil {
		return ClassConfig{}, err
	}
	if cc.ExpiryInterval < 0 {
		return ClassConfig{}, &ConfigError{Field: field + ".expiry_interval", Msg: "must not be negative"}
	}

	// A static cadence faster than a paired nonzero position cadence would
	// announce voyage data more often than positions; reject it up front.
	for i, st := range cc.StaticUpdateIntervals {
		if st == 0 {
			continue
		}
		pi := i
		if pi >= len(cc.PositionUpdateIntervals) {
			pi = len(cc.PositionUpdateIntervals) - 1
		}
		if pos := cc.PositionUpdateIntervals[pi]; pos != 0 && st < pos {
			return ClassConfig{}, &ConfigError{
				Field: fmt.Sprintf("%s.static_update_interval[%d]", field, i),
				Msg:   fmt.Sprintf("cadence %d is faster than position cadence %d", st, pos),
			}
		}
	}
	return cc, nil
}

func checkIntervals(seq []int, field string) error {
	if len(seq) == 0 {
		return &ConfigError{Field: field, Msg: "must not be empty"}
	}
	for i, v := range seq {
		if v < 0 {
			return &ConfigError{Field: fmt.Sprintf("%s[%d]", field, i), Msg: "must not be negative"}
		}
	}
	return nil
}
