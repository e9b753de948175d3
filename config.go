package log

import (
	"errors"
	"reflect"
	"strings"

	"github.com/lixenwraith/config"
)

// Config holds every tunable of the logger. Each field's toml tag is the
// key used by configuration files loaded through NewConfigFromFile, and
// the key accepted by ApplyOverride.
type Config struct {
	// File output
	LogDir      string `toml:"log_dir"`
	FilePrefix  string `toml:"file_prefix"`
	Extension   string `toml:"extension"`
	MaxFileSize int64  `toml:"max_file_size"` // bytes, rotation threshold
	MaxFiles    int    `toml:"max_files"`     // total of the live file plus {prefix}_*.{ext} archives
	FileOutput  bool   `toml:"file_output"`

	// Console output
	ConsoleOutput bool `toml:"console_output"`
	UseColors     bool `toml:"use_colors"`

	// Severity
	MinLevel Level `toml:"min_level"`

	// Formatter fields (§4.3)
	ShowTimestamp  bool   `toml:"show_timestamp"`
	ShowThreadID   bool   `toml:"show_thread_id"`
	ShowSourceLoc  bool   `toml:"show_source_loc"`
	ShowModule     bool   `toml:"show_module"`
	ShowFullPath   bool   `toml:"show_full_path"`
	TimestampLayout string `toml:"timestamp_layout"`

	// Per-producer ring buffer and drain loop tuning
	BufferCapacity   int `toml:"buffer_capacity"`
	BatchSize        int `toml:"batch_size"`
	DrainIdleSleepUs int `toml:"drain_idle_sleep_us"`
	DrainBusySleepUs int `toml:"drain_busy_sleep_us"`

	// Periodic diagnostic heartbeat (§12 supplemental feature)
	HeartbeatEnabled    bool  `toml:"heartbeat_enabled"`
	HeartbeatIntervalS  int64 `toml:"heartbeat_interval_s"`

	// Internal diagnostics. internalLog does not read this field: sink
	// write and rotation failures are always reported to stderr, whatever
	// its value.
	InternalErrorsToStderr bool `toml:"internal_errors_to_stderr"`
}

const (
	defaultMaxFileSize = 10 * 1024 * 1024 // 10 MiB, per spec.md default
	defaultMaxFiles    = 5
)

var defaultConfig = Config{
	LogDir:      "logs",
	FilePrefix:  "app",
	Extension:   "log",
	MaxFileSize: defaultMaxFileSize,
	MaxFiles:    defaultMaxFiles,
	FileOutput:  true,

	ConsoleOutput: true,
	UseColors:     true,

	MinLevel: LevelInfo,

	ShowTimestamp:   true,
	ShowThreadID:    true,
	ShowSourceLoc:   true,
	ShowModule:      true,
	ShowFullPath:    false,
	TimestampLayout: "2006-01-02 15:04:05.000",

	BufferCapacity:   1 << 16,
	BatchSize:        16384,
	DrainIdleSleepUs: 100,
	DrainBusySleepUs: 10,

	HeartbeatEnabled:   false,
	HeartbeatIntervalS: 60,

	InternalErrorsToStderr: true,
}

// DefaultConfig returns a copy of the library's built-in defaults.
func DefaultConfig() *Config {
	c := defaultConfig
	return &c
}

// NewConfigFromFile loads a TOML configuration file over the defaults,
// validating the result. A missing file is not an error: it simply
// yields the defaults.
func NewConfigFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	loader := config.New()
	if err := loader.RegisterStruct("log.", *cfg); err != nil {
		return nil, fmtErrorf("register config struct: %w", err)
	}
	if err := loader.Load(path, nil); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return nil, fmtErrorf("load config from %s: %w", path, err)
	}
	if err := extractConfig(loader, "log.", cfg); err != nil {
		return nil, fmtErrorf("extract config values: %w", err)
	}
	cfg.validate()
	return cfg, nil
}

// extractConfig copies every toml-tagged field present in loader into cfg,
// leaving fields absent from the loaded file at their current (default)
// value.
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("toml")
		if tag == "" {
			continue
		}
		val, found := loader.Get(prefix + tag)
		if !found {
			continue
		}
		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmtErrorf("field %s: %w", field.Name, err)
		}
	}
	return nil
}

// ApplyOverride applies "key=value" pairs against a clone of cfg and
// returns the clone, validated. The receiver is left untouched.
func (c *Config) ApplyOverride(overrides ...string) (*Config, error) {
	clone := c.Clone()

	v := reflect.ValueOf(clone).Elem()
	t := v.Type()
	fieldByTag := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if tag := t.Field(i).Tag.Get("toml"); tag != "" {
			fieldByTag[tag] = v.Field(i)
		}
	}

	for _, kv := range overrides {
		key, val, err := parseKeyValue(kv)
		if err != nil {
			return nil, err
		}
		field, ok := fieldByTag[key]
		if !ok {
			return nil, fmtErrorf("unknown config key: %s", key)
		}
		if err := setFieldValueFromString(field, val); err != nil {
			return nil, fmtErrorf("set %s: %w", key, err)
		}
	}

	clone.validate()
	return clone, nil
}

func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		s, ok := value.(string)
		if !ok {
			return fmtErrorf("expected string, got %T", value)
		}
		field.SetString(s)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch n := value.(type) {
		case int64:
			field.SetInt(n)
		case int:
			field.SetInt(int64(n))
		case float64:
			field.SetInt(int64(n))
		default:
			return fmtErrorf("expected integer, got %T", value)
		}
	case reflect.Bool:
		b, ok := value.(bool)
		if !ok {
			return fmtErrorf("expected bool, got %T", value)
		}
		field.SetBool(b)
	default:
		return fmtErrorf("unsupported field kind: %v", field.Kind())
	}
	return nil
}

// setFieldValueFromString is used by ApplyOverride, whose values always
// arrive as the string half of a "key=value" pair.
func setFieldValueFromString(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
		return nil
	case reflect.Bool:
		field.SetBool(value == "true" || value == "1")
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(Level(0)) {
			lvl, err := ParseLevel(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(lvl))
			return nil
		}
		n, err := parseInt(value)
		if err != nil {
			return err
		}
		field.SetInt(n)
		return nil
	default:
		return fmtErrorf("unsupported field kind: %v", field.Kind())
	}
}

// validate coerces out-of-range values to sane minimums rather than
// failing construction; the logger must always be usable.
func (c *Config) validate() {
	if strings.TrimSpace(c.LogDir) == "" {
		c.LogDir = defaultConfig.LogDir
	}
	if strings.TrimSpace(c.FilePrefix) == "" {
		c.FilePrefix = defaultConfig.FilePrefix
	}
	c.Extension = strings.TrimPrefix(c.Extension, ".")
	if c.Extension == "" {
		c.Extension = defaultConfig.Extension
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = defaultMaxFileSize
	}
	if c.MaxFiles < 1 {
		c.MaxFiles = 1
	}
	if c.MinLevel < LevelTrace || c.MinLevel > LevelStep {
		c.MinLevel = LevelInfo
	}
	if strings.TrimSpace(c.TimestampLayout) == "" {
		c.TimestampLayout = defaultConfig.TimestampLayout
	}
	if c.BufferCapacity <= 0 {
		c.BufferCapacity = defaultConfig.BufferCapacity
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultConfig.BatchSize
	}
	if c.DrainIdleSleepUs <= 0 {
		c.DrainIdleSleepUs = defaultConfig.DrainIdleSleepUs
	}
	if c.DrainBusySleepUs <= 0 {
		c.DrainBusySleepUs = defaultConfig.DrainBusySleepUs
	}
	if c.HeartbeatIntervalS <= 0 {
		c.HeartbeatIntervalS = defaultConfig.HeartbeatIntervalS
	}
}

// Clone returns a deep copy (the struct has no reference fields, so a
// value copy already suffices).
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
