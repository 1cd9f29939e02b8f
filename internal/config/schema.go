package config

import "time"

// Config holds the full service configuration.
// Stored at: ./config.yaml or ~/.skema/config.yaml
type Config struct {
	Cache     CacheCfg     `mapstructure:"cache" yaml:"cache"`
	Log       LogCfg       `mapstructure:"log" yaml:"log"`
	Courses   CoursesCfg   `mapstructure:"courses" yaml:"courses"`
	Converter ConverterCfg `mapstructure:"converter" yaml:"converter"`
	Update    UpdateCfg    `mapstructure:"update" yaml:"update"`
	Schools   []SchoolCfg  `mapstructure:"schools" yaml:"schools"`
}

// CacheCfg configures the schedule artifact cache.
type CacheCfg struct {
	// Dir is where cached artifacts and the index live.
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LogCfg configures structured logging.
type LogCfg struct {
	Level  string `mapstructure:"level" yaml:"level"`   // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// CoursesCfg configures the course code dictionary.
type CoursesCfg struct {
	URL string `mapstructure:"url" yaml:"url"` // empty selects the default endpoint
}

// ConverterCfg configures the external pdf-to-primitive converter.
type ConverterCfg struct {
	// Command is the converter binary; it reads the PDF on stdin and
	// writes the primitive JSON document to stdout.
	Command string   `mapstructure:"command" yaml:"command"`
	Args    []string `mapstructure:"args" yaml:"args"`
}

// UpdateCfg configures the periodic refresh loop.
type UpdateCfg struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	Attempts uint          `mapstructure:"attempts" yaml:"attempts"` // retries per schedule fetch
}

// SchoolCfg identifies one school. Nova fields select the legacy viewer
// installation; the Skola24 fields select the successor platform tenant.
// A school sets one of the two.
type SchoolCfg struct {
	Name string `mapstructure:"name" yaml:"name"`
	Slug string `mapstructure:"slug" yaml:"slug"`

	NovaID   string `mapstructure:"nova_id" yaml:"nova_id"`
	NovaCode string `mapstructure:"nova_code" yaml:"nova_code"`

	Skola24Host string `mapstructure:"skola24_host" yaml:"skola24_host"`
	Skola24UUID string `mapstructure:"skola24_uuid" yaml:"skola24_uuid"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheCfg{
			Dir: "cache",
		},
		Log: LogCfg{
			Level:  "info",
			Format: "text",
		},
		Converter: ConverterCfg{
			Command: "pdf2json",
		},
		Update: UpdateCfg{
			Interval: 15 * time.Minute,
			Attempts: 3,
		},
	}
}

// School finds a configured school by slug.
func (c *Config) School(slug string) (SchoolCfg, bool) {
	for _, school := range c.Schools {
		if school.Slug == slug {
			return school, true
		}
	}
	return SchoolCfg{}, false
}
