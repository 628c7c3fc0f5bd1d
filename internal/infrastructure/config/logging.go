package config

// LoggingConfig controls the daemon logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`

	// Format selects json or text encoding.
	Format string `mapstructure:"format" validate:"required,oneof=json text"`

	// Output routes entries to stdout, stderr or a file.
	Output string `mapstructure:"output" validate:"required,oneof=stdout stderr file"`

	// FilePath names the sink when Output is file.
	FilePath string `mapstructure:"file_path"`

	Rotation RotationConfig `mapstructure:"rotation"`

	// IncludeCaller adds file:line to every entry.
	IncludeCaller bool `mapstructure:"include_caller"`

	// IncludeStacktrace attaches stack traces to error entries.
	IncludeStacktrace bool `mapstructure:"include_stacktrace"`
}

// RotationConfig bounds the file sink.
type RotationConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// MaxSize is megabytes per file before rollover.
	MaxSize int `mapstructure:"max_size" validate:"min=1"`

	// MaxBackups is how many rotated files to keep.
	MaxBackups int `mapstructure:"max_backups" validate:"min=0"`

	// MaxAge is days before rotated files are purged.
	MaxAge int `mapstructure:"max_age" validate:"min=0"`

	Compress bool `mapstructure:"compress"`
}
