package config

// SimulationConfig holds simulation behavior configuration
type SimulationConfig struct {
	// Auto-run cadence in ticks per second
	TickRate float64 `mapstructure:"tick_rate" validate:"min=0"`

	// Seed for the package generator; 0 draws a random seed
	Seed int64 `mapstructure:"seed"`

	// Packages created when a floor initializes without an explicit count
	InitialPackages int `mapstructure:"initial_packages" validate:"min=0"`

	// Tick budget for headless runs; 0 means run to completion
	MaxTicks int `mapstructure:"max_ticks" validate:"min=0"`
}
