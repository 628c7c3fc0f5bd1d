package config

// ServerConfig holds the websocket/HTTP server configuration
type ServerConfig struct {
	// Address to bind (host:port)
	Address string `mapstructure:"address" validate:"required"`
}
