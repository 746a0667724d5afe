// Package config loads livescore configuration.
//
// It uses Viper to read a YAML file and environment variables, and godotenv
// to pick up a .env file. Environment variables override file values; nested
// keys are matched by splitting on underscores, so SSE_BUFFER_SIZE fills
// sse.buffer_size.
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("livescore", &cfg, config.WithEnvPrefix("LIVESCORE"))
package config
