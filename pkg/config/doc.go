// Package config loads process configuration from environment variables.
//
// It wraps [github.com/knadh/koanf/v2] with an env provider and validates the
// populated struct using [github.com/go-playground/validator/v10] tags. A
// .env file, when present, is loaded into the process environment via
// godotenv's autoload before any variable is read.
//
// # Key Mapping
//
// Variables are filtered by prefix (INTAKE_ unless overridden), lowercased,
// and nested on double underscores:
//
//	INTAKE_OPS_TOKEN            -> ops_token
//	INTAKE_SERVER__ADDR         -> server.addr
//	INTAKE_SESSION__COOKIE_NAME -> session.cookie_name
//
// Single underscores stay literal, which keeps multi-word koanf tags like
// "read_timeout" addressable without ambiguity.
//
// # Usage
//
// Defaults are plain struct values; Load only overwrites fields present in
// the environment:
//
//	type Config struct {
//		Addr     string        `koanf:"addr"`
//		Timeout  time.Duration `koanf:"timeout"`
//		OpsToken string        `koanf:"ops_token" validate:"required"`
//	}
//
//	cfg := Config{Addr: ":8080", Timeout: 30 * time.Second}
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Durations parse from strings ("30s"), and comma-separated values decode
// into string slices, so CORS origin lists fit in a single variable.
//
// # Error Handling
//
//   - [ErrInvalidTarget] - Load was given something other than a struct pointer
//   - [ErrLoadFailed] - the environment could not be read
//   - [ErrUnmarshalFailed] - a value could not be decoded into its field
//   - [ErrValidationFailed] - a validate tag rejected the populated struct
//
// Errors are wrapped with [errors.Join] so the underlying cause stays
// inspectable.
package config
