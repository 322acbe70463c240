package config

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	// Loads a .env file into the process environment before any variable
	// is read, so local development works without exporting variables.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// DefaultPrefix is the environment variable prefix stripped from every key.
const DefaultPrefix = "INTAKE_"

type options struct {
	prefix string
}

// Option configures how Load reads the environment.
type Option func(*options)

// WithPrefix overrides the environment variable prefix. Only variables
// starting with the prefix are considered.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// Load populates cfg from prefixed environment variables and validates the
// result with go-playground/validator struct tags.
//
// Variable names map to koanf keys by stripping the prefix, lowercasing, and
// turning double underscores into the "." nesting delimiter. Single
// underscores stay literal so multi-word field names keep their tags:
//
//	INTAKE_OPS_TOKEN          -> ops_token          (koanf:"ops_token")
//	INTAKE_SERVER__ADDR       -> server.addr        (Server.Addr)
//	INTAKE_SERVER__READ_TIMEOUT -> server.read_timeout
//
// Fields absent from the environment keep the values cfg already holds, so
// defaults are plain struct literals filled in before calling Load.
func Load(cfg any, opts ...Option) error {
	rv := reflect.ValueOf(cfg)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}

	o := options{prefix: DefaultPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")
	if err := k.Load(env.Provider(o.prefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, o.prefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return errors.Join(ErrLoadFailed, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return errors.Join(ErrUnmarshalFailed, err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return errors.Join(ErrValidationFailed, err)
	}
	return nil
}
