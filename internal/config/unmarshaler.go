// Package config loads, validates, and writes hookd configuration.
package config

import (
	"reflect"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/go-viper/mapstructure/v2"

	"github.com/smykla-skalski/hookd/pkg/config"
)

// CustomDecoderConfig returns a mapstructure decoder config with custom type
// hooks for Duration and ByteSize values.
func CustomDecoderConfig() *mapstructure.DecoderConfig {
	return &mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToDurationHookFunc(),
			stringToByteSizeHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		),
		WeaklyTypedInput: true,
		Result:           nil, // Set by caller
	}
}

// stringToDurationHookFunc returns a decode hook for converting strings to
// config.Duration. Negative durations are rejected, matching
// Duration.UnmarshalText.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToDurationHookFunc() mapstructure.DecodeHookFunc {
	return func(
		_ reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if t != reflect.TypeFor[config.Duration]() {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, err
			}

			if d < 0 {
				return nil, errors.Wrapf(config.ErrNegativeDuration, "got %s", d)
			}

			return config.Duration(d), nil

		case int64:
			return config.Duration(time.Duration(v)), nil

		case float64:
			return config.Duration(time.Duration(v)), nil

		default:
			return data, nil
		}
	}
}

// stringToByteSizeHookFunc returns a decode hook for converting strings like
// "1MiB" or "500 kB" to config.ByteSize.
//
//nolint:ireturn // required by mapstructure.DecodeHookFunc interface
func stringToByteSizeHookFunc() mapstructure.DecodeHookFunc {
	return func(
		_ reflect.Type,
		t reflect.Type,
		data any,
	) (any, error) {
		if t != reflect.TypeFor[config.ByteSize]() {
			return data, nil
		}

		switch v := data.(type) {
		case string:
			n, err := humanize.ParseBytes(v)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid byte size %q", v)
			}

			return config.ByteSize(n), nil

		case int:
			return config.ByteSize(v), nil

		case int64:
			return config.ByteSize(v), nil

		case float64:
			return config.ByteSize(v), nil

		default:
			return data, nil
		}
	}
}
