// Package config loads, validates, and writes hookd configuration.
package config

import (
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/smykla-skalski/hookd/internal/xdg"
	"github.com/smykla-skalski/hookd/pkg/config"
	"github.com/smykla-skalski/hookd/pkg/hook"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidValue is returned when a numeric or duration value is out of
	// range.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidOption is returned when an option value is invalid.
	ErrInvalidOption = errors.New("invalid option value")

	// ErrEmptyValue is returned when a required value is empty.
	ErrEmptyValue = errors.New("empty value not allowed")

	// ErrDuplicateRule is returned when two rules share a name.
	ErrDuplicateRule = errors.New("duplicate rule name")
)

// maxSocketPathLen is the sun_path limit on the stricter platforms; a longer
// socket path fails bind(2) with an unhelpful error, so it is caught here.
const maxSocketPathLen = 104

// validDecisions are the decision names a rule action may carry.
var validDecisions = map[string]bool{
	"deny":     true,
	"ask":      true,
	"allow":    true,
	"continue": true,
}

// Validator validates configuration semantics.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate validates the entire configuration.
// Returns an error describing all validation failures.
func (v *Validator) Validate(cfg *config.Config) error {
	if cfg == nil {
		return errors.WithMessage(ErrInvalidConfig, "config is nil")
	}

	var validationErrors []error

	if cfg.Version < 0 || cfg.Version > config.CurrentConfigVersion {
		validationErrors = append(
			validationErrors,
			errors.Wrapf(
				ErrInvalidValue,
				"version must be between 1 and %d, got %d",
				config.CurrentConfigVersion,
				cfg.Version,
			),
		)
	}

	if cfg.Daemon != nil {
		if err := v.validateDaemonConfig(cfg.Daemon); err != nil {
			validationErrors = append(validationErrors, errors.Wrap(err, "daemon"))
		}
	}

	if cfg.Handlers != nil {
		if err := v.validateHandlersConfig(cfg.Handlers); err != nil {
			validationErrors = append(validationErrors, err)
		}
	}

	if cfg.Rules != nil {
		if err := v.validateRulesConfig(cfg.Rules); err != nil {
			validationErrors = append(validationErrors, err)
		}
	}

	if len(validationErrors) > 0 {
		return errors.WithSecondaryError(
			errors.Wrapf(
				ErrInvalidConfig,
				"validation failed with %d error(s)",
				len(validationErrors),
			),
			combineErrors(validationErrors),
		)
	}

	return nil
}

// validateDaemonConfig validates daemon configuration.
func (*Validator) validateDaemonConfig(cfg *config.DaemonConfig) error {
	var validationErrors []error

	if socket := xdg.ExpandPathSilent(cfg.GetSocket()); len(socket) > maxSocketPathLen {
		validationErrors = append(
			validationErrors,
			errors.Wrapf(
				ErrInvalidValue,
				"socket path exceeds %d bytes: %s",
				maxSocketPathLen,
				socket,
			),
		)
	}

	for _, field := range []struct {
		name  string
		value config.Duration
	}{
		{"idle_timeout", cfg.IdleTimeout},
		{"idle_poll_interval", cfg.IdlePollInterval},
		{"grace_period", cfg.GracePeriod},
	} {
		if field.value < 0 {
			validationErrors = append(
				validationErrors,
				errors.Wrapf(
					ErrInvalidValue,
					"%s must be non-negative, got %s",
					field.name,
					field.value,
				),
			)
		}
	}

	if cfg.MaxConnections < 0 {
		validationErrors = append(
			validationErrors,
			errors.Wrapf(
				ErrInvalidValue,
				"max_connections must be non-negative, got %d",
				cfg.MaxConnections,
			),
		)
	}

	if len(validationErrors) > 0 {
		return combineErrors(validationErrors)
	}

	return nil
}

// validateHandlersConfig validates handler configuration.
func (v *Validator) validateHandlersConfig(cfg *config.HandlersConfig) error {
	if cfg.Secrets == nil {
		return nil
	}

	var validationErrors []error

	for i, custom := range cfg.Secrets.CustomPatterns {
		if err := v.validateCustomPattern(&custom); err != nil {
			validationErrors = append(
				validationErrors,
				errors.Wrapf(err, "handlers.secrets.custom_patterns[%d]", i),
			)
		}
	}

	if len(validationErrors) > 0 {
		return combineErrors(validationErrors)
	}

	return nil
}

// validateCustomPattern validates a single custom secret pattern. An invalid
// custom pattern is a configuration error rather than a skipped entry; the
// user explicitly asked for it.
func (*Validator) validateCustomPattern(custom *config.CustomPatternConfig) error {
	if custom.Name == "" {
		return errors.WithMessage(ErrEmptyValue, "name")
	}

	if custom.Regex == "" {
		return errors.WithMessage(ErrEmptyValue, "regex")
	}

	if _, err := regexp.Compile(custom.Regex); err != nil {
		return errors.Wrapf(ErrInvalidOption, "regex does not compile: %v", err)
	}

	return nil
}

// validateRulesConfig validates the inline rule list. Pattern compilation is
// left to the rules compiler; this catches the structural problems that are
// cheap to report early.
func (*Validator) validateRulesConfig(cfg *config.RulesConfig) error {
	var validationErrors []error

	seenNames := make(map[string]bool)

	for i, rule := range cfg.Rules {
		if rule.Name == "" {
			validationErrors = append(
				validationErrors,
				errors.Wrapf(ErrEmptyValue, "rules.rules[%d].name", i),
			)

			continue
		}

		if seenNames[rule.Name] {
			validationErrors = append(
				validationErrors,
				errors.Wrapf(ErrDuplicateRule, "rules.rules[%d]: %q", i, rule.Name),
			)
		}

		seenNames[rule.Name] = true

		for _, event := range rule.Events {
			if _, err := hook.ParseEventType(event); err != nil {
				validationErrors = append(
					validationErrors,
					errors.Wrapf(err, "rules.rules[%d].events", i),
				)
			}
		}

		decision := strings.ToLower(rule.Action.GetDecision())
		if !validDecisions[decision] {
			validationErrors = append(
				validationErrors,
				errors.Wrapf(
					ErrInvalidOption,
					"rules.rules[%d].action.decision: %q",
					i,
					decision,
				),
			)
		}
	}

	if len(validationErrors) > 0 {
		return combineErrors(validationErrors)
	}

	return nil
}

// combineErrors combines multiple errors into a single error.
func combineErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	return errors.Join(errs...)
}
