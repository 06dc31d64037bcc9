package symrex

import (
	"github.com/coregx/symrex/nfa"
	"github.com/coregx/symrex/vm"
)

// Config controls compilation limits.
//
// Example:
//
//	config := symrex.DefaultConfig()
//	config.MaxRepeat = 10000 // allow a{1,10000}
//	re, err := symrex.CompileWithConfig(tree, config)
type Config struct {
	// MaxRecursionDepth limits nesting of groups, alternations and
	// quantifiers in the tree. Concatenation does not count.
	// Default: 1000
	MaxRecursionDepth int

	// MaxRepeat caps the counts of RepeatN and RepeatMinMax. Counted repeats
	// are expanded by copying their operand, so this also bounds program size.
	// Default: 1000
	MaxRepeat int

	// MaxInsts caps the number of instructions in the compiled program and
	// the number of states in the membership automaton behind IsFullMatch.
	// Default: 1 << 20
	MaxInsts int
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxRecursionDepth: 1000,
		MaxRepeat:         1000,
		MaxInsts:          1 << 20,
	}
}

// Validate checks if the configuration is valid.
// Returns an error if any parameter is out of range.
//
// Valid ranges:
//   - MaxRecursionDepth: 10 to 100,000
//   - MaxRepeat: 1 to 100,000
//   - MaxInsts: 16 to 67,108,864
func (c Config) Validate() error {
	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 100_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 10 and 100,000",
		}
	}
	if c.MaxRepeat < 1 || c.MaxRepeat > 100_000 {
		return &ConfigError{
			Field:   "MaxRepeat",
			Message: "must be between 1 and 100,000",
		}
	}
	if c.MaxInsts < 16 || c.MaxInsts > 1<<26 {
		return &ConfigError{
			Field:   "MaxInsts",
			Message: "must be between 16 and 67,108,864",
		}
	}
	return nil
}

func (c Config) compilerConfig() vm.CompilerConfig {
	return vm.CompilerConfig{
		MaxRecursionDepth: c.MaxRecursionDepth,
		MaxRepeat:         c.MaxRepeat,
		MaxInsts:          c.MaxInsts,
	}
}

func (c Config) nfaConfig() nfa.CompilerConfig {
	return nfa.CompilerConfig{
		MaxRepeat: c.MaxRepeat,
		MaxStates: c.MaxInsts,
	}
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "symrex: invalid config: " + e.Field + ": " + e.Message
}
