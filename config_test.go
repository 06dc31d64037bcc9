package symrex

import (
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/coregx/symrex/syntax"
	"github.com/coregx/symrex/vm"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"defaults", func(*Config) {}, ""},
		{"depth too small", func(c *Config) { c.MaxRecursionDepth = 9 }, "MaxRecursionDepth"},
		{"depth too large", func(c *Config) { c.MaxRecursionDepth = 100_001 }, "MaxRecursionDepth"},
		{"repeat zero", func(c *Config) { c.MaxRepeat = 0 }, "MaxRepeat"},
		{"repeat upper bound", func(c *Config) { c.MaxRepeat = 100_000 }, ""},
		{"insts too small", func(c *Config) { c.MaxInsts = 15 }, "MaxInsts"},
		{"insts too large", func(c *Config) { c.MaxInsts = 1<<26 + 1 }, "MaxInsts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(&c)
			err := c.Validate()
			if tt.field == "" {
				assert.NilError(t, err)
				return
			}
			var ce *ConfigError
			assert.Assert(t, errors.As(err, &ce), "err = %v", err)
			assert.Equal(t, ce.Field, tt.field)
		})
	}
}

func TestConfigError_Error(t *testing.T) {
	err := &ConfigError{Field: "MaxRepeat", Message: "must be between 1 and 100,000"}
	assert.Equal(t, err.Error(), "symrex: invalid config: MaxRepeat: must be between 1 and 100,000")
}

func TestCompileWithConfig(t *testing.T) {
	a := syntax.Symbol('a')

	config := DefaultConfig()
	config.MaxRepeat = 5
	_, err := CompileWithConfig(syntax.RepeatN(a, 6), config)
	assert.Assert(t, errors.Is(err, vm.ErrInvalidRepeat), "err = %v", err)

	re, err := CompileWithConfig(syntax.RepeatN(a, 5), config)
	assert.NilError(t, err)
	assert.Assert(t, re.IsMatch([]rune("aaaaa")))

	config.MaxInsts = 16
	_, err = CompileWithConfig(syntax.RepeatN(a, 5), config)
	assert.NilError(t, err)
	_, err = CompileWithConfig(syntax.Seq(syntax.RepeatN(a, 5), syntax.RepeatN(a, 5)), config)
	assert.Assert(t, errors.Is(err, vm.ErrProgramTooLarge), "err = %v", err)

	_, err = CompileWithConfig(a, Config{})
	var ce *ConfigError
	assert.Assert(t, errors.As(err, &ce))
}
