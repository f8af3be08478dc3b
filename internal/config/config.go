// Package config reads compiler and runtime settings from the environment
package config

import (
	"fmt"

	"github.com/xyproto/env/v2"
	"github.com/xyproto/inc/internal/machine"
	"github.com/xyproto/inc/internal/rt"
)

const (
	DefaultHeapSize  = 1 << 20
	DefaultStackSize = 1 << 16
	DefaultEntry     = "scheme_entry"
)

// Config holds the settings the CLI passes on to the compiler and the machine
type Config struct {
	HeapSize  int    // INC_HEAP_SIZE
	StackSize int    // INC_STACK_SIZE
	Verbose   bool   // INC_VERBOSE
	Entry     string // INC_ENTRY
}

// Load reads the configuration, falling back to the defaults for unset variables
func Load() (*Config, error) {
	// env caches the environment on first use
	env.Load()
	c := &Config{
		HeapSize:  env.Int("INC_HEAP_SIZE", DefaultHeapSize),
		StackSize: env.Int("INC_STACK_SIZE", DefaultStackSize),
		Verbose:   env.Bool("INC_VERBOSE"),
		Entry:     env.Str("INC_ENTRY", DefaultEntry),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects sizes the heap and stack cannot be laid out with
func (c *Config) Validate() error {
	if c.HeapSize < 64 || c.HeapSize%8 != 0 {
		return fmt.Errorf("heap size must be a multiple of 8 and at least 64 bytes, got %d", c.HeapSize)
	}
	if c.StackSize < 64 || c.StackSize%16 != 0 {
		return fmt.Errorf("stack size must be a multiple of 16 and at least 64 bytes, got %d", c.StackSize)
	}
	// The heap starts at rt.DefaultBase and must end below the stack window
	space := machine.StackTop - rt.DefaultBase
	if uint64(c.StackSize) > space {
		return fmt.Errorf("stack size %d does not fit below %#x", c.StackSize, machine.StackTop)
	}
	if limit := space - uint64(c.StackSize); uint64(c.HeapSize) > limit {
		return fmt.Errorf("heap size %d overlaps the stack, at most %d bytes fit with a %d byte stack", c.HeapSize, limit, c.StackSize)
	}
	if c.Entry == "" {
		return fmt.Errorf("entry symbol must not be empty")
	}
	return nil
}
