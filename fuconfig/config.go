// Package fuconfig provides JSON-configurable sizing for the simulator's
// functional-unit reservation-station pools and Reorder Buffer, the way
// the teacher's timing/latency package configures instruction latencies.
package fuconfig

import (
	"encoding/json"
	"fmt"
	"os"
)

// FUConfig holds the construction parameters for a Simulator's functional
// unit pools and ROB, per the default FU configuration in spec §6.
type FUConfig struct {
	// MemRS is the number of MEM reservation stations (LW/LB/SW/SB).
	MemRS int `json:"mem_rs"`
	// AddRS is the number of ADD reservation stations (ADD/SUB).
	AddRS int `json:"add_rs"`
	// LogicRS is the number of LOGIC/BRANCH reservation stations
	// (OR/AND/SLLI/SRLI/BEQ/BNE).
	LogicRS int `json:"logic_rs"`
	// MulRS is the number of MUL reservation stations (MUL/DIV).
	MulRS int `json:"mul_rs"`
	// RobSize is the fixed capacity of the circular Reorder Buffer.
	RobSize int `json:"rob_size"`
}

// Default returns the default FU configuration from spec §6: 2 MEM,
// 3 ADD, 2 LOGIC/BRANCH, 1 MUL, ROB size 8.
func Default() *FUConfig {
	return &FUConfig{
		MemRS:   2,
		AddRS:   3,
		LogicRS: 2,
		MulRS:   1,
		RobSize: 8,
	}
}

// Load reads an FUConfig from a JSON file, starting from Default() so a
// partial file only overrides the fields it sets.
func Load(path string) (*FUConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read FU config file: %w", err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse FU config: %w", err)
	}

	return config, nil
}

// Save writes config to path as indented JSON.
func (c *FUConfig) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize FU config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write FU config file: %w", err)
	}

	return nil
}

// Validate checks that every pool has at least one RS and the ROB has
// positive capacity.
func (c *FUConfig) Validate() error {
	if c.MemRS < 1 {
		return fmt.Errorf("mem_rs must be >= 1")
	}
	if c.AddRS < 1 {
		return fmt.Errorf("add_rs must be >= 1")
	}
	if c.LogicRS < 1 {
		return fmt.Errorf("logic_rs must be >= 1")
	}
	if c.MulRS < 1 {
		return fmt.Errorf("mul_rs must be >= 1")
	}
	if c.RobSize < 1 {
		return fmt.Errorf("rob_size must be >= 1")
	}
	return nil
}

// Clone returns a deep copy of config.
func (c *FUConfig) Clone() *FUConfig {
	clone := *c
	return &clone
}
