package config

import (
	"fmt"
	"time"

	"github.com/maintops/crewsched/core/model"
)

// EngineConfig defines solver parameters loaded from configuration.
type EngineConfig struct {
	// HorizonDays sizes the planning horizon when the caller gives only a
	// start date.
	HorizonDays int `json:"horizon_days"`
	// TimeBudgetSeconds caps the wall-clock search time per solve.
	TimeBudgetSeconds float64 `json:"time_budget_seconds"`
	// NodeBudget optionally caps explored search nodes. Zero means unlimited.
	NodeBudget int64 `json:"node_budget"`

	Rules model.PrioritizationRules `json:"rules"`
}

// SetDefaults applies sane defaults: a weekly horizon and the engine's
// default prioritization rules.
func (c *EngineConfig) SetDefaults() {
	if c.HorizonDays == 0 {
		c.HorizonDays = 7
	}
	if c.TimeBudgetSeconds == 0 {
		c.TimeBudgetSeconds = 10
	}
	c.Rules.SetDefaults()
}

// Validate checks mandatory fields.
func (c EngineConfig) Validate() error {
	if c.HorizonDays < 1 {
		return fmt.Errorf("engine: horizon_days must be at least 1")
	}
	if c.TimeBudgetSeconds <= 0 {
		return fmt.Errorf("engine: time_budget_seconds must be positive")
	}
	if c.NodeBudget < 0 {
		return fmt.Errorf("engine: node_budget must not be negative")
	}
	return nil
}

// TimeBudget returns the budget as a duration.
func (c EngineConfig) TimeBudget() time.Duration {
	return time.Duration(c.TimeBudgetSeconds * float64(time.Second))
}
