// Package config loads and validates backtest configuration from YAML or
// JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tradelab/stockbt/backtest"
	"github.com/tradelab/stockbt/ledger"
)

// Config represents the complete backtest configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Strategy StrategyConfig `json:"strategy" yaml:"strategy"`
	Fees     FeesConfig     `json:"fees" yaml:"fees"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
}

// StrategyConfig contains the decision policy knobs.
type StrategyConfig struct {
	EntryScore          int     `json:"entry_score" yaml:"entry_score"`
	PortfolioEntryScore int     `json:"portfolio_entry_score" yaml:"portfolio_entry_score"`
	ExitScore           int     `json:"exit_score" yaml:"exit_score"`
	StopLossRatio       float64 `json:"stop_loss_ratio" yaml:"stop_loss_ratio"`
	CashFraction        float64 `json:"cash_fraction" yaml:"cash_fraction"`
	MinTradeAmount      float64 `json:"min_trade_amount" yaml:"min_trade_amount"`
	MinSlotAmount       float64 `json:"min_slot_amount" yaml:"min_slot_amount"`
	MaxPositions        int     `json:"max_positions" yaml:"max_positions"`
}

// FeesConfig contains the fee model parameters.
type FeesConfig struct {
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
	MinCommission  float64 `json:"min_commission" yaml:"min_commission"`
	StampDutyRate  float64 `json:"stamp_duty_rate" yaml:"stamp_duty_rate"`
}

// DataConfig locates the daily bar files.
type DataConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ServerConfig contains the HTTP API parameters.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// Policy converts the strategy section into an engine policy, leaving
// unspecified knobs at their defaults.
func (c *Config) Policy() backtest.Policy {
	p := backtest.DefaultPolicy()
	s := c.Strategy
	if s.EntryScore > 0 {
		p.EntryScore = s.EntryScore
	}
	if s.PortfolioEntryScore > 0 {
		p.PortfolioEntryScore = s.PortfolioEntryScore
	}
	if s.ExitScore > 0 {
		p.ExitScore = s.ExitScore
	}
	if s.StopLossRatio > 0 {
		p.StopLossRatio = s.StopLossRatio
	}
	if s.CashFraction > 0 {
		p.CashFraction = s.CashFraction
	}
	if s.MinTradeAmount > 0 {
		p.MinTradeAmount = s.MinTradeAmount
	}
	if s.MinSlotAmount > 0 {
		p.MinSlotAmount = s.MinSlotAmount
	}
	if s.MaxPositions > 0 {
		p.MaxPositions = s.MaxPositions
	}
	return p
}

// LedgerFees converts the fees section into the ledger fee model.
func (c *Config) LedgerFees() ledger.Fees {
	f := ledger.DefaultFees()
	if c.Fees.CommissionRate > 0 {
		f.CommissionRate = c.Fees.CommissionRate
	}
	if c.Fees.MinCommission > 0 {
		f.MinCommission = c.Fees.MinCommission
	}
	if c.Fees.StampDutyRate > 0 {
		f.StampDutyRate = c.Fees.StampDutyRate
	}
	return f
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file, YAML or JSON by extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.InitialCapital <= 0 {
		return fmt.Errorf("account.initial_capital must be positive")
	}
	if c.Strategy.StopLossRatio < 0 || c.Strategy.StopLossRatio > 1 {
		return fmt.Errorf("strategy.stop_loss_ratio must be between 0 and 1")
	}
	if c.Strategy.CashFraction < 0 || c.Strategy.CashFraction > 1 {
		return fmt.Errorf("strategy.cash_fraction must be between 0 and 1")
	}
	if c.Strategy.MaxPositions < 0 {
		return fmt.Errorf("strategy.max_positions must not be negative")
	}
	if c.Data.Dir == "" {
		return fmt.Errorf("data.dir is required")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.RunsFile == "" || c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal runs_file, trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	policy := backtest.DefaultPolicy()
	fees := ledger.DefaultFees()
	return &Config{
		Account: AccountConfig{
			InitialCapital: 100000,
		},
		Strategy: StrategyConfig{
			EntryScore:          policy.EntryScore,
			PortfolioEntryScore: policy.PortfolioEntryScore,
			ExitScore:           policy.ExitScore,
			StopLossRatio:       policy.StopLossRatio,
			CashFraction:        policy.CashFraction,
			MinTradeAmount:      policy.MinTradeAmount,
			MinSlotAmount:       policy.MinSlotAmount,
			MaxPositions:        policy.MaxPositions,
		},
		Fees: FeesConfig{
			CommissionRate: fees.CommissionRate,
			MinCommission:  fees.MinCommission,
			StampDutyRate:  fees.StampDutyRate,
		},
		Data: DataConfig{
			Dir: "./data",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./stockbt.db",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
