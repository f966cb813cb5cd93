// Package config provides Viper-based configuration loading for the
// autobattler simulator.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// BoardConfig holds battle grid dimensions.
type BoardConfig struct {
	// Width is the grid width in cells.
	Width int `mapstructure:"width"`
	// Height is the grid height in cells.
	Height int `mapstructure:"height"`
}

// CombatConfig holds tick loop tuning.
type CombatConfig struct {
	// TickMs is the simulated duration of one tick in milliseconds.
	TickMs int `mapstructure:"tick_ms"`
	// MaxTicks caps a battle's length; hitting the cap forces a draw.
	MaxTicks int `mapstructure:"max_ticks"`
	// DisableCrits turns off critical strike rolls, for reproducible batch runs.
	DisableCrits bool `mapstructure:"disable_crits"`
}

// ContentConfig holds content directory locations.
type ContentConfig struct {
	// UnitsDir is the directory of unit template YAML files.
	UnitsDir string `mapstructure:"units_dir"`
	// TraitsDir is the directory of trait definition YAML files.
	TraitsDir string `mapstructure:"traits_dir"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// ShopConfig holds economy tuning.
type ShopConfig struct {
	// StartGold is each player's opening balance.
	StartGold int `mapstructure:"start_gold"`
	// RollCost is the gold price of a shop reroll.
	RollCost int `mapstructure:"roll_cost"`
	// Slots is the number of offers per roll.
	Slots int `mapstructure:"slots"`
}

// RosterConfig names the template lineups the simulator fields by default.
type RosterConfig struct {
	// Allies is the ally side's template IDs.
	Allies []string `mapstructure:"allies"`
	// Enemies is the enemy side's template IDs.
	Enemies []string `mapstructure:"enemies"`
}

// Config is the top-level application configuration.
type Config struct {
	Board   BoardConfig   `mapstructure:"board"`
	Combat  CombatConfig  `mapstructure:"combat"`
	Content ContentConfig `mapstructure:"content"`
	Logging LoggingConfig `mapstructure:"logging"`
	Shop    ShopConfig    `mapstructure:"shop"`
	Roster  RosterConfig  `mapstructure:"roster"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing
// all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateBoard(c.Board); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateCombat(c.Combat); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateShop(c.Shop); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateBoard(b BoardConfig) error {
	var errs []string
	if b.Width < 1 {
		errs = append(errs, fmt.Sprintf("board.width must be >= 1, got %d", b.Width))
	}
	if b.Height < 1 {
		errs = append(errs, fmt.Sprintf("board.height must be >= 1, got %d", b.Height))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateCombat(c CombatConfig) error {
	var errs []string
	if c.TickMs < 1 {
		errs = append(errs, fmt.Sprintf("combat.tick_ms must be >= 1, got %d", c.TickMs))
	}
	if c.MaxTicks < 1 {
		errs = append(errs, fmt.Sprintf("combat.max_ticks must be >= 1, got %d", c.MaxTicks))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.UnitsDir == "" {
		errs = append(errs, "content.units_dir must not be empty")
	}
	if c.TraitsDir == "" {
		errs = append(errs, "content.traits_dir must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateShop(s ShopConfig) error {
	var errs []string
	if s.StartGold < 0 {
		errs = append(errs, fmt.Sprintf("shop.start_gold must be >= 0, got %d", s.StartGold))
	}
	if s.RollCost < 0 {
		errs = append(errs, fmt.Sprintf("shop.roll_cost must be >= 0, got %d", s.RollCost))
	}
	if s.Slots < 1 {
		errs = append(errs, fmt.Sprintf("shop.slots must be >= 1, got %d", s.Slots))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment
// variable overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with AUTOCHESS_ prefix
	v.SetEnvPrefix("AUTOCHESS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("board.width", 8)
	v.SetDefault("board.height", 8)

	v.SetDefault("combat.tick_ms", 100)
	v.SetDefault("combat.max_ticks", 1000)
	v.SetDefault("combat.disable_crits", false)

	v.SetDefault("content.units_dir", "content/units")
	v.SetDefault("content.traits_dir", "content/traits")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("shop.start_gold", 10)
	v.SetDefault("shop.roll_cost", 2)
	v.SetDefault("shop.slots", 5)
}
