package backtest

import (
	"encoding/json"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/primtrade/prim-trading/internal/feature"
	"github.com/primtrade/prim-trading/internal/indicator"
	"github.com/primtrade/prim-trading/internal/model"
	"github.com/primtrade/prim-trading/internal/simulator/cost"
	"github.com/primtrade/prim-trading/internal/types"
	"github.com/primtrade/prim-trading/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the full configuration of one backtest run.
type Config struct {
	Symbol        string          `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Instrument identifier" validate:"required"`
	BaseTimeframe types.Timeframe `yaml:"base_timeframe" json:"base_timeframe" jsonschema:"title=Base Timeframe,description=Timeframe the simulation steps on" validate:"required"`

	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital in account currency,minimum=0" validate:"gt=0"`
	PositionSize   float64 `yaml:"position_size" json:"position_size" jsonschema:"title=Position Size,description=Units per trade,minimum=0" validate:"gt=0"`
	EntryThreshold float64 `yaml:"entry_threshold" json:"entry_threshold" jsonschema:"title=Entry Threshold,description=Minimum signal strength to open a position,minimum=0,maximum=1" validate:"gte=0,lte=1"`

	// StopLossPct and TakeProfitPct are fractions of the entry price. None
	// disables the level.
	StopLossPct   optional.Option[float64] `yaml:"stop_loss_pct" json:"stop_loss_pct,omitempty" jsonschema:"title=Stop Loss Percent"`
	TakeProfitPct optional.Option[float64] `yaml:"take_profit_pct" json:"take_profit_pct,omitempty" jsonschema:"title=Take Profit Percent"`

	// StartTime and EndTime bound the evaluated window. None means the whole
	// dataset on that side.
	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time,omitempty" jsonschema:"title=Start Time,description=Optional start of the backtest period"`
	EndTime   optional.Option[time.Time] `yaml:"end_time" json:"end_time,omitempty" jsonschema:"title=End Time,description=Optional end of the backtest period"`

	GapTolerance float64 `yaml:"gap_tolerance" json:"gap_tolerance" jsonschema:"title=Gap Tolerance,description=Allowed bar spacing as a multiple of the timeframe duration" validate:"gte=0"`
	BarsPerYear  float64 `yaml:"bars_per_year" json:"bars_per_year" jsonschema:"title=Bars Per Year,description=Annualization factor for Sharpe and Sortino,minimum=1" validate:"gt=0"`

	Cost      cost.Config    `yaml:"cost" json:"cost" jsonschema:"title=Cost Model"`
	Features  feature.Config `yaml:"features" json:"features" jsonschema:"title=Feature Specs"`
	Predictor model.Config   `yaml:"predictor" json:"predictor" jsonschema:"title=Predictor"`
}

// UnmarshalYAML implements custom unmarshaling so optional fields become
// Options instead of zero values.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type plain struct {
		Symbol         string          `yaml:"symbol"`
		BaseTimeframe  types.Timeframe `yaml:"base_timeframe"`
		InitialCapital float64         `yaml:"initial_capital"`
		PositionSize   float64         `yaml:"position_size"`
		EntryThreshold float64         `yaml:"entry_threshold"`
		StopLossPct    *float64        `yaml:"stop_loss_pct"`
		TakeProfitPct  *float64        `yaml:"take_profit_pct"`
		StartTime      *time.Time      `yaml:"start_time"`
		EndTime        *time.Time      `yaml:"end_time"`
		GapTolerance   float64         `yaml:"gap_tolerance"`
		BarsPerYear    float64         `yaml:"bars_per_year"`
		Cost           cost.Config     `yaml:"cost"`
		Features       feature.Config  `yaml:"features"`
		Predictor      model.Config    `yaml:"predictor"`
	}

	var config plain
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.Symbol = config.Symbol
	c.BaseTimeframe = config.BaseTimeframe
	c.InitialCapital = config.InitialCapital
	c.PositionSize = config.PositionSize
	c.EntryThreshold = config.EntryThreshold
	c.GapTolerance = config.GapTolerance
	c.BarsPerYear = config.BarsPerYear
	c.Cost = config.Cost
	c.Features = config.Features
	c.Predictor = config.Predictor

	c.StopLossPct = optional.FromNillable(config.StopLossPct)
	c.TakeProfitPct = optional.FromNillable(config.TakeProfitPct)
	c.StartTime = optional.FromNillable(config.StartTime)
	c.EndTime = optional.FromNillable(config.EndTime)

	return nil
}

// Validate checks the whole configuration, including timeframe consistency
// between the base timeframe and every feature spec.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest config", err)
	}

	baseDuration, err := c.BaseTimeframe.Duration()
	if err != nil {
		return err
	}

	for i, spec := range c.Features.Specs {
		specDuration, err := spec.Timeframe.Duration()
		if err != nil {
			return err
		}

		if specDuration < baseDuration {
			return errors.Newf(errors.ErrCodeTimeframeMismatch,
				"feature spec %d uses %s, below the base timeframe %s", i, spec.Timeframe, c.BaseTimeframe)
		}
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && !c.StartTime.Unwrap().Before(c.EndTime.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidConfiguration, "start_time must be before end_time")
	}

	return nil
}

// ParseConfig parses a YAML config document.
func ParseConfig(content string) (Config, error) {
	var config Config
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "cannot parse config", err)
	}

	return config, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "cannot read config file %s", path)
	}

	return ParseConfig(string(content))
}

// EmptyConfig returns a Config with zero values and all options unset.
func EmptyConfig() Config {
	return Config{
		StopLossPct:   optional.None[float64](),
		TakeProfitPct: optional.None[float64](),
		StartTime:     optional.None[time.Time](),
		EndTime:       optional.None[time.Time](),
	}
}

// TestConfig returns a small valid config for tests: an SMA crossover on the
// hourly timeframe with no costs and no protective levels.
func TestConfig() Config {
	config := EmptyConfig()
	config.Symbol = "TEST"
	config.BaseTimeframe = types.TimeframeH1
	config.InitialCapital = 10000
	config.PositionSize = 10
	config.EntryThreshold = 0
	config.BarsPerYear = 252 * 24
	config.Features = feature.Config{Specs: []feature.Spec{
		{
			Timeframe: types.TimeframeH1,
			Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 3},
		},
		{
			Timeframe: types.TimeframeH1,
			Indicator: indicator.Spec{Type: types.IndicatorTypeSMA, Period: 8},
		},
	}}
	config.Predictor = model.Config{
		Type: model.TypeCrossover,
		Crossover: &model.CrossoverConfig{
			FastFeature: "h1_sma_3",
			SlowFeature: "h1_sma_8",
		},
	}

	return config
}

// GenerateSchema generates the JSON schema of the run configuration.
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			if t.String() == "optional.Option[float64]" {
				return &jsonschema.Schema{
					Type: "number",
				}
			}
			if strings.Contains(t.String(), "types.Timeframe") {
				enum := make([]any, 0, len(types.AllTimeframes))
				for _, tf := range types.AllTimeframes {
					enum = append(enum, string(tf))
				}

				return &jsonschema.Schema{
					Type: "string",
					Enum: enum,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)
	schema.Title = "backtest-config"
	schema.Description = "Configuration schema for a backtest run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON renders the schema as indented JSON.
func (c *Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
