package engine

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/aggregate"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/commission_fee"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/optimizer"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/version"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Window is a half-open time range [Start, End). An unset bound is open.
type Window struct {
	Start optional.Option[time.Time] `yaml:"start" json:"start" jsonschema:"title=Start,description=Inclusive start of the window"`
	End   optional.Option[time.Time] `yaml:"end" json:"end" jsonschema:"title=End,description=Exclusive end of the window"`
}

// UnmarshalYAML implements custom unmarshaling for Window
func (w *Window) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Start *time.Time `yaml:"start"`
		End   *time.Time `yaml:"end"`
	}

	if err := value.Decode(&raw); err != nil {
		return err
	}

	w.Start = optional.None[time.Time]()
	if raw.Start != nil {
		w.Start = optional.Some(raw.Start.UTC())
	}

	w.End = optional.None[time.Time]()
	if raw.End != nil {
		w.End = optional.Some(raw.End.UTC())
	}

	return nil
}

// MarshalYAML writes unset bounds as omitted keys.
func (w Window) MarshalYAML() (any, error) {
	out := map[string]time.Time{}
	if w.Start.IsSome() {
		out["start"] = w.Start.Unwrap()
	}

	if w.End.IsSome() {
		out["end"] = w.End.Unwrap()
	}

	return out, nil
}

func (w Window) validate(name string) error {
	if w.Start.IsSome() && w.End.IsSome() && !w.Start.Unwrap().Before(w.End.Unwrap()) {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "%s window start %s is not before end %s",
			name, w.Start.Unwrap().Format(time.RFC3339), w.End.Unwrap().Format(time.RFC3339))
	}

	return nil
}

func NewWindow(start, end time.Time) Window {
	return Window{Start: optional.Some(start), End: optional.Some(end)}
}

type Config struct {
	Version        string                `yaml:"version" json:"version" jsonschema:"title=Version,description=Backtester version the config was written for. Empty accepts any version"`
	DataPath       string                `yaml:"data_path" json:"data_path" validate:"required" jsonschema:"title=Data Path,description=Tick file: headerless CSV of unixtime price amount or a parquet file with ts price amount columns"`
	Symbol         string                `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=Name of the traded asset used in the report"`
	Interval       aggregate.Interval    `yaml:"interval" json:"interval" jsonschema:"title=Interval,description=Bar width such as 1h or 15min"`
	InitialBalance float64               `yaml:"initial_balance" json:"initial_balance" validate:"gt=0" jsonschema:"title=Initial Balance,description=Starting balance of each evaluation,exclusiveMinimum=0"`
	Fee            commission_fee.Config `yaml:"fee" json:"fee" jsonschema:"title=Fee,description=Fee charged when a position is entered"`
	CloseThreshold float64               `yaml:"close_threshold" json:"close_threshold" validate:"gt=0,lte=1" jsonschema:"title=Close Threshold,description=A position closes when the short average falls below this fraction of the long average,exclusiveMinimum=0,maximum=1"`
	Training       Window                `yaml:"training" json:"training" jsonschema:"title=Training Window,description=Bars used to select the parameters"`
	Test           Window                `yaml:"test" json:"test" jsonschema:"title=Test Window,description=Bars the selected parameters are evaluated on"`
	Grid           optimizer.Grid        `yaml:"grid" json:"grid" jsonschema:"title=Grid,description=Candidate moving average periods"`
	Sequential     bool                  `yaml:"sequential" json:"sequential" jsonschema:"title=Sequential,description=Evaluate candidates one at a time instead of in parallel"`
	ResultsFolder  string                `yaml:"results_folder" json:"results_folder" jsonschema:"title=Results Folder,description=Folder receiving report.yaml bars.parquet and equity.parquet. Nothing is written when empty"`
}

// DefaultConfig returns the configuration of the classic Mt.Gox study: hourly
// bars, 2012 for training and the first three quarters of 2013 for testing.
func DefaultConfig() Config {
	return Config{
		Version:        "",
		DataPath:       "",
		Symbol:         "BTCUSD",
		Interval:       aggregate.MustParseInterval("1h"),
		InitialBalance: 1000,
		Fee:            commission_fee.DefaultConfig(),
		CloseThreshold: strategy.DefaultCloseThreshold,
		Training: NewWindow(
			time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
		),
		Test: NewWindow(
			time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2013, 10, 1, 0, 0, 0, 0, time.UTC),
		),
		Grid:          optimizer.DefaultGrid(),
		Sequential:    false,
		ResultsFolder: "",
	}
}

// LoadConfig reads a YAML config. Keys missing from the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "failed to read config %s", path)
	}

	return ParseConfig(data)
}

// ParseConfig parses YAML content on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse config", err)
	}

	return config, nil
}

// Validate checks every field. The returned error carries the code of the first
// failing group: version, fee, threshold, interval, grid, windows, then the
// remaining fields.
func (c Config) Validate() error {
	if err := version.CheckConfigCompatibility(version.GetVersion(), c.Version); err != nil {
		return err
	}

	if err := c.Fee.Validate(); err != nil {
		return err
	}

	if c.CloseThreshold <= 0 || c.CloseThreshold > 1 {
		return errors.Newf(errors.ErrCodeInvalidThreshold, "close_threshold must be in (0, 1], got %v", c.CloseThreshold)
	}

	if err := c.Interval.Validate(); err != nil {
		return err
	}

	if err := c.Grid.Validate(); err != nil {
		return err
	}

	if err := c.Training.validate("training"); err != nil {
		return err
	}

	if err := c.Test.validate("test"); err != nil {
		return err
	}

	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid backtest configuration", err)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the Config
func (c *Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			switch t {
			case reflect.TypeOf(optional.Option[time.Time]{}):
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			case reflect.TypeOf(aggregate.Interval{}):
				return &jsonschema.Schema{
					Type:    "string",
					Pattern: `^\s*[0-9]*\s*[a-zA-Z]+\s*$`,
					Examples: []any{
						"1h", "15min", "1d",
					},
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "crossover-backtest-config"
	schema.Description = "Configuration schema for the moving average crossover backtest"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the Config
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
