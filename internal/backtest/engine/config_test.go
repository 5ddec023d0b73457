package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/aggregate"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/commission_fee"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) valid() Config {
	config := DefaultConfig()
	config.DataPath = "data/mtgoxUSD.csv"

	return config
}

func (suite *ConfigTestSuite) TestDefaultConfig() {
	config := DefaultConfig()

	suite.Equal(aggregate.Interval{Count: 1, Unit: aggregate.UnitHour}, config.Interval)
	suite.Equal(1000.0, config.InitialBalance)
	suite.Equal(commission_fee.Config{Percent: 0.01, Fixed: 0}, config.Fee)
	suite.Equal(0.95, config.CloseThreshold)
	suite.Equal(time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), config.Training.Start.Unwrap())
	suite.Equal(time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC), config.Training.End.Unwrap())
	suite.Equal(time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC), config.Test.Start.Unwrap())
	suite.Equal(time.Date(2013, 10, 1, 0, 0, 0, 0, time.UTC), config.Test.End.Unwrap())
	suite.Equal([]int{10, 20, 30, 40, 50}, config.Grid.ShortPeriods)
	suite.Equal([]int{10, 20, 30, 40, 50}, config.Grid.LongOffsets)
	suite.False(config.Sequential)
}

func (suite *ConfigTestSuite) TestParseConfigOverridesDefaults() {
	content := `
version: v1.0.0
data_path: ticks.parquet
interval: 15min
initial_balance: 5000
fee:
  percent: 0.002
  fixed: 1.5
training:
  start: 2020-01-01T00:00:00Z
test:
  start: 2020-06-01
  end: 2020-09-01
grid:
  short_periods: [5, 10]
  long_offsets: [5]
sequential: true
`

	config, err := ParseConfig([]byte(content))
	suite.Require().NoError(err)

	suite.Equal("v1.0.0", config.Version)
	suite.Equal("ticks.parquet", config.DataPath)
	suite.Equal("BTCUSD", config.Symbol)
	suite.Equal(aggregate.Interval{Count: 15, Unit: aggregate.UnitMinute}, config.Interval)
	suite.Equal(5000.0, config.InitialBalance)
	suite.Equal(commission_fee.Config{Percent: 0.002, Fixed: 1.5}, config.Fee)
	suite.Equal(0.95, config.CloseThreshold)
	suite.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), config.Training.Start.Unwrap())
	suite.True(config.Training.End.IsNone())
	suite.Equal(time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC), config.Test.Start.Unwrap())
	suite.Equal(time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC), config.Test.End.Unwrap())
	suite.Equal([]int{5, 10}, config.Grid.ShortPeriods)
	suite.True(config.Sequential)
	suite.NoError(config.Validate())
}

func (suite *ConfigTestSuite) TestParseConfigInvalid() {
	_, err := ParseConfig([]byte("interval: [1, 2]"))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeBacktestConfigError, errors.GetCode(err))

	_, err = ParseConfig([]byte("interval: 5 fortnights"))
	suite.Require().Error(err)
}

func (suite *ConfigTestSuite) TestLoadConfig() {
	path := filepath.Join(suite.T().TempDir(), "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("data_path: ticks.csv\nclose_threshold: 0.9\n"), 0644))

	config, err := LoadConfig(path)
	suite.Require().NoError(err)
	suite.Equal("ticks.csv", config.DataPath)
	suite.Equal(0.9, config.CloseThreshold)

	_, err = LoadConfig(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeBacktestConfigError, errors.GetCode(err))
}

func (suite *ConfigTestSuite) TestValidate() {
	suite.NoError(suite.valid().Validate())

	tests := []struct {
		name   string
		modify func(*Config)
		code   errors.ErrorCode
	}{
		{"config for a newer engine", func(c *Config) { c.Version = "v1.99.0" }, errors.ErrCodeBacktestConfigError},
		{"missing data path", func(c *Config) { c.DataPath = "" }, errors.ErrCodeInvalidConfiguration},
		{"zero balance", func(c *Config) { c.InitialBalance = 0 }, errors.ErrCodeInvalidConfiguration},
		{"fee percent of one", func(c *Config) { c.Fee.Percent = 1 }, errors.ErrCodeInvalidFee},
		{"negative fixed fee", func(c *Config) { c.Fee.Fixed = -1 }, errors.ErrCodeInvalidFee},
		{"zero threshold", func(c *Config) { c.CloseThreshold = 0 }, errors.ErrCodeInvalidThreshold},
		{"threshold above one", func(c *Config) { c.CloseThreshold = 1.01 }, errors.ErrCodeInvalidThreshold},
		{"zero interval", func(c *Config) { c.Interval = aggregate.Interval{} }, errors.ErrCodeInvalidInterval},
		{"empty grid", func(c *Config) { c.Grid.ShortPeriods = nil }, errors.ErrCodeInvalidParameter},
		{"inverted window", func(c *Config) {
			c.Test = NewWindow(time.Date(2013, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC))
		}, errors.ErrCodeInvalidConfiguration},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			config := suite.valid()
			tt.modify(&config)

			err := config.Validate()
			suite.Require().Error(err)
			suite.Equal(tt.code, errors.GetCode(err))
		})
	}
}

func (suite *ConfigTestSuite) TestWindowYAMLRoundTrip() {
	window := Window{
		Start: optional.None[time.Time](),
		End:   optional.Some(time.Date(2013, 1, 1, 0, 0, 0, 0, time.UTC)),
	}

	data, err := yaml.Marshal(window)
	suite.Require().NoError(err)
	suite.NotContains(string(data), "start")

	var decoded Window
	suite.Require().NoError(yaml.Unmarshal(data, &decoded))
	suite.True(decoded.Start.IsNone())
	suite.Equal(window.End.Unwrap(), decoded.End.Unwrap())
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	config := &Config{}
	schemaJSON, err := config.GenerateSchemaJSON()
	suite.Require().NoError(err)

	var result map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schemaJSON), &result))
	suite.Equal("crossover-backtest-config", result["title"])

	properties, ok := result["properties"].(map[string]any)
	suite.Require().True(ok)
	suite.Contains(properties, "data_path")
	suite.Contains(properties, "close_threshold")

	interval, ok := properties["interval"].(map[string]any)
	suite.Require().True(ok)
	suite.Equal("string", interval["type"])
}
