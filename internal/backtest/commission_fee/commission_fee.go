package commission_fee

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// CommissionFee computes the fee charged when a position is entered.
type CommissionFee interface {
	// Calculate returns the fee for entering a position with the given account balance.
	Calculate(balance float64) float64
}

// Config is the fee model: the larger of Percent of the balance and Fixed is
// charged once per position.
type Config struct {
	Percent float64 `yaml:"percent" json:"percent" validate:"gte=0,lt=1" jsonschema:"title=Fee Percent,description=Fraction of the balance charged per position,minimum=0,exclusiveMaximum=1"`
	Fixed   float64 `yaml:"fixed" json:"fixed" validate:"gte=0" jsonschema:"title=Fixed Fee,description=Minimum fee charged per position,minimum=0"`
}

// DefaultConfig charges 1% per position with no minimum.
func DefaultConfig() Config {
	return Config{Percent: 0.01, Fixed: 0}
}

// Validate checks Percent is in [0, 1) and Fixed is not negative.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFee, "invalid fee configuration", err)
	}

	return nil
}

// Handler returns the CommissionFee implementing this configuration.
func (c Config) Handler() CommissionFee {
	if c.Percent == 0 && c.Fixed == 0 {
		return NewZeroCommissionFee()
	}

	return NewProportionalCommissionFee(c.Percent, c.Fixed)
}
