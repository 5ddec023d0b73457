package commission_fee

// ProportionalCommissionFee charges a fraction of the balance with a fixed minimum.
type ProportionalCommissionFee struct {
	percent float64
	fixed   float64
}

func NewProportionalCommissionFee(percent, fixed float64) CommissionFee {
	return &ProportionalCommissionFee{percent: percent, fixed: fixed}
}

func (c *ProportionalCommissionFee) Calculate(balance float64) float64 {
	return max(c.percent*balance, c.fixed)
}
