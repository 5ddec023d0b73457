package mocks

//go:generate mockgen -destination=./mock_tick_source.go -package=mocks github.com/rxtech-lab/argo-crossover/internal/backtest/datasource TickSource
//go:generate mockgen -destination=./mock_commission_fee.go -package=mocks github.com/rxtech-lab/argo-crossover/internal/backtest/commission_fee CommissionFee
