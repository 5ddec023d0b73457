package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeInvalidInterval      ErrorCode = 105
	ErrCodeInvalidThreshold     ErrorCode = 106
	ErrCodeInvalidFee           ErrorCode = 107

	// Data errors (200-299)
	ErrCodeEmptyInput            ErrorCode = 200
	ErrCodeDataIntegrity         ErrorCode = 201
	ErrCodeDataSourceUnavailable ErrorCode = 202
	ErrCodeQueryFailed           ErrorCode = 203
	ErrCodeNoDataFound           ErrorCode = 204
	ErrCodeTimestampNotFound     ErrorCode = 205

	// Search errors (400-499)
	ErrCodeNoValidCandidates ErrorCode = 400

	// Backtest errors (600-699)
	ErrCodeBacktestConfigError  ErrorCode = 600
	ErrCodeBacktestNoDatasource ErrorCode = 601
	ErrCodeBacktestNoDataPath   ErrorCode = 602
	ErrCodeWriteFailed          ErrorCode = 603
)
