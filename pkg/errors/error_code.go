package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation/configuration errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidThreshold     ErrorCode = 103
	ErrCodeInvalidPositionSize  ErrorCode = 104
	ErrCodeInvalidStopLevel     ErrorCode = 105
	ErrCodeInvalidTimeframe     ErrorCode = 106
	ErrCodeMissingParameter     ErrorCode = 107

	// Data errors (200-299)
	ErrCodeInsufficientData ErrorCode = 200
	ErrCodeDataGap          ErrorCode = 201
	ErrCodeDataNotSorted    ErrorCode = 202
	ErrCodeDataNotFound     ErrorCode = 203
	ErrCodeDataParseFailed  ErrorCode = 204
	ErrCodeQueryFailed      ErrorCode = 205

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302

	// Feature errors (400-499)
	ErrCodeFeatureNotAvailable ErrorCode = 400
	ErrCodeTimeframeMismatch   ErrorCode = 401

	// Model errors (500-599)
	ErrCodeModelPrediction ErrorCode = 500
	ErrCodeModelNotLoaded  ErrorCode = 501

	// Simulation errors (600-699)
	ErrCodeSimulationFailed    ErrorCode = 600
	ErrCodePositionAlreadyOpen ErrorCode = 601
	ErrCodeTradeLogFailed      ErrorCode = 602

	// Backtest errors (700-799)
	ErrCodeBacktestNoData      ErrorCode = 700
	ErrCodeBacktestNoPredictor ErrorCode = 701
	ErrCodeBacktestInitFailed  ErrorCode = 702
	ErrCodeBacktestCancelled   ErrorCode = 703
)
