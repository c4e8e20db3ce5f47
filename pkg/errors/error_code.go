package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation and configuration errors (100-199)
	ErrCodeInvalidParameter      ErrorCode = 100
	ErrCodeInvalidConfiguration  ErrorCode = 101
	ErrCodeInvalidInitialCapital ErrorCode = 102
	ErrCodeUnsupportedVersion    ErrorCode = 103
	ErrCodeMissingParameter      ErrorCode = 104

	// Data errors (200-299)
	ErrCodeDataUnavailable     ErrorCode = 200
	ErrCodeSnapshotMissing     ErrorCode = 201
	ErrCodeInsufficientHistory ErrorCode = 202

	// Model errors (300-399)
	ErrCodeInvalidWeightState ErrorCode = 300

	// Strategy errors (400-499)
	ErrCodeStrategyHalted  ErrorCode = 400
	ErrCodeUnknownStrategy ErrorCode = 401

	// Ledger and trading errors (500-599)
	ErrCodeInsufficientBalance      ErrorCode = 500
	ErrCodePositionExists           ErrorCode = 501
	ErrCodePositionNotFound         ErrorCode = 502
	ErrCodeLedgerInvariantViolation ErrorCode = 503
	ErrCodeOrderRejected            ErrorCode = 504
	ErrCodeCloseHookFailed          ErrorCode = 505

	// Exchange errors (600-699)
	ErrCodeExchangeRequestFailed ErrorCode = 600
	ErrCodeUnsupportedExchange   ErrorCode = 601

	// Journal errors (700-799)
	ErrCodeJournalWriteFailed ErrorCode = 700
)
