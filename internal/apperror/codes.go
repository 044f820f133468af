package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"
	CodeOperationCancelled   Code = "OPERATION_CANCELLED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Swap engine error codes
const (
	// Identifier and route errors
	CodeInvalidIdentifier    Code = "INVALID_IDENTIFIER"
	CodeFeeCountMismatch     Code = "FEE_COUNT_MISMATCH"
	CodeInvalidRoute         Code = "INVALID_ROUTE"
	CodeInvalidFeeTier       Code = "INVALID_FEE_TIER"
	CodeTokenNotFound        Code = "TOKEN_NOT_FOUND"
	CodeUnsupportedOperation Code = "UNSUPPORTED_OPERATION"

	// Ledger errors
	CodeLedgerConnectionFailed Code = "LEDGER_CONNECTION_FAILED"
	CodeLedgerRPCError         Code = "LEDGER_RPC_ERROR"
	CodeInvalidCredential      Code = "INVALID_CREDENTIAL"
	CodeGasEstimationFailed    Code = "GAS_ESTIMATION_FAILED"
	CodeTransactionRejected    Code = "TRANSACTION_REJECTED"
	CodeTransactionReverted    Code = "TRANSACTION_REVERTED"
	CodeConfirmationTimeout    Code = "CONFIRMATION_TIMEOUT"

	// Quoter / router errors
	CodeQuoteFailed               Code = "QUOTE_FAILED"
	CodeInvalidQuote              Code = "INVALID_QUOTE"
	CodeContractCallFailed        Code = "CONTRACT_CALL_FAILED"
	CodeEncodingFailed            Code = "ENCODING_FAILED"
	CodeInsufficientAuthorization Code = "INSUFFICIENT_AUTHORIZATION"
	CodeApprovalFailed            Code = "APPROVAL_FAILED"

	// Mirror node errors
	CodeMirrorNodeError Code = "MIRROR_NODE_ERROR"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
