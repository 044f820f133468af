package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeOperationCancelled:   "Operation cancelled by caller",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Identifier and route errors
	CodeInvalidIdentifier:    "Invalid entity identifier",
	CodeFeeCountMismatch:     "Fee tier count does not match route length",
	CodeInvalidRoute:         "Invalid swap route",
	CodeInvalidFeeTier:       "Unknown fee tier",
	CodeTokenNotFound:        "Token not found",
	CodeUnsupportedOperation: "Operation not supported",

	// Ledger errors
	CodeLedgerConnectionFailed: "Failed to connect to JSON-RPC relay",
	CodeLedgerRPCError:         "JSON-RPC call failed",
	CodeInvalidCredential:      "Invalid signing credential",
	CodeGasEstimationFailed:    "Gas estimation failed",
	CodeTransactionRejected:    "Transaction rejected by node",
	CodeTransactionReverted:    "Transaction reverted",
	CodeConfirmationTimeout:    "Transaction receipt not observed before timeout",

	// Quoter / router errors
	CodeQuoteFailed:               "Quote failed",
	CodeInvalidQuote:              "Invalid quote data",
	CodeContractCallFailed:        "Smart contract call failed",
	CodeEncodingFailed:            "Failed to encode contract call",
	CodeInsufficientAuthorization: "Router allowance is insufficient",
	CodeApprovalFailed:            "Token approval failed",

	// Mirror node errors
	CodeMirrorNodeError: "Mirror node request failed",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
