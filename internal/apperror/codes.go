package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Connection-and-binding error codes
const (
	// Provider resolution
	CodeNoProviderFound          Code = "NO_PROVIDER_FOUND"
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"

	// Artifacts
	CodeArtifactNotFound Code = "ARTIFACT_NOT_FOUND"
	CodeInvalidArtifact  Code = "INVALID_ARTIFACT"

	// Binding and calls
	CodeContractNotDeployedOnNetwork Code = "CONTRACT_NOT_DEPLOYED_ON_NETWORK"
	CodeMethodNotFound               Code = "METHOD_NOT_FOUND"
	CodeCallRejected                 Code = "CALL_REJECTED"

	// Accounts
	CodeNoAccountsAvailable Code = "NO_ACCOUNTS_AVAILABLE"

	// Session lifecycle
	CodeSessionAbandoned Code = "SESSION_ABANDONED"

	// Resilience
	CodeRateLimitExceeded Code = "RATE_LIMIT_EXCEEDED"
	CodeCircuitOpen       Code = "CIRCUIT_OPEN"
)
