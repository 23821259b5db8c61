package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeNoProviderFound:          "No injected or fallback provider is available",
	CodeEthereumConnectionFailed: "Failed to connect to Ethereum node",
	CodeEthereumRPCError:         "Ethereum RPC call failed",

	CodeArtifactNotFound: "Contract artifact not found",
	CodeInvalidArtifact:  "Contract artifact is malformed",

	CodeContractNotDeployedOnNetwork: "Contract is not deployed on the current network",
	CodeMethodNotFound:               "Method is not part of the contract interface",
	CodeCallRejected:                 "Contract call was rejected",

	CodeNoAccountsAvailable: "Provider returned no accounts",

	CodeSessionAbandoned: "Session was abandoned before completion",

	CodeRateLimitExceeded: "Rate limit exceeded",
	CodeCircuitOpen:       "Circuit breaker is open",
}
