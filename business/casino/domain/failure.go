package domain

import "fmt"

// FailureKind names the step a session failed at.
type FailureKind string

const (
	FailureNoProviderFound              FailureKind = "NoProviderFound"
	FailureArtifactNotFound             FailureKind = "ArtifactNotFound"
	FailureContractNotDeployedOnNetwork FailureKind = "ContractNotDeployedOnNetwork"
	FailureNoAccountsAvailable          FailureKind = "NoAccountsAvailable"
	FailureMethodNotFound               FailureKind = "MethodNotFound"
	FailureCallRejected                 FailureKind = "CallRejected"
)

// Failure is the terminal error of a session.
type Failure struct {
	Kind   FailureKind
	Reason string // revert reason or node message for CallRejected
	Err    error
}

// Error implements error.
func (f *Failure) Error() string {
	if f.Reason != "" {
		return fmt.Sprintf("%s(%s)", f.Kind, f.Reason)
	}
	return string(f.Kind)
}

// Unwrap returns the underlying cause.
func (f *Failure) Unwrap() error {
	return f.Err
}
