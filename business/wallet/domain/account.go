package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// AccountSet is the ordered list of accounts controlled by a provider.
// The first account is the active one.
type AccountSet struct {
	accounts []common.Address
}

// NewAccountSet copies accounts into a set. It does not reject empty input;
// callers decide whether an empty set is an error.
func NewAccountSet(accounts []common.Address) AccountSet {
	cp := make([]common.Address, len(accounts))
	copy(cp, accounts)
	return AccountSet{accounts: cp}
}

// Active returns the designated account (element 0).
func (s AccountSet) Active() common.Address {
	if len(s.accounts) == 0 {
		return common.Address{}
	}
	return s.accounts[0]
}

// All returns a copy of every account in provider order.
func (s AccountSet) All() []common.Address {
	cp := make([]common.Address, len(s.accounts))
	copy(cp, s.accounts)
	return cp
}

// Len returns the number of accounts.
func (s AccountSet) Len() int {
	return len(s.accounts)
}

// IsEmpty reports whether the provider exposed no accounts.
func (s AccountSet) IsEmpty() bool {
	return len(s.accounts) == 0
}
