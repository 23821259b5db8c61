// Package domain contains the core domain types for the wallet context.
package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// NetworkID identifies the network a provider is connected to, as reported by
// net_version. It is the key used by contract artifacts for deployed addresses.
type NetworkID string

// NetworkIDFromBig converts a numeric network id.
func NetworkIDFromBig(id *big.Int) NetworkID {
	if id == nil {
		return ""
	}
	return NetworkID(id.String())
}

// String implements fmt.Stringer.
func (n NetworkID) String() string {
	return string(n)
}

// Transport tells how a provider was obtained.
type Transport string

const (
	// TransportInjected is a wallet or signer supplied by the host environment.
	TransportInjected Transport = "injected"
	// TransportFallback is the local development node.
	TransportFallback Transport = "fallback"
)

// CallMsg is a read-only call request.
type CallMsg struct {
	From common.Address
	To   common.Address
	Data []byte
}
