package app

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/fd1az/casino-dapp/business/casino/domain"
	contractApp "github.com/fd1az/casino-dapp/business/contract/app"
	walletDomain "github.com/fd1az/casino-dapp/business/wallet/domain"
)

// ConnectionState is the published view of a game client. Exactly one phase
// holds; Handle and Account are set only when Ready, Failure only when Failed.
type ConnectionState struct {
	Phase     domain.Phase
	Session   uint64
	Transport walletDomain.Transport
	Handle    *contractApp.ContractHandle
	Account   common.Address
	Failure   *domain.Failure
	At        time.Time
}

// IsReady reports whether the session completed.
func (s ConnectionState) IsReady() bool {
	return s.Phase == domain.PhaseReady
}
