// Package domain contains the core domain types for the contract context.
package domain

import (
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	wallet "github.com/fd1az/casino-dapp/business/wallet/domain"
)

// Deployment is a contract instance on one network.
type Deployment struct {
	Address common.Address
}

// Method describes one entry of a contract interface.
type Method struct {
	Name     string
	Inputs   []string // solidity type names
	Outputs  []string
	Constant bool // view or pure
}

// ContractArtifact is the compiled description of a contract: its interface and
// its deployed address per network. Immutable after load.
type ContractArtifact struct {
	Name     string
	ABI      abi.ABI
	Networks map[wallet.NetworkID]Deployment
}

// DeploymentOn returns the deployment recorded for network id. Zero addresses
// count as not deployed.
func (a *ContractArtifact) DeploymentOn(id wallet.NetworkID) (Deployment, bool) {
	d, ok := a.Networks[id]
	if !ok || d.Address == (common.Address{}) {
		return Deployment{}, false
	}
	return d, true
}

// HasMethod reports whether the interface declares name.
func (a *ContractArtifact) HasMethod(name string) bool {
	_, ok := a.ABI.Methods[name]
	return ok
}

// Methods lists the declared interface, sorted by name.
func (a *ContractArtifact) Methods() []Method {
	out := make([]Method, 0, len(a.ABI.Methods))
	for _, m := range a.ABI.Methods {
		out = append(out, Method{
			Name:     m.Name,
			Inputs:   typeNames(m.Inputs),
			Outputs:  typeNames(m.Outputs),
			Constant: m.IsConstant(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// NetworkIDs lists the networks the contract is deployed on, sorted.
func (a *ContractArtifact) NetworkIDs() []wallet.NetworkID {
	out := make([]wallet.NetworkID, 0, len(a.Networks))
	for id := range a.Networks {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func typeNames(args abi.Arguments) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Type.String()
	}
	return out
}
