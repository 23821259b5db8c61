package domain

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wallet "github.com/fd1az/casino-dapp/business/wallet/domain"
)

const casinoABI = `[
	{"type":"function","name":"joinGame","inputs":[],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
	{"type":"function","name":"bet","inputs":[{"name":"amount","type":"uint256"}],"outputs":[],"stateMutability":"payable"}
]`

func newArtifact(t *testing.T) *ContractArtifact {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(casinoABI))
	require.NoError(t, err)

	return &ContractArtifact{
		Name: "Casino",
		ABI:  parsed,
		Networks: map[wallet.NetworkID]Deployment{
			"5777": {Address: common.HexToAddress("0xABC")},
			"1":    {},
		},
	}
}

func TestContractArtifact_DeploymentOn(t *testing.T) {
	a := newArtifact(t)

	d, ok := a.DeploymentOn("5777")
	require.True(t, ok)
	assert.Equal(t, common.HexToAddress("0xABC"), d.Address)

	_, ok = a.DeploymentOn("1")
	assert.False(t, ok, "zero address is not a deployment")

	_, ok = a.DeploymentOn("3")
	assert.False(t, ok)
}

func TestContractArtifact_Methods(t *testing.T) {
	a := newArtifact(t)

	assert.True(t, a.HasMethod("joinGame"))
	assert.False(t, a.HasMethod("leaveGame"))

	methods := a.Methods()
	require.Len(t, methods, 2)
	assert.Equal(t, Method{Name: "bet", Inputs: []string{"uint256"}, Outputs: []string{}, Constant: false}, methods[0])
	assert.Equal(t, Method{Name: "joinGame", Inputs: []string{}, Outputs: []string{"bool"}, Constant: true}, methods[1])
}

func TestContractArtifact_NetworkIDs(t *testing.T) {
	assert.Equal(t, []wallet.NetworkID{"1", "5777"}, newArtifact(t).NetworkIDs())
}
