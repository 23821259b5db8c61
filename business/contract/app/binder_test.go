package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fd1az/casino-dapp/business/contract/domain"
	wallet "github.com/fd1az/casino-dapp/business/wallet/domain"
	"github.com/fd1az/casino-dapp/internal/apperror"
	"github.com/fd1az/casino-dapp/internal/logger"
)

const casinoABI = `[
	{"type":"function","name":"joinGame","inputs":[],"outputs":[{"name":"","type":"bool"}],"stateMutability":"view"},
	{"type":"function","name":"seats","inputs":[{"name":"table","type":"uint8"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"}
]`

type rpcDataError struct {
	msg  string
	data any
}

func (e *rpcDataError) Error() string  { return e.msg }
func (e *rpcDataError) ErrorCode() int { return 3 }
func (e *rpcDataError) ErrorData() any { return e.data }

type fakeCaller struct {
	network wallet.NetworkID
	netErr  error
	out     []byte
	callErr error
	calls   []wallet.CallMsg
}

func (f *fakeCaller) NetworkID(ctx context.Context) (wallet.NetworkID, error) {
	return f.network, f.netErr
}

func (f *fakeCaller) Call(ctx context.Context, msg wallet.CallMsg) ([]byte, error) {
	f.calls = append(f.calls, msg)
	return f.out, f.callErr
}

func casinoArtifact(t *testing.T) *domain.ContractArtifact {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(casinoABI))
	require.NoError(t, err)

	return &domain.ContractArtifact{
		Name: "Casino",
		ABI:  parsed,
		Networks: map[wallet.NetworkID]domain.Deployment{
			"5777": {Address: common.HexToAddress("0xABC")},
		},
	}
}

func revertData(t *testing.T, reason string) string {
	t.Helper()
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	return hexutil.Encode(append([]byte{0x08, 0xc3, 0x79, 0xa0}, packed...))
}

func TestBind_ResolvesAddressForNetwork(t *testing.T) {
	caller := &fakeCaller{network: "5777"}
	h, err := NewContractBinder(logger.NewNop()).Bind(context.Background(), caller, casinoArtifact(t))
	require.NoError(t, err)

	assert.Equal(t, common.HexToAddress("0xABC"), h.Address())
	assert.Equal(t, wallet.NetworkID("5777"), h.Network())
	assert.Equal(t, "Casino", h.Name())
	assert.Len(t, h.Methods(), 2)
}

func TestBind_NotDeployed(t *testing.T) {
	tests := []struct {
		name   string
		caller *fakeCaller
	}{
		{name: "unknown network", caller: &fakeCaller{network: "1"}},
		{name: "network unreadable", caller: &fakeCaller{netErr: errors.New("timeout")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewContractBinder(logger.NewNop()).Bind(context.Background(), tt.caller, casinoArtifact(t))

			assert.Nil(t, h)
			assert.True(t, apperror.HasCode(err, apperror.CodeContractNotDeployedOnNetwork))
		})
	}
}

func TestHandle_Call(t *testing.T) {
	artifact := casinoArtifact(t)
	out, err := artifact.ABI.Methods["joinGame"].Outputs.Pack(true)
	require.NoError(t, err)

	caller := &fakeCaller{network: "5777", out: out}
	h, err := NewContractBinder(logger.NewNop()).Bind(context.Background(), caller, artifact)
	require.NoError(t, err)

	from := common.HexToAddress("0x1")
	res, err := h.Call(context.Background(), "joinGame", CallOpts{From: from})
	require.NoError(t, err)

	assert.Equal(t, []any{true}, res)
	require.Len(t, caller.calls, 1)
	assert.Equal(t, from, caller.calls[0].From)
	assert.Equal(t, common.HexToAddress("0xABC"), caller.calls[0].To)
	assert.Equal(t, artifact.ABI.Methods["joinGame"].ID, caller.calls[0].Data)
}

func TestHandle_MethodNotFound(t *testing.T) {
	caller := &fakeCaller{network: "5777"}
	h, err := NewContractBinder(logger.NewNop()).Bind(context.Background(), caller, casinoArtifact(t))
	require.NoError(t, err)

	_, err = h.Call(context.Background(), "leaveGame", CallOpts{})

	assert.True(t, apperror.HasCode(err, apperror.CodeMethodNotFound))
	assert.Empty(t, caller.calls, "unknown methods never reach the node")
}

func TestHandle_InvalidArguments(t *testing.T) {
	caller := &fakeCaller{network: "5777"}
	h, err := NewContractBinder(logger.NewNop()).Bind(context.Background(), caller, casinoArtifact(t))
	require.NoError(t, err)

	_, err = h.Call(context.Background(), "seats", CallOpts{}, "not a uint8")

	assert.True(t, apperror.HasCode(err, apperror.CodeInvalidInput))
	assert.Empty(t, caller.calls)
}

func TestHandle_CallRejected(t *testing.T) {
	tests := []struct {
		name    string
		callErr error
		reason  string
	}{
		{
			name:    "solidity revert reason",
			callErr: &rpcDataError{msg: "execution reverted", data: revertData(t, "table closed")},
			reason:  "table closed",
		},
		{
			name:    "revert without payload",
			callErr: &rpcDataError{msg: "execution reverted", data: "0x"},
			reason:  "execution reverted",
		},
		{
			name:    "plain node error",
			callErr: apperror.External(apperror.CodeEthereumRPCError, "eth_call", errors.New("out of gas")),
			reason:  "out of gas",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &fakeCaller{network: "5777", callErr: tt.callErr}
			h, err := NewContractBinder(logger.NewNop()).Bind(context.Background(), caller, casinoArtifact(t))
			require.NoError(t, err)

			_, err = h.Call(context.Background(), "joinGame", CallOpts{})

			require.Error(t, err)
			assert.True(t, apperror.HasCode(err, apperror.CodeCallRejected))
			assert.Equal(t, tt.reason, RevertReason(err))
		})
	}
}
