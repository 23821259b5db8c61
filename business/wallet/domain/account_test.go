package domain

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestAccountSet_ActiveIsFirst(t *testing.T) {
	in := []common.Address{common.HexToAddress("0x1"), common.HexToAddress("0x2")}
	set := NewAccountSet(in)

	assert.Equal(t, common.HexToAddress("0x1"), set.Active())
	assert.Equal(t, 2, set.Len())

	// mutating the input or the copy must not leak into the set
	in[0] = common.HexToAddress("0x9")
	all := set.All()
	all[0] = common.HexToAddress("0x8")
	assert.Equal(t, common.HexToAddress("0x1"), set.Active())
}

func TestAccountSet_Empty(t *testing.T) {
	set := NewAccountSet(nil)
	assert.True(t, set.IsEmpty())
	assert.Equal(t, common.Address{}, set.Active())
}

func TestNetworkIDFromBig(t *testing.T) {
	assert.Equal(t, NetworkID("5777"), NetworkIDFromBig(big.NewInt(5777)))
	assert.Equal(t, NetworkID(""), NetworkIDFromBig(nil))
}
