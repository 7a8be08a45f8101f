package main

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, solType string) abi.Type {
	typ, err := abi.NewType(solType, "", nil)
	require.NoError(t, err)
	return typ
}

func TestMapStringArgs(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	inputs := abi.Arguments{
		{Name: "owner", Type: mustType(t, "address")},
		{Name: "name", Type: mustType(t, "string")},
		{Name: "count", Type: mustType(t, "uint256")},
		{Name: "decimals", Type: mustType(t, "uint8")},
		{Name: "enabled", Type: mustType(t, "bool")},
	}

	out, err := mapStringArgs(inputs, []string{
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		"PharmaTracker",
		"1000000000000000000",
		"18",
		"true",
	})
	require.NoError(err)
	require.Len(out, 5)

	assert.Equal(common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), out[0])
	assert.Equal("PharmaTracker", out[1])

	expected, _ := new(big.Int).SetString("1000000000000000000", 10)
	assert.Equal(expected, out[2])
	assert.Equal(uint8(18), out[3])
	assert.Equal(true, out[4])
}

func TestMapStringArgsCountMismatch(t *testing.T) {
	assert := assert.New(t)

	inputs := abi.Arguments{
		{Name: "owner", Type: mustType(t, "address")},
	}

	_, err := mapStringArgs(inputs, []string{"0x0", "extra"})
	assert.Error(err)
}

func TestMapStringArgsEmpty(t *testing.T) {
	assert := assert.New(t)

	out, err := mapStringArgs(abi.Arguments{}, []string{})
	assert.NoError(err)
	assert.Nil(out)
}

func TestMapStringArgsFixedBytes(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	inputs := abi.Arguments{
		{Name: "batchHash", Type: mustType(t, "bytes32")},
		{Name: "payload", Type: mustType(t, "bytes")},
	}

	hashHex := "0x00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff"

	out, err := mapStringArgs(inputs, []string{hashHex, "0xdeadbeef"})
	require.NoError(err)
	require.Len(out, 2)

	var expected [32]byte
	copy(expected[:], common.FromHex(hashHex))
	assert.Equal(expected, out[0])
	assert.Equal(common.FromHex("0xdeadbeef"), out[1])

	// packing must accept the mapped values as-is
	_, err = inputs.PackValues(out)
	assert.NoError(err)
}

func TestMapStringArgsFixedBytesWrongLength(t *testing.T) {
	assert := assert.New(t)

	inputs := abi.Arguments{
		{Name: "batchHash", Type: mustType(t, "bytes32")},
	}

	_, err := mapStringArgs(inputs, []string{"0xdeadbeef"})
	assert.Error(err)
}

func TestMapStringArgsBadNumber(t *testing.T) {
	assert := assert.New(t)

	inputs := abi.Arguments{
		{Name: "count", Type: mustType(t, "uint64")},
	}

	_, err := mapStringArgs(inputs, []string{"not-a-number"})
	assert.Error(err)
}
