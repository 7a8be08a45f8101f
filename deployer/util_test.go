package deployer

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPkHex = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestGetSignerFnEIP155(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	pk, err := crypto.HexToECDSA(testPkHex)
	require.NoError(err)
	from := crypto.PubkeyToAddress(pk.PublicKey)
	chainId := big.NewInt(1337)

	signerFn, err := getSignerFn(SignerEIP155, chainId, from, pk)
	require.NoError(err)

	tx := types.NewContractCreation(0, big.NewInt(0), 21000, big.NewInt(1), nil)
	signedTx, err := signerFn(from, tx)
	require.NoError(err)

	sender, err := types.Sender(types.NewEIP155Signer(chainId), signedTx)
	require.NoError(err)
	assert.Equal(from, sender)

	// signing for a foreign address must be refused
	other := common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	_, err = signerFn(other, tx)
	assert.Error(err)
}

func TestGetSignerFnHomestead(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	pk, err := crypto.HexToECDSA(testPkHex)
	require.NoError(err)
	from := crypto.PubkeyToAddress(pk.PublicKey)

	signerFn, err := getSignerFn(SignerHomestead, big.NewInt(1337), from, pk)
	require.NoError(err)

	tx := types.NewContractCreation(0, big.NewInt(0), 21000, big.NewInt(1), nil)
	signedTx, err := signerFn(from, tx)
	require.NoError(err)

	sender, err := types.Sender(types.HomesteadSigner{}, signedTx)
	require.NoError(err)
	assert.Equal(from, sender)
}

func TestGetSignerFnInvalid(t *testing.T) {
	assert := assert.New(t)

	pk, _ := crypto.HexToECDSA(testPkHex)
	from := crypto.PubkeyToAddress(pk.PublicKey)

	_, err := getSignerFn(SignerEIP155, big.NewInt(1337), from, nil)
	assert.Error(err)

	_, err = getSignerFn(SignerType("ed25519"), big.NewInt(1337), from, pk)
	assert.Error(err)
}
