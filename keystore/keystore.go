// Package keystore resolves transaction signers from an encrypted Ethereum
// keystore directory (Geth format).
package keystore

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethkeystore "github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

var ErrKeyNotFound = errors.New("key not found in keystore")

type Keystore struct {
	ks *ethkeystore.KeyStore
}

func New(dir string) (*Keystore, error) {
	if len(dir) == 0 {
		return nil, errors.New("empty keystore dir provided")
	}

	return &Keystore{
		ks: ethkeystore.NewKeyStore(dir, ethkeystore.StandardScryptN, ethkeystore.StandardScryptP),
	}, nil
}

// Accounts lists the addresses present in the keystore dir.
func (k *Keystore) Accounts() []common.Address {
	accs := k.ks.Accounts()
	addresses := make([]common.Address, 0, len(accs))
	for _, acc := range accs {
		addresses = append(addresses, acc.Address)
	}

	return addresses
}

// SignerFn returns a bind.SignerFn bound to the given account, unlocking the
// key with the passphrase on each signature.
func (k *Keystore) SignerFn(chainID uint64, from common.Address, passphrase string) (bind.SignerFn, error) {
	acc, err := k.ks.Find(accounts.Account{Address: from})
	if err != nil {
		return nil, ErrKeyNotFound
	}

	chainIDInt := new(big.Int).SetUint64(chainID)

	signerFn := func(address common.Address, tx *types.Transaction) (*types.Transaction, error) {
		if address != from {
			return nil, errors.Errorf("not authorized to sign with %s", address.Hex())
		}

		return k.ks.SignTxWithPassphrase(acc, passphrase, tx, chainIDInt)
	}

	return signerFn, nil
}
