package main

import (
	"fmt"
	"math/big"
	"strings"
	"syscall"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	ethcmn "github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	cli "github.com/jawher/mow.cli"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/pharmatrace/trackerman/keystore"
)

var (
	keystoreDir = app.String(cli.StringOpt{
		Name:   "keystore-dir",
		Desc:   "Specify Ethereum keystore dir (Geth format) prefix.",
		EnvVar: "TRACKERMAN_KEYSTORE_DIR",
	})

	from = app.String(cli.StringOpt{
		Name:   "F from",
		Desc:   "Specify the from address. If specified, must exist in keystore or match the privkey.",
		EnvVar: "TRACKERMAN_FROM",
	})

	fromPassphrase = app.String(cli.StringOpt{
		Name:   "from-passphrase",
		Desc:   "Passphrase to unlock the keystore key, if empty then stdin is used.",
		EnvVar: "TRACKERMAN_FROM_PASSPHRASE",
	})

	fromPrivKey = app.String(cli.StringOpt{
		Name:   "P from-pk",
		Desc:   "Provide a raw Ethereum private key of the deployer in hex.",
		EnvVar: "TRACKERMAN_FROM_PK",
	})
)

// ErrNoSignerAvailable marks a run without any usable deployer identity.
var ErrNoSignerAvailable = errors.New("no signer available: provide a private key or a keystore dir")

var emptyEthAddress = ethcmn.Address{}

// resolveSigner obtains the deployer identity from the configured key
// material. A raw private key takes precedence over the keystore.
func resolveSigner(chainID uint64) (fromAddress ethcmn.Address, signerFn bind.SignerFn, err error) {
	switch {
	case len(*fromPrivKey) > 0:
		pkHex := strings.TrimPrefix(*fromPrivKey, "0x")
		ethPk, err := ethcrypto.HexToECDSA(pkHex)
		if err != nil {
			err = errors.Wrap(err, "failed to hex-decode Ethereum ECDSA Private Key")
			return emptyEthAddress, nil, err
		}

		addressFromPk := ethcrypto.PubkeyToAddress(ethPk.PublicKey)

		if len(*from) > 0 {
			addr := ethcmn.HexToAddress(*from)
			if addr != addressFromPk {
				err = errors.Errorf("from address %s does not match address %s from ECDSA Private Key", addr.Hex(), addressFromPk.Hex())
				return emptyEthAddress, nil, err
			}
		}

		txOpts, err := bind.NewKeyedTransactorWithChainID(ethPk, new(big.Int).SetUint64(chainID))
		if err != nil {
			err = errors.Wrap(err, "failed to init NewKeyedTransactorWithChainID")
			return emptyEthAddress, nil, err
		}

		return txOpts.From, txOpts.Signer, nil

	case len(*keystoreDir) > 0:
		ks, err := keystore.New(*keystoreDir)
		if err != nil {
			err = errors.Wrap(err, "failed to load keystore")
			return emptyEthAddress, nil, err
		}

		// with no explicit from address, the first keystore account signs
		if len(*from) > 0 {
			fromAddress = ethcmn.HexToAddress(*from)
		} else {
			accs := ks.Accounts()
			if len(accs) == 0 {
				return emptyEthAddress, nil, ErrNoSignerAvailable
			}

			fromAddress = accs[0]
		}

		var pass string
		if len(*fromPassphrase) > 0 {
			pass = *fromPassphrase
		} else {
			pass, err = ethPassFromStdin()
			if err != nil {
				return emptyEthAddress, nil, err
			}
		}

		signerFn, err := ks.SignerFn(chainID, fromAddress, pass)
		if err != nil {
			err = errors.Wrapf(err, "failed to load key for %s", fromAddress.Hex())
			return emptyEthAddress, nil, err
		}

		return fromAddress, signerFn, nil

	default:
		return emptyEthAddress, nil, ErrNoSignerAvailable
	}
}

func ethPassFromStdin() (string, error) {
	fmt.Print("Passphrase for Ethereum account: ")
	bytePassword, err := terminal.ReadPassword(int(syscall.Stdin))
	if err != nil {
		err := errors.Wrap(err, "failed to read password from stdin")
		return "", err
	}

	password := string(bytePassword)
	return strings.TrimSpace(password), nil
}
