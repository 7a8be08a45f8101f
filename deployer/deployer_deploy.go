package deployer

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	log "github.com/xlab/suplog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/pharmatrace/trackerman/artifact"
)

var (
	ErrEndpointUnreachable = errors.New("unable to dial EVM RPC endpoint")
	ErrNoChainID           = errors.New("failed to get valid Chain ID")
	ErrNoNonce             = errors.New("failed to get latest from nonce")
	ErrDeploymentFailed    = errors.New("contract deployment failed")
)

type ContractDeployOpts struct {
	From     common.Address
	FromPk   *ecdsa.PrivateKey
	SignerFn bind.SignerFn
	Await    bool
}

// Deployment is the handle to a deployed contract: its address plus the
// interface descriptor needed to call it.
type Deployment struct {
	TxHash  common.Hash
	Address common.Address
	ABI     abi.ABI
	RawABI  json.RawMessage
}

func (d *deployer) Deploy(
	ctx context.Context,
	deployOpts ContractDeployOpts,
	contract *artifact.Artifact,
	constructorInputMapper AbiMethodInputMapperFunc,
) (*Deployment, error) {
	parsedABI, err := abi.JSON(strings.NewReader(string(contract.ABI)))
	if err != nil {
		err = errors.Wrapf(err, "failed to parse %s artifact ABI", contract.ContractName)
		return nil, err
	}

	client, err := d.Backend()
	if err != nil {
		return nil, err
	}

	chainCtx, cancelFn := context.WithTimeout(context.Background(), d.options.RPCTimeout)
	defer cancelFn()

	chainId, err := client.ChainID(chainCtx)
	if err != nil {
		log.WithError(err).Errorln("failed get valid chain ID")
		return nil, ErrNoChainID
	}

	nonceCtx, cancelFn := context.WithTimeout(context.Background(), d.options.RPCTimeout)
	defer cancelFn()

	nonce, err := client.PendingNonceAt(nonceCtx, deployOpts.From)
	if err != nil {
		log.WithField("from", deployOpts.From.Hex()).WithError(err).Errorln("failed to get most recent nonce")
		return nil, ErrNoNonce
	}

	var mappedArgs []interface{}
	if constructorInputMapper != nil {
		mappedArgs = constructorInputMapper(parsedABI.Constructor.Inputs)
	}

	abiPackedArgs, err := parsedABI.Constructor.Inputs.PackValues(mappedArgs)
	if err != nil {
		err = errors.Wrap(err, "failed to ABI-encode constructor values")
		return nil, err
	}

	input := append(common.FromHex(contract.Bin()), abiPackedArgs...)

	var signerFn bind.SignerFn
	if deployOpts.SignerFn != nil {
		signerFn = deployOpts.SignerFn
	} else {
		signerFn, err = getSignerFn(d.options.SignerType, chainId, deployOpts.From, deployOpts.FromPk)
		if err != nil {
			log.WithError(err).Errorln("failed to get signer function")
			return nil, err
		}
	}

	txCtx, cancelFn := context.WithTimeout(context.Background(), d.options.RPCTimeout)
	defer cancelFn()

	ethTxOpts := &bind.TransactOpts{
		From:     deployOpts.From,
		Nonce:    big.NewInt(int64(nonce)),
		Signer:   signerFn,
		Value:    big.NewInt(0),
		GasPrice: d.options.GasPrice,
		GasLimit: d.options.GasLimit,

		Context: txCtx,
	}

	gasPriceStr := "estimated"
	if d.options.GasPrice != nil {
		gasPriceStr = d.options.GasPrice.String()
	}

	log.WithFields(log.Fields{
		"nonce":    nonce,
		"gasPrice": gasPriceStr,
		"gasLimit": d.options.GasLimit,
	}).Debugln("deploying contract", contract.ContractName)

	var txHash common.Hash
	transactFn := getTransactFn(client, common.Address{}, &txHash)

	signedTx, err := transactFn(ethTxOpts, nil, input)
	if err != nil {
		log.WithError(err).WithField("txHash", txHash.Hex()).Errorln("failed to deploy contract")
		return nil, errors.Wrap(ErrDeploymentFailed, err.Error())
	}

	deployment := &Deployment{
		TxHash:  txHash,
		Address: crypto.CreateAddress(deployOpts.From, nonce),
		ABI:     parsedABI,
		RawABI:  contract.ABI,
	}

	if deployOpts.Await {
		awaitCtx, cancelFn := context.WithTimeout(context.Background(), d.options.TxTimeout)
		defer cancelFn()

		log.WithField("txHash", txHash.Hex()).Debugln("awaiting contract deployment", deployment.Address.Hex())

		blockNum, err := awaitTx(awaitCtx, client, txHash)
		if err == ErrTransactionReverted {
			// creation reverts replay the same input with an empty To field
			reason, reasonErr := getRevertReason(ctx, deployOpts.From, nil, client, signedTx.Data(), blockNum)
			if reasonErr == nil && len(reason) > 0 {
				return nil, errors.Wrapf(ErrDeploymentFailed, "transaction reverted: %s", reason)
			}

			return nil, errors.Wrap(ErrDeploymentFailed, err.Error())
		} else if err != nil {
			return nil, errors.Wrap(ErrDeploymentFailed, err.Error())
		}
	}

	return deployment, nil
}
