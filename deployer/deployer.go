// Package deployer submits contract deployments and read-only calls to an
// EVM chain over JSON-RPC, working from pre-compiled artifacts.
package deployer

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"

	"github.com/pharmatrace/trackerman/artifact"
)

type option func(o *options) error

func New(opts ...option) (Deployer, error) {
	d := &deployer{
		options: defaultOptions(),
	}

	for _, o := range opts {
		if err := o(d.options); err != nil {
			err = errors.Wrap(err, "error in deployer option")
			return nil, err
		}
	}

	return d, nil
}

type Deployer interface {
	// Deploy submits a contract-creation transaction built from the compiled
	// artifact and, when asked to await, blocks until on-chain confirmation.
	Deploy(
		ctx context.Context,
		deployOpts ContractDeployOpts,
		contract *artifact.Artifact,
		constructorInputMapper AbiMethodInputMapperFunc,
	) (*Deployment, error)

	// Call issues a read-only call against a deployed contract.
	Call(
		ctx context.Context,
		callOpts ContractCallOpts,
		contract *artifact.Artifact,
		methodName string,
		methodInputMapper AbiMethodInputMapperFunc,
	) (output []interface{}, outputAbi abi.Arguments, err error)

	Backend() (*Client, error)
}

// AbiMethodInputMapperFunc converts raw argument values to the shape the
// method inputs expect.
type AbiMethodInputMapperFunc func(args abi.Arguments) []interface{}

type deployer struct {
	options *options

	client         *Client
	initClientOnce sync.Once
}

type options struct {
	RPCTimeout  time.Duration
	TxTimeout   time.Duration
	CallTimeout time.Duration

	EVMRPCEndpoint string
	SignerType     SignerType
	GasPrice       *big.Int
	GasLimit       uint64
}

func defaultOptions() *options {
	return &options{
		RPCTimeout:  10 * time.Second,
		TxTimeout:   30 * time.Second,
		CallTimeout: 10 * time.Second,

		EVMRPCEndpoint: "http://localhost:8545",
		SignerType:     SignerEIP155,
		GasPrice:       nil, // estimated via the RPC node
		GasLimit:       5000000,
	}
}

func OptionRPCTimeout(dur time.Duration) option {
	return func(o *options) error {
		if dur > time.Millisecond {
			o.RPCTimeout = dur
		}

		return nil
	}
}

func OptionTxTimeout(dur time.Duration) option {
	return func(o *options) error {
		if dur > time.Millisecond {
			o.TxTimeout = dur
		}

		return nil
	}
}

func OptionCallTimeout(dur time.Duration) option {
	return func(o *options) error {
		if dur > time.Millisecond {
			o.CallTimeout = dur
		}

		return nil
	}
}

func OptionEVMRPCEndpoint(endpoint string) option {
	return func(o *options) error {
		if len(endpoint) == 0 {
			return errors.New("empty EVM RPC endpoint provided")
		}

		o.EVMRPCEndpoint = endpoint
		return nil
	}
}

func OptionSignerType(signerType SignerType) option {
	return func(o *options) error {
		if len(signerType) == 0 {
			return errors.New("signer type not specified")
		}

		o.SignerType = signerType
		return nil
	}
}

func OptionGasPrice(price *big.Int) option {
	return func(o *options) error {
		if price != nil {
			o.GasPrice = price
		}

		return nil
	}
}

func OptionGasLimit(gasLimit uint64) option {
	return func(o *options) error {
		if gasLimit < 21000 {
			return errors.New("gas limit too low")
		}

		o.GasLimit = gasLimit
		return nil
	}
}
