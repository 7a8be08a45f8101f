package deployer

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	log "github.com/xlab/suplog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	"github.com/pharmatrace/trackerman/artifact"
)

var ErrMethodNotFound = errors.New("method not found in contract ABI")

type ContractCallOpts struct {
	From     common.Address
	Contract common.Address
}

func (d *deployer) Call(
	ctx context.Context,
	callOpts ContractCallOpts,
	contract *artifact.Artifact,
	methodName string,
	methodInputMapper AbiMethodInputMapperFunc,
) (output []interface{}, outputAbi abi.Arguments, err error) {
	parsedABI, err := abi.JSON(strings.NewReader(string(contract.ABI)))
	if err != nil {
		err = errors.Wrapf(err, "failed to parse %s artifact ABI", contract.ContractName)
		return nil, nil, err
	}

	method, ok := parsedABI.Methods[methodName]
	if !ok {
		log.WithField("contract", contract.ContractName).Errorf("method not found: %s", methodName)
		return nil, nil, ErrMethodNotFound
	}

	var mappedArgs []interface{}
	if methodInputMapper != nil {
		mappedArgs = methodInputMapper(method.Inputs)
	}

	client, err := d.Backend()
	if err != nil {
		return nil, nil, err
	}

	boundContract := bind.NewBoundContract(callOpts.Contract, parsedABI, client.Client, client.Client, client.Client)

	callCtx, cancelFn := context.WithTimeout(context.Background(), d.options.CallTimeout)
	defer cancelFn()

	ethCallOpts := &bind.CallOpts{
		From:    callOpts.From,
		Context: callCtx,
	}

	if err := boundContract.Call(ethCallOpts, &output, methodName, mappedArgs...); err != nil {
		err = errors.Wrap(err, "failed to call contract method")
		return nil, nil, err
	}

	return output, method.Outputs, nil
}
