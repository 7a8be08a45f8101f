package main

import (
	"context"
	"encoding/json"
	"fmt"

	cli "github.com/jawher/mow.cli"
	log "github.com/xlab/suplog"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/pharmatrace/trackerman/deployer"
)

func onCall(cmd *cli.Cmd) {
	contractAddress := cmd.StringArg("ADDRESS", "", "Contract address to interact with.")
	methodName := cmd.StringArg("METHOD", "", "Contract method to call.")
	methodArgs := cmd.StringsArg("ARGS", []string{}, "Method call arguments. Will be ABI-encoded.")
	fromAddress := cmd.StringOpt("from", "0x0000000000000000000000000000000000000000", "Make the call using specified from address.")

	cmd.Spec = "[--from] ADDRESS METHOD [ARGS...]"

	cmd.Action = func() {
		contract, err := loadContract(buildArtifactPath(), *contractName, *solSource)
		if err != nil {
			log.WithError(err).Fatalln("failed to load contract definition")
		}

		d, err := deployer.New(
			deployer.OptionRPCTimeout(duration(*rpcTimeout, defaultRPCTimeout)),
			deployer.OptionCallTimeout(duration(*callTimeout, defaultCallTimeout)),
			deployer.OptionEVMRPCEndpoint(*evmEndpoint),
		)
		if err != nil {
			log.WithError(err).Fatalln("failed to init deployer")
		}

		callOpts := deployer.ContractCallOpts{
			From:     common.HexToAddress(*fromAddress),
			Contract: common.HexToAddress(*contractAddress),
		}

		log.Debugln("target contract", callOpts.Contract.Hex())

		output, _, err := d.Call(context.Background(), callOpts, contract, *methodName, func(args abi.Arguments) []interface{} {
			mappedArgs, err := mapStringArgs(args, *methodArgs)
			if err != nil {
				log.WithError(err).Fatalln("failed to map method args")
				return nil
			}

			return mappedArgs
		})
		if err != nil {
			log.WithError(err).Fatalln("failed to call contract method")
		}

		v, _ := json.MarshalIndent(output, "", "\t")
		fmt.Println(string(v))
	}
}
