package main

import (
	"context"

	cli "github.com/jawher/mow.cli"
	log "github.com/xlab/suplog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/pharmatrace/trackerman/deployer"
	"github.com/pharmatrace/trackerman/registry"
)

func onVerify(cmd *cli.Cmd) {
	cmd.Action = func() {
		w := registry.NewWriter(*deploymentsDir)

		record, err := w.ReadRecord(*networkName)
		if err != nil {
			log.WithField("network", *networkName).WithError(err).Fatalln("failed to load deployment record")
		}

		addressHex, ok := record.Contracts[*contractName]
		if !ok {
			log.WithFields(log.Fields{
				"network":  *networkName,
				"contract": *contractName,
			}).Fatalln("contract not present in deployment record")
		}

		d, err := deployer.New(
			deployer.OptionRPCTimeout(duration(*rpcTimeout, defaultRPCTimeout)),
			deployer.OptionCallTimeout(duration(*callTimeout, defaultCallTimeout)),
			deployer.OptionEVMRPCEndpoint(*evmEndpoint),
		)
		if err != nil {
			log.WithError(err).Fatalln("failed to init deployer")
		}

		deployerAddress := common.HexToAddress(record.Deployer)
		contractAddress := common.HexToAddress(addressHex)

		log.WithFields(log.Fields{
			"network":  record.Network,
			"deployed": record.Timestamp,
		}).Infoln("verifying contract", contractAddress.Hex())

		runSmokeChecks(context.Background(), d, deployerAddress, contractAddress, *contractName, record.ABI)
	}
}
