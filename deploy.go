package main

import (
	"context"
	"math/big"
	"path/filepath"

	cli "github.com/jawher/mow.cli"
	log "github.com/xlab/suplog"

	"github.com/pharmatrace/trackerman/deployer"
)

func onDeploy(cmd *cli.Cmd) {
	await := cmd.BoolOpt("await", true, "Await transaction confirmation from the RPC.")
	contractArgs := cmd.StringsArg("ARGS", []string{}, "Contract constructor's arguments. Will be ABI-encoded.")

	cmd.Spec = "[--await] [ARGS...]"

	cmd.Action = func() {
		// nil gas price leaves estimation to the RPC node
		var gasPriceInt *big.Int
		if gasPriceSet {
			gasPriceInt = big.NewInt(int64(*gasPrice))
		}

		d, err := deployer.New(
			deployer.OptionRPCTimeout(duration(*rpcTimeout, defaultRPCTimeout)),
			deployer.OptionCallTimeout(duration(*callTimeout, defaultCallTimeout)),
			deployer.OptionTxTimeout(duration(*txTimeout, defaultTxTimeout)),

			deployer.OptionEVMRPCEndpoint(*evmEndpoint),
			deployer.OptionGasPrice(gasPriceInt),
			deployer.OptionGasLimit(uint64(*gasLimit)),
		)
		if err != nil {
			log.WithError(err).Fatalln("failed to init deployer")
		}

		client, err := d.Backend()
		if err != nil {
			log.Fatalln(err)
		}

		chainCtx, cancelFn := context.WithTimeout(context.Background(), duration(*rpcTimeout, defaultRPCTimeout))
		defer cancelFn()

		chainID, err := client.ChainID(chainCtx)
		if err != nil {
			log.WithError(err).Fatalln("failed get valid chain ID")
		}

		fromAddress, signerFn, err := resolveSigner(chainID.Uint64())
		if err != nil {
			log.WithError(err).Fatalln("failed to resolve deployer identity")
		}

		log.WithField("network", *networkName).Debugln("deploying from", fromAddress.Hex())

		rc := &runContext{
			network:         *networkName,
			contractName:    *contractName,
			artifactPath:    buildArtifactPath(),
			solSource:       *solSource,
			deploymentsDir:  *deploymentsDir,
			consumerDirs:    *consumerDirs,
			constructorArgs: *contractArgs,
			await:           *await,

			d:        d,
			from:     fromAddress,
			signerFn: signerFn,
		}

		if err := runDeploy(context.Background(), rc); err != nil {
			log.WithError(err).Fatalln("deployment run failed")
		}
	}
}

func buildArtifactPath() string {
	return filepath.Join(*buildDir, *contractName+".json")
}
