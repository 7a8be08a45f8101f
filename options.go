package main

import (
	"time"

	cli "github.com/jawher/mow.cli"
)

const (
	defaultRPCTimeout  = 10 * time.Second
	defaultTxTimeout   = 30 * time.Second
	defaultCallTimeout = 10 * time.Second
)

var (
	networkName = app.String(cli.StringOpt{
		Name:   "n network",
		Desc:   "Identifier of the target chain environment. Used in deployment record paths.",
		EnvVar: "TRACKERMAN_NETWORK",
		Value:  "localhost",
	})

	evmEndpoint = app.String(cli.StringOpt{
		Name:   "E endpoint",
		Desc:   "Specify the JSON-RPC endpoint for accessing the Ethereum node",
		EnvVar: "TRACKERMAN_RPC_URI",
		Value:  "http://localhost:8545",
	})

	contractName = app.String(cli.StringOpt{
		Name:   "N name",
		Desc:   "Specify contract name to use.",
		EnvVar: "TRACKERMAN_CONTRACT_NAME",
		Value:  "PharmaTracker",
	})

	solSource = app.String(cli.StringOpt{
		Name:   "S source",
		Desc:   "Set path for .sol source file of the contract.",
		EnvVar: "TRACKERMAN_SOL_SOURCE_FILE",
		Value:  "contracts/PharmaTracker.sol",
	})

	solcPathSet bool
	solcPath    = app.String(cli.StringOpt{
		Name:      "solc-path",
		Desc:      "Set path to solc executable. Found using 'which' otherwise",
		EnvVar:    "TRACKERMAN_SOLC_PATH",
		Value:     "",
		SetByUser: &solcPathSet,
	})

	buildDir = app.String(cli.StringOpt{
		Name:   "build-dir",
		Desc:   "Set the dir for compiled build artifacts.",
		EnvVar: "TRACKERMAN_BUILD_DIR",
		Value:  "build/",
	})

	deploymentsDir = app.String(cli.StringOpt{
		Name:   "deployments-dir",
		Desc:   "Set the dir for deployment record files.",
		EnvVar: "TRACKERMAN_DEPLOYMENTS_DIR",
		Value:  "deployments/",
	})

	consumerDirs = app.Strings(cli.StringsOpt{
		Name:   "publish-to",
		Desc:   "Consumer dirs receiving a copy of the ABI artifact. Repeatable.",
		EnvVar: "TRACKERMAN_PUBLISH_DIRS",
		Value:  []string{"frontend/src/artifacts", "backend/artifacts"},
	})

	gasPriceSet bool
	gasPrice    = app.Int(cli.IntOpt{
		Name:      "G gas-price",
		Desc:      "Override estimated gas price with this option.",
		EnvVar:    "TRACKERMAN_TX_GAS_PRICE",
		Value:     50, // wei
		SetByUser: &gasPriceSet,
	})

	gasLimit = app.Int(cli.IntOpt{
		Name:   "L gas-limit",
		Desc:   "Set the maximum gas for tx.",
		EnvVar: "TRACKERMAN_TX_GAS_LIMIT",
		Value:  5000000,
	})

	rpcTimeout = app.String(cli.StringOpt{
		Name:   "rpc-timeout",
		Desc:   "Timeout for generic RPC queries (chain ID, nonce, balance).",
		EnvVar: "TRACKERMAN_RPC_TIMEOUT",
		Value:  "10s",
	})

	txTimeout = app.String(cli.StringOpt{
		Name:   "tx-timeout",
		Desc:   "Timeout for the deployment confirmation wait.",
		EnvVar: "TRACKERMAN_TX_TIMEOUT",
		Value:  "30s",
	})

	callTimeout = app.String(cli.StringOpt{
		Name:   "call-timeout",
		Desc:   "Timeout for read-only contract calls.",
		EnvVar: "TRACKERMAN_CALL_TIMEOUT",
		Value:  "10s",
	})
)

func duration(s string, defaults time.Duration) time.Duration {
	dur, err := time.ParseDuration(s)
	if err != nil {
		return defaults
	}

	return dur
}
