package main

import (
	"fmt"
	"os"

	cli "github.com/jawher/mow.cli"
	log "github.com/xlab/suplog"
)

var app = cli.App("trackerman", "Deploys and verifies the PharmaTracker contract on an EVM chain.")

func main() {
	app.Action = func() {
		fmt.Println("You should use either deploy, verify, record, call or build command. See --help for more info.")
	}

	app.Command("deploy", "Deploys the contract, writes the deployment record and distributes the ABI artifact.", onDeploy)
	app.Command("verify", "Runs read-only smoke checks against a recorded deployment.", onVerify)
	app.Command("record", "Prints the deployment record of a network. Supports jq-style queries.", onRecord)
	app.Command("call", "Calls a read-only contract method. Uses the build artifact for the ABI.", onCall)
	app.Command("build", "Compiles the contract source with solc and stores the build artifact.", onBuild)

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
