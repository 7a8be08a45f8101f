package main

import (
	"fmt"

	cli "github.com/jawher/mow.cli"
	log "github.com/xlab/suplog"

	"github.com/pharmatrace/trackerman/solc"
)

func onBuild(cmd *cli.Cmd) {
	bytecodeOnly := cmd.BoolOpt("bytecode", false, "Print hex-encoded contract bytecode instead of the artifact path.")

	cmd.Spec = "[--bytecode]"

	cmd.Action = func() {
		contract, err := compileContract(*contractName, *solSource)
		if err != nil {
			log.Fatalln(err)
		}

		outPath, err := solc.WriteArtifact(contract, *buildDir)
		if err != nil {
			log.WithField("dir", *buildDir).WithError(err).Fatalln("failed to store build artifact")
		}

		if *bytecodeOnly {
			fmt.Println(contract.Bin)
			return
		}

		fmt.Println(outPath)
	}
}
