package main

import (
	"path/filepath"
	"time"

	log "github.com/xlab/suplog"

	"github.com/pharmatrace/trackerman/solc"
)

func getCompiler() (solc.Compiler, error) {
	if solcPathSet {
		compiler, err := solc.NewSolCompiler(*solcPath)
		if err != nil {
			log.WithField("path", *solcPath).WithError(err).Errorln("failed to find solc compiler at path")
			return nil, err
		}

		return compiler, nil
	}

	solcPathFound, err := solc.WhichSolc()
	if err != nil {
		log.WithError(err).Errorln("failed to find solc compiler")
		return nil, err
	}

	compiler, err := solc.NewSolCompiler(solcPathFound)
	if err != nil {
		log.WithField("path", solcPathFound).WithError(err).Errorln("failed to find solc compiler at path")
		return nil, err
	}

	return compiler, nil
}

func compileContract(name, solSourcePath string) (*solc.Contract, error) {
	compiler, err := getCompiler()
	if err != nil {
		return nil, err
	}

	solSourceFullPath, _ := filepath.Abs(solSourcePath)

	ts := time.Now()

	contracts, err := compiler.Compile(filepath.Dir(solSourceFullPath), filepath.Base(solSourceFullPath), 200)
	if err != nil {
		log.WithFields(log.Fields{
			"dir":  filepath.Dir(solSourceFullPath),
			"file": filepath.Base(solSourceFullPath),
		}).WithError(err).Errorln("failed to compile .sol files")
		return nil, err
	}

	log.Infoln("compiled sources in", time.Since(ts))

	for contractName := range contracts {
		log.Infoln("found", contractName, "contract")
	}

	contract, ok := contracts[name]
	if !ok {
		log.WithField("contract", name).Errorln("specified contract not found in compiled sources")
		return nil, solc.ErrContractNotFound
	}

	return contract, nil
}
