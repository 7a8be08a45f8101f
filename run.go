package main

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/xlab/suplog"

	"github.com/pharmatrace/trackerman/artifact"
	"github.com/pharmatrace/trackerman/deployer"
	"github.com/pharmatrace/trackerman/registry"
)

// runContext carries everything the deployment workflow touches, so the
// forward pass has no ambient process state of its own.
type runContext struct {
	network         string
	contractName    string
	artifactPath    string
	solSource       string
	deploymentsDir  string
	consumerDirs    []string
	constructorArgs []string
	await           bool

	d        deployer.Deployer
	from     common.Address
	signerFn bind.SignerFn
}

// runDeploy is the single forward pass: deploy, record, publish, smoke-check.
// Deployment and record write failures are fatal and returned; artifact
// copies and smoke checks only warn.
func runDeploy(ctx context.Context, rc *runContext) error {
	client, err := rc.d.Backend()
	if err != nil {
		return err
	}

	balanceCtx, cancelFn := context.WithTimeout(ctx, duration(*rpcTimeout, defaultRPCTimeout))
	defer cancelFn()

	if balance, err := client.BalanceAt(balanceCtx, rc.from, nil); err != nil {
		log.WithField("from", rc.from.Hex()).WithError(err).Warningln("failed to query deployer balance")
	} else if balance.Sign() == 0 {
		log.WithField("from", rc.from.Hex()).Warningln("deployer balance is zero, deployment may fail for insufficient funds")
	} else {
		log.WithField("from", rc.from.Hex()).Infoln("deployer balance", balance.String())
	}

	contract, err := loadContract(rc.artifactPath, rc.contractName, rc.solSource)
	if err != nil {
		return err
	}

	deployOpts := deployer.ContractDeployOpts{
		From:     rc.from,
		SignerFn: rc.signerFn,
		Await:    rc.await,
	}

	deployment, err := rc.d.Deploy(ctx, deployOpts, contract, func(args abi.Arguments) []interface{} {
		mappedArgs, err := mapStringArgs(args, rc.constructorArgs)
		if err != nil {
			log.WithError(err).Fatalln("failed to map constructor args")
			return nil
		}

		return mappedArgs
	})
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"txHash":  deployment.TxHash.Hex(),
		"address": deployment.Address.Hex(),
	}).Infoln("deployed contract", contract.ContractName)

	record := registry.NewRecord(rc.network, rc.from, map[string]common.Address{
		contract.ContractName: deployment.Address,
	}, deployment.RawABI)

	w := registry.NewWriter(rc.deploymentsDir)

	res, err := w.Publish(record, rc.artifactPath, contract.ContractName, rc.consumerDirs)
	if err != nil {
		// the contract exists on-chain at this point, surface the address
		// so the operator can recover a deployed-but-unrecorded run
		log.WithField("address", deployment.Address.Hex()).Errorln("contract deployed but deployment record not written")
		return err
	}

	for _, path := range res.RecordPaths {
		log.Infoln("wrote deployment record", path)
	}
	for _, path := range res.ArtifactDests {
		log.Infoln("copied ABI artifact to", path)
	}
	for _, warn := range res.Warnings {
		log.WithError(warn).Warningln("artifact publication warning")
	}

	runSmokeChecks(ctx, rc.d, rc.from, deployment.Address, contract.ContractName, deployment.RawABI)

	return nil
}

// loadContract prefers the build artifact on disk and falls back to
// compiling the source when the artifact is missing.
func loadContract(artifactPath, name, solSource string) (*artifact.Artifact, error) {
	contract, err := artifact.ReadFile(artifactPath)
	if err == nil {
		return contract, nil
	} else if err != artifact.ErrNotFound {
		return nil, err
	}

	log.WithField("path", artifactPath).Warningln("build artifact not found, compiling from source")

	compiled, err := compileContract(name, solSource)
	if err != nil {
		return nil, err
	}

	return compiled.Artifact(), nil
}

type smokeCheck struct {
	name   string
	method string
	mapper deployer.AbiMethodInputMapperFunc
}

// runSmokeChecks issues a few read-only calls against the deployed contract
// for operator feedback. Failures are logged and never propagate.
func runSmokeChecks(
	ctx context.Context,
	d deployer.Deployer,
	from common.Address,
	contractAddress common.Address,
	name string,
	rawABI json.RawMessage,
) {
	art := &artifact.Artifact{
		ContractName: name,
		ABI:          rawABI,
	}

	checks := []smokeCheck{{
		name:   "ownership",
		method: "owner",
	}, {
		name:   "deployer authorization",
		method: "isAuthorized",
		mapper: func(args abi.Arguments) []interface{} {
			return []interface{}{from}
		},
	}, {
		name:   "product count",
		method: "productCount",
	}}

	callOpts := deployer.ContractCallOpts{
		From:     from,
		Contract: contractAddress,
	}

	for _, check := range checks {
		output, _, err := d.Call(ctx, callOpts, art, check.method, check.mapper)
		if err != nil {
			log.WithField("check", check.name).WithError(err).Warningln("smoke check failed")
			continue
		}

		log.WithField("check", check.name).Infoln("smoke check passed:", check.method, "returned", output)
	}
}
