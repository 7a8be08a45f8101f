package registry

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

var ErrNoRecord = errors.New("no deployment record for network")

// LocalAlias is the network-independent alias every run overwrites, so
// consumers always have a stable path to the latest deployment.
const LocalAlias = "local"

// Writer persists deployment records under a deployments dir and copies
// ABI artifacts into consumer directories.
type Writer struct {
	deploymentsDir string
}

func NewWriter(deploymentsDir string) *Writer {
	return &Writer{
		deploymentsDir: deploymentsDir,
	}
}

func (w *Writer) RecordPath(network string) string {
	return filepath.Join(w.deploymentsDir, fmt.Sprintf("addresses.%s.json", network))
}

// PublishResult reports what the publication stage did. Warnings collect
// the best-effort failures (alias write, artifact copies) that never abort
// the run; a failed primary record write is returned as an error instead.
type PublishResult struct {
	RecordPaths   []string
	ArtifactDests []string
	Warnings      []error
}

// WriteRecord writes the serialized record to the network-qualified path and
// to the local alias path. The deployments dir is created if missing. The
// primary (network) write is fatal on error; the alias is a convenience copy
// and only warns. The alias is overwritten unconditionally on every run.
func (w *Writer) WriteRecord(record *DeploymentRecord) (*PublishResult, error) {
	if err := os.MkdirAll(w.deploymentsDir, 0755); err != nil {
		err = errors.Wrap(err, "failed to prepare deployments dir")
		return nil, err
	}

	data, err := record.Marshal()
	if err != nil {
		err = errors.Wrap(err, "failed to marshal deployment record")
		return nil, err
	}

	res := &PublishResult{}

	networkPath := w.RecordPath(record.Network)
	if err := ioutil.WriteFile(networkPath, data, 0644); err != nil {
		err = errors.Wrapf(err, "failed to write deployment record %s", networkPath)
		return nil, err
	}
	res.RecordPaths = append(res.RecordPaths, networkPath)

	aliasPath := w.RecordPath(LocalAlias)
	if aliasPath != networkPath {
		if err := ioutil.WriteFile(aliasPath, data, 0644); err != nil {
			res.Warnings = append(res.Warnings, errors.Wrapf(err, "failed to write alias record %s", aliasPath))
		} else {
			res.RecordPaths = append(res.RecordPaths, aliasPath)
		}
	}

	return res, nil
}

// DistributeArtifact copies the compiled interface artifact verbatim into
// each consumer dir as <ContractName>.json. Every destination is independent,
// a failed copy is collected as a warning and does not block the others.
func (w *Writer) DistributeArtifact(srcPath, contractName string, consumerDirs []string) (dests []string, warnings []error) {
	var warn *multierror.Error

	data, err := ioutil.ReadFile(srcPath)
	if err != nil {
		warn = multierror.Append(warn, errors.Wrapf(err, "failed to read ABI artifact %s", srcPath))
		return nil, warn.WrappedErrors()
	}

	for _, dir := range consumerDirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			warn = multierror.Append(warn, errors.Wrapf(err, "failed to prepare consumer dir %s", dir))
			continue
		}

		destPath := filepath.Join(dir, fmt.Sprintf("%s.json", contractName))
		if err := ioutil.WriteFile(destPath, data, 0644); err != nil {
			warn = multierror.Append(warn, errors.Wrapf(err, "failed to copy ABI artifact to %s", destPath))
			continue
		}

		dests = append(dests, destPath)
	}

	// a nil *multierror.Error has no WrappedErrors receiver
	if warn == nil {
		return dests, nil
	}

	return dests, warn.WrappedErrors()
}

// Publish runs the full publication stage: record files first, artifact
// copies second. The returned error is fatal, warnings are logged by the
// caller and never abort the run.
func (w *Writer) Publish(record *DeploymentRecord, artifactPath, contractName string, consumerDirs []string) (*PublishResult, error) {
	res, err := w.WriteRecord(record)
	if err != nil {
		return nil, err
	}

	dests, warnings := w.DistributeArtifact(artifactPath, contractName, consumerDirs)
	res.ArtifactDests = dests
	res.Warnings = append(res.Warnings, warnings...)

	return res, nil
}

// ReadRecord loads a previously written record for the given network.
func (w *Writer) ReadRecord(network string) (*DeploymentRecord, error) {
	data, err := w.ReadRecordRaw(network)
	if err != nil {
		return nil, err
	}

	var record DeploymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		err = errors.Wrap(err, "failed to unmarshal deployment record")
		return nil, err
	}

	return &record, nil
}

// ReadRecordRaw returns the record file bytes as written, for callers that
// process the JSON directly.
func (w *Writer) ReadRecordRaw(network string) ([]byte, error) {
	data, err := ioutil.ReadFile(w.RecordPath(network))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoRecord
		}

		err = errors.Wrap(err, "failed to read deployment record")
		return nil, err
	}

	return data, nil
}
