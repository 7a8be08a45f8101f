// Package registry persists deployment outcomes: it writes the deployment
// record files and distributes ABI artifacts to consumer applications.
package registry

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// DeploymentRecord summarizes the outcome of one deployment run. The record
// is immutable once built and is written verbatim to every output location.
type DeploymentRecord struct {
	Network   string            `json:"network"`
	Deployer  string            `json:"deployer"`
	Timestamp string            `json:"timestamp"`
	Contracts map[string]string `json:"contracts"`
	ABI       json.RawMessage   `json:"abi"`
}

// NewRecord assembles a record from deployment results. Addresses are stored
// in checksummed form, the timestamp is the current instant in RFC 3339.
func NewRecord(
	network string,
	deployer common.Address,
	contracts map[string]common.Address,
	abiJSON json.RawMessage,
) *DeploymentRecord {
	recorded := make(map[string]string, len(contracts))
	for name, address := range contracts {
		recorded[name] = address.Hex()
	}

	return &DeploymentRecord{
		Network:   network,
		Deployer:  deployer.Hex(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Contracts: recorded,
		ABI:       abiJSON,
	}
}

// Marshal renders the record the way it appears on disk: pretty-printed
// JSON with 2-space indent.
func (r *DeploymentRecord) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
