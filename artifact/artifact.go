// Package artifact provides typed access to compiled contract artifacts:
// the interface descriptor (ABI) plus creation bytecode of a single contract.
package artifact

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("artifact file not found")

// Artifact describes the callable surface and the creation bytecode of a
// compiled contract. The on-disk format is compatible with Hardhat-style
// build output, unknown fields are ignored.
type Artifact struct {
	ContractName    string          `json:"contractName"`
	SourceName      string          `json:"sourceName,omitempty"`
	CompilerVersion string          `json:"compilerVersion,omitempty"`
	ABI             json.RawMessage `json:"abi"`
	Bytecode        string          `json:"bytecode"`
}

// ReadFile loads and validates an artifact from path. A missing file is
// reported as ErrNotFound so callers can distinguish it from a corrupt one.
func ReadFile(path string) (*Artifact, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		err = errors.Wrap(err, "failed to read artifact file")
		return nil, err
	}

	return Parse(data)
}

func Parse(data []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		err = errors.Wrap(err, "failed to unmarshal artifact")
		return nil, err
	}

	if len(a.ContractName) == 0 {
		return nil, errors.New("artifact contains no 'contractName' field")
	} else if len(a.ABI) == 0 {
		return nil, errors.Errorf("artifact %s contains no 'abi' field", a.ContractName)
	} else if len(a.Bin()) == 0 {
		return nil, errors.Errorf("artifact %s contains no 'bytecode' field", a.ContractName)
	}

	return &a, nil
}

// Bin returns the creation bytecode hex without the 0x prefix.
func (a *Artifact) Bin() string {
	return strings.TrimPrefix(a.Bytecode, "0x")
}
