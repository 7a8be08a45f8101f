// Package solc provides a convenient interface for calling the 'solc'
// Solidity Compiler from Go and materializing its output as build artifacts.
package solc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/xlab/suplog"

	"github.com/pharmatrace/trackerman/artifact"
)

var ErrContractNotFound = errors.New("specified contract not found in compiled sources")

// Contract is a single compiled contract as produced by solc.
type Contract struct {
	Name            string
	SourcePath      string
	CompilerVersion string

	ABI []byte
	Bin string
}

type Compiler interface {
	SetAllowPaths(paths []string) Compiler
	Compile(prefix, path string, optimize int) (map[string]*Contract, error)
}

func NewSolCompiler(solcPath string) (Compiler, error) {
	s := &solCompiler{
		solcPath: solcPath,
	}
	if err := s.verify(); err != nil {
		return nil, err
	}
	return s, nil
}

type solCompiler struct {
	solcPath   string
	allowPaths []string
}

func (s *solCompiler) verify() error {
	out, err := exec.Command(s.solcPath, "--version").CombinedOutput()
	if err != nil {
		err = fmt.Errorf("solc verify: failed to exec solc: %v", err)
		return err
	}
	hasPrefix := strings.HasPrefix(string(out), "solc, the solidity compiler")
	if !hasPrefix {
		err := fmt.Errorf("solc verify: executable output was unexpected (output: %s)", out)
		return err
	}
	return nil
}

func (s *solCompiler) SetAllowPaths(paths []string) Compiler {
	s.allowPaths = paths
	return s
}

type solcContract struct {
	ABI json.RawMessage `json:"abi"`
	Bin string          `json:"bin"`
}

type solcOutput struct {
	Contracts map[string]solcContract `json:"contracts"`
	Version   string                  `json:"version"`
}

func (s *solCompiler) Compile(prefix, path string, optimize int) (map[string]*Contract, error) {
	args := []string{s.solcPath}
	if len(s.allowPaths) > 0 {
		args = append(args, "--allow-paths", strings.Join(s.allowPaths, ","))
	}
	args = append(args, "--combined-json", "bin,abi", filepath.Join(prefix, path))
	if optimize > 0 {
		args = append(args, "--optimize", fmt.Sprintf("--optimize-runs=%d", optimize))
	}
	cmd := exec.Cmd{
		Path:   s.solcPath,
		Args:   args,
		Dir:    prefix,
		Stderr: os.Stderr,
	}

	log.Infoln("Running solc compiler:", cmd.String())

	out, err := cmd.Output()
	if err != nil {
		err = fmt.Errorf("solc: failed to compile contract: %v", err)
		return nil, err
	}

	var result solcOutput
	if err := json.Unmarshal(out, &result); err != nil {
		err = fmt.Errorf("solc: failed to unmarshal Solc output: %v", err)
		return nil, err
	}

	if len(result.Contracts) == 0 {
		err := errors.New("solc: no contracts compiled")
		return nil, err
	}

	contracts := make(map[string]*Contract, len(result.Contracts))
	for id, c := range result.Contracts {
		name, sourcePath, err := idToNameAndSourcePath(id)
		if err != nil {
			return nil, err
		}

		contracts[name] = &Contract{
			Name:            name,
			SourcePath:      sourcePath,
			CompilerVersion: result.Version,

			ABI: []byte(c.ABI),
			Bin: c.Bin,
		}
	}

	return contracts, nil
}

func idToNameAndSourcePath(id string) (name, sourcePath string, err error) {
	idParts := strings.Split(id, ":")
	if len(idParts) == 1 {
		err = errors.Errorf("solc: found an unnamed contract in output: %s", id)
		return
	}

	name = idParts[len(idParts)-1]
	sourcePath = idParts[0]

	return name, sourcePath, nil
}

// Artifact converts a compiled contract into the build-output form the
// rest of the tool consumes.
func (c *Contract) Artifact() *artifact.Artifact {
	return &artifact.Artifact{
		ContractName:    c.Name,
		SourceName:      c.SourcePath,
		CompilerVersion: c.CompilerVersion,
		ABI:             json.RawMessage(c.ABI),
		Bytecode:        "0x" + c.Bin,
	}
}

// WriteArtifact stores the compiled contract as <dir>/<Name>.json, creating
// the dir if missing.
func WriteArtifact(c *Contract, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		err = errors.Wrap(err, "failed to prepare build output dir")
		return "", err
	}

	data, err := json.MarshalIndent(c.Artifact(), "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal build artifact")
		return "", err
	}

	outPath := filepath.Join(dir, fmt.Sprintf("%s.json", c.Name))
	if err := ioutil.WriteFile(outPath, data, 0644); err != nil {
		err = errors.Wrap(err, "failed to write build artifact")
		return "", err
	}

	return outPath, nil
}

func WhichSolc() (string, error) {
	out, err := exec.Command("which", "solc").Output()
	if err != nil {
		return "", errors.New("solc executable file not found in $PATH")
	}
	return string(bytes.TrimSpace(out)), nil
}
