package registry

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDeployer = common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	testContract = common.HexToAddress("0x5fbdb2315678afecb367f032d93f642f64180aa3")
	testABI      = json.RawMessage(`[{"type":"constructor","inputs":[]}]`)
)

func testRecord(network string) *DeploymentRecord {
	return NewRecord(network, testDeployer, map[string]common.Address{
		"PharmaTracker": testContract,
	}, testABI)
}

func TestNewRecord(t *testing.T) {
	assert := assert.New(t)

	record := testRecord("localhost")

	assert.Equal("localhost", record.Network)
	assert.Equal(testDeployer.Hex(), record.Deployer)
	assert.Equal(testContract.Hex(), record.Contracts["PharmaTracker"])

	_, err := time.Parse(time.RFC3339, record.Timestamp)
	assert.NoError(err)
}

func TestRecordMarshalIndent(t *testing.T) {
	assert := assert.New(t)

	data, err := testRecord("localhost").Marshal()
	if !assert.NoError(err) {
		return
	}

	// pretty-printed with 2-space indent
	assert.Contains(string(data), "{\n  \"network\": \"localhost\"")
}

func TestWriteRecordFilesIdentical(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := filepath.Join(t.TempDir(), "deployments")
	w := NewWriter(dir)

	res, err := w.WriteRecord(testRecord("localhost"))
	require.NoError(err)
	require.Len(res.RecordPaths, 2)
	assert.Empty(res.Warnings)

	networkData, err := ioutil.ReadFile(filepath.Join(dir, "addresses.localhost.json"))
	require.NoError(err)
	aliasData, err := ioutil.ReadFile(filepath.Join(dir, "addresses.local.json"))
	require.NoError(err)

	assert.Equal(networkData, aliasData)

	var written DeploymentRecord
	require.NoError(json.Unmarshal(networkData, &written))
	assert.Equal(testContract.Hex(), written.Contracts["PharmaTracker"])
	assert.Equal(testDeployer.Hex(), written.Deployer)
}

func TestWriteRecordOverwritesAlias(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := filepath.Join(t.TempDir(), "deployments")
	w := NewWriter(dir)

	_, err := w.WriteRecord(testRecord("goerli"))
	require.NoError(err)

	otherContract := common.HexToAddress("0xe7f1725e7734ce288f8367e1bb143e90bb3f0512")
	latest := NewRecord("localhost", testDeployer, map[string]common.Address{
		"PharmaTracker": otherContract,
	}, testABI)

	_, err = w.WriteRecord(latest)
	require.NoError(err)

	aliasData, err := ioutil.ReadFile(filepath.Join(dir, "addresses.local.json"))
	require.NoError(err)
	networkData, err := ioutil.ReadFile(filepath.Join(dir, "addresses.localhost.json"))
	require.NoError(err)

	// alias always reflects the latest run
	assert.Equal(networkData, aliasData)

	var written DeploymentRecord
	require.NoError(json.Unmarshal(aliasData, &written))
	assert.Equal(otherContract.Hex(), written.Contracts["PharmaTracker"])

	// older network file untouched
	_, err = os.Stat(filepath.Join(dir, "addresses.goerli.json"))
	assert.NoError(err)
}

func TestWriteRecordExistingDir(t *testing.T) {
	require := require.New(t)

	dir := filepath.Join(t.TempDir(), "deployments")
	require.NoError(os.MkdirAll(dir, 0755))

	w := NewWriter(dir)

	_, err := w.WriteRecord(testRecord("localhost"))
	require.NoError(err)

	// repeated runs against a pre-existing dir are fine
	_, err = w.WriteRecord(testRecord("localhost"))
	require.NoError(err)
}

func TestDistributeArtifact(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tmp := t.TempDir()

	srcPath := filepath.Join(tmp, "PharmaTracker.json")
	srcData := []byte(`{"contractName":"PharmaTracker","abi":[],"bytecode":"0x00"}`)
	require.NoError(ioutil.WriteFile(srcPath, srcData, 0644))

	frontendDir := filepath.Join(tmp, "frontend", "src", "artifacts")
	backendDir := filepath.Join(tmp, "backend", "artifacts")

	w := NewWriter(filepath.Join(tmp, "deployments"))

	dests, warnings := w.DistributeArtifact(srcPath, "PharmaTracker", []string{frontendDir, backendDir})
	assert.Nil(warnings)
	require.Len(dests, 2)

	for _, destDir := range []string{frontendDir, backendDir} {
		copied, err := ioutil.ReadFile(filepath.Join(destDir, "PharmaTracker.json"))
		require.NoError(err)
		assert.Equal(srcData, copied)
	}
}

func TestDistributeArtifactMissingSource(t *testing.T) {
	assert := assert.New(t)

	tmp := t.TempDir()
	w := NewWriter(filepath.Join(tmp, "deployments"))

	dests, warnings := w.DistributeArtifact(
		filepath.Join(tmp, "no-such-artifact.json"),
		"PharmaTracker",
		[]string{filepath.Join(tmp, "frontend")},
	)

	assert.Empty(dests)
	assert.Len(warnings, 1)
}

func TestDistributeArtifactPartialFailure(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tmp := t.TempDir()

	srcPath := filepath.Join(tmp, "PharmaTracker.json")
	srcData := []byte(`{"contractName":"PharmaTracker","abi":[],"bytecode":"0x00"}`)
	require.NoError(ioutil.WriteFile(srcPath, srcData, 0644))

	goodDir := filepath.Join(tmp, "frontend")

	// a plain file where a consumer dir is expected blocks that destination only
	blockedDir := filepath.Join(tmp, "backend")
	require.NoError(ioutil.WriteFile(blockedDir, []byte("not a dir"), 0644))

	w := NewWriter(filepath.Join(tmp, "deployments"))

	dests, warnings := w.DistributeArtifact(srcPath, "PharmaTracker", []string{blockedDir, goodDir})
	assert.Len(warnings, 1)
	require.Len(dests, 1)

	copied, err := ioutil.ReadFile(filepath.Join(goodDir, "PharmaTracker.json"))
	require.NoError(err)
	assert.Equal(srcData, copied)
}

func TestPublishMissingArtifactIsNonFatal(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	tmp := t.TempDir()
	w := NewWriter(filepath.Join(tmp, "deployments"))

	res, err := w.Publish(
		testRecord("localhost"),
		filepath.Join(tmp, "no-such-artifact.json"),
		"PharmaTracker",
		[]string{filepath.Join(tmp, "frontend")},
	)
	require.NoError(err)

	// record files written despite the artifact copy warning
	assert.Len(res.RecordPaths, 2)
	assert.Empty(res.ArtifactDests)
	assert.Len(res.Warnings, 1)
}

func TestReadRecord(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	dir := filepath.Join(t.TempDir(), "deployments")
	w := NewWriter(dir)

	_, err := w.ReadRecord("localhost")
	assert.Equal(ErrNoRecord, err)

	_, err = w.WriteRecord(testRecord("localhost"))
	require.NoError(err)

	record, err := w.ReadRecord("localhost")
	require.NoError(err)
	assert.Equal("localhost", record.Network)
	assert.Equal(testContract.Hex(), record.Contracts["PharmaTracker"])

	// the alias resolves through the same reader
	aliasRecord, err := w.ReadRecord(LocalAlias)
	require.NoError(err)
	assert.Equal(record, aliasRecord)
}
