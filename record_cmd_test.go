package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRecordJSON = []byte(`{
  "network": "localhost",
  "deployer": "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
  "timestamp": "2024-05-01T10:00:00Z",
  "contracts": {
    "PharmaTracker": "0x5FbDB2315678afecb367f032d93F642f64180aa3"
  },
  "abi": []
}`)

func TestApplyRecordQuery(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	out, err := applyRecordQuery(testRecordJSON, ".contracts.PharmaTracker")
	require.NoError(err)
	assert.JSONEq(`"0x5FbDB2315678afecb367f032d93F642f64180aa3"`, string(out))

	out, err = applyRecordQuery(testRecordJSON, ".contracts | keys")
	require.NoError(err)
	assert.JSONEq(`["PharmaTracker"]`, string(out))

	out, err = applyRecordQuery(testRecordJSON, ".network, .deployer")
	require.NoError(err)
	assert.JSONEq(`["localhost", "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"]`, string(out))
}

func TestApplyRecordQueryErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := applyRecordQuery(testRecordJSON, ".contracts[")
	assert.Error(err)

	_, err = applyRecordQuery([]byte(`{broken`), ".network")
	assert.Error(err)
}
