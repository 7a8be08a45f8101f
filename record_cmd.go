package main

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
	cli "github.com/jawher/mow.cli"
	"github.com/pkg/errors"
	log "github.com/xlab/suplog"

	"github.com/pharmatrace/trackerman/registry"
)

func onRecord(cmd *cli.Cmd) {
	query := cmd.StringOpt("q query", "", "Optional jq expression applied to the record JSON, e.g. '.contracts'.")

	cmd.Spec = "[--query]"

	cmd.Action = func() {
		w := registry.NewWriter(*deploymentsDir)

		data, err := w.ReadRecordRaw(*networkName)
		if err != nil {
			log.WithField("network", *networkName).WithError(err).Fatalln("failed to load deployment record")
		}

		if len(*query) == 0 {
			fmt.Println(string(data))
			return
		}

		out, err := applyRecordQuery(data, *query)
		if err != nil {
			log.WithField("query", *query).WithError(err).Fatalln("failed to apply record query")
		}

		fmt.Println(string(out))
	}
}

// applyRecordQuery runs a jq expression over the record JSON and renders
// the result. A single result is printed bare, multiple results as an array.
func applyRecordQuery(data []byte, query string) ([]byte, error) {
	q, err := gojq.Parse(query)
	if err != nil {
		err = errors.Wrap(err, "failed to parse jq query")
		return nil, err
	}

	var input interface{}
	if err := json.Unmarshal(data, &input); err != nil {
		err = errors.Wrap(err, "failed to unmarshal record JSON")
		return nil, err
	}

	var results []interface{}

	iter := q.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if queryErr, isErr := v.(error); isErr {
			return nil, errors.Wrap(queryErr, "jq query errored")
		}

		results = append(results, v)
	}

	if len(results) == 1 {
		return json.MarshalIndent(results[0], "", "  ")
	}

	return json.MarshalIndent(results, "", "  ")
}
