// Copyright 2025 Hierlock Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package driver

import (
	"bufio"
	"io"
	"strconv"

	"github.com/goccy/go-json"
)

// WriteResults writes one "true"/"false" line per query, in query order.
func WriteResults(w io.Writer, results []bool) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if _, err := bw.WriteString(strconv.FormatBool(r)); err != nil {
			return err
		}

		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// resultsDocument is the JSON output shape.
type resultsDocument struct {
	Queries int    `json:"queries"`
	Granted int    `json:"granted"`
	Results []bool `json:"results"`
}

// WriteResultsJSON writes the outcomes as a single JSON document.
func WriteResultsJSON(w io.Writer, results []bool) error {
	granted := 0
	for _, r := range results {
		if r {
			granted++
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(resultsDocument{
		Queries: len(results),
		Granted: granted,
		Results: results,
	})
}
