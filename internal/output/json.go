package output

import (
	"encoding/json"

	"github.com/dshills/committed/internal/report"
)

// JSONWriter prints one JSON record per line.
type JSONWriter struct {
	ew errWriter
}

func (j *JSONWriter) Report(msg report.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		if j.ew.err == nil {
			j.ew.err = err
		}
		return
	}
	j.ew.write(append(data, '\n'))
}

func (j *JSONWriter) Flush() error { return j.ew.err }
