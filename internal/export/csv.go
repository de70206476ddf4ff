package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gbmsynth/internal/gbm"
)

// WriteCSV writes one row per time step and one column per path, with every
// value in %.18e notation.
func WriteCSV(w io.Writer, p *gbm.Paths) error {
	cw := csv.NewWriter(w)
	record := make([]string, p.Cols())
	for t := 0; t < p.Rows(); t++ {
		for j := range record {
			record[j] = strconv.FormatFloat(p.At(t, j), 'e', 18, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV into rows of floats.
func ReadCSV(r io.Reader) ([][]float64, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	var rows [][]float64
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %d: %w", line, j+1, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
}
