package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"gbmsynth/internal/gbm"
)

// WriteJSONL writes each path as a JSON array of floats on its own line.
func WriteJSONL(w io.Writer, p *gbm.Paths) error {
	enc := json.NewEncoder(w)
	for j := 0; j < p.Cols(); j++ {
		if err := enc.Encode(p.Path(j)); err != nil {
			return fmt.Errorf("path %d: %w", j, err)
		}
	}
	return nil
}

func ReadJSONL(r io.Reader) ([][]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<20), 1<<28)

	var paths [][]float64
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var path []float64
		if err := json.Unmarshal(sc.Bytes(), &path); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		paths = append(paths, path)
	}
	return paths, sc.Err()
}
