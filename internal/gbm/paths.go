package gbm

// Paths is a row-major (N+1) x M matrix of simulated prices.
// Row t holds the price of every path at step t; column j is one path.
type Paths struct {
	rows, cols int
	data       []float64
}

func newPaths(rows, cols int) *Paths {
	return &Paths{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// Rows is the number of time points, N+1.
func (p *Paths) Rows() int { return p.rows }

// Cols is the number of paths, M.
func (p *Paths) Cols() int { return p.cols }

// At returns the price of path j at step t. It panics when out of range,
// like a slice index.
func (p *Paths) At(t, j int) float64 {
	if t < 0 || t >= p.rows || j < 0 || j >= p.cols {
		panic("gbm: index out of range")
	}
	return p.data[t*p.cols+j]
}

// Row returns a copy of every path's price at step t.
func (p *Paths) Row(t int) []float64 {
	if t < 0 || t >= p.rows {
		panic("gbm: row out of range")
	}
	out := make([]float64, p.cols)
	copy(out, p.data[t*p.cols:(t+1)*p.cols])
	return out
}

// Path returns a copy of the time series of path j.
func (p *Paths) Path(j int) []float64 {
	if j < 0 || j >= p.cols {
		panic("gbm: path out of range")
	}
	out := make([]float64, p.rows)
	for t := range out {
		out[t] = p.data[t*p.cols+j]
	}
	return out
}

// Terminal returns the last row, S_T for every path.
func (p *Paths) Terminal() []float64 {
	return p.Row(p.rows - 1)
}
