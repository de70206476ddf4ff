package gbm

import "math"

// Summary describes the terminal distribution of a simulation.
type Summary struct {
	Paths        int     `json:"paths"`
	Steps        int     `json:"steps"`
	MeanLogRet   float64 `json:"mean_log_return"`
	StdLogRet    float64 `json:"std_log_return"`
	MeanTerminal float64 `json:"mean_terminal"`
	MinTerminal  float64 `json:"min_terminal"`
	MaxTerminal  float64 `json:"max_terminal"`
}

// Summarize computes statistics of log(S_T/S_0) and S_T across paths.
// StdLogRet is the sample standard deviation (zero for a single path).
func Summarize(p *Paths) Summary {
	s := Summary{Paths: p.Cols(), Steps: p.Rows() - 1}

	first := p.Row(0)
	last := p.Terminal()

	s.MinTerminal = math.Inf(1)
	s.MaxTerminal = math.Inf(-1)

	var sumLog, sumS float64
	logs := make([]float64, len(last))
	for j, v := range last {
		logs[j] = math.Log(v / first[j])
		sumLog += logs[j]
		sumS += v
		s.MinTerminal = math.Min(s.MinTerminal, v)
		s.MaxTerminal = math.Max(s.MaxTerminal, v)
	}

	n := float64(len(last))
	s.MeanLogRet = sumLog / n
	s.MeanTerminal = sumS / n

	if len(logs) > 1 {
		var ss float64
		for _, l := range logs {
			d := l - s.MeanLogRet
			ss += d * d
		}
		s.StdLogRet = math.Sqrt(ss / (n - 1))
	}
	return s
}

// ExpectedLogReturn is the theoretical mean of log(S_T/S_0), (mu - sigma²/2)·T.
func (p Params) ExpectedLogReturn() float64 {
	return (p.Mu - 0.5*p.Sigma*p.Sigma) * p.T
}
