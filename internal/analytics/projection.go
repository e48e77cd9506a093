package analytics

import (
	"encoding/json"
	"sort"
	"strconv"

	"tradejournal/internal/workpool"
)

// ProjectionSummary is the distribution of simulated terminal outcomes for one horizon.
type ProjectionSummary struct {
	HorizonDays int     `json:"horizonDays"`
	Expected    float64 `json:"expected"`
	Median      float64 `json:"median"`
	P10         float64 `json:"p10"`
	P90         float64 `json:"p90"`
	ProbProfit  float64 `json:"probProfit"`
}

// ProjectionBandPoint is the cross-path percentile spread on one simulated day.
type ProjectionBandPoint struct {
	Day int     `json:"day"`
	P10 float64 `json:"p10"`
	P50 float64 `json:"p50"`
	P90 float64 `json:"p90"`
}

// MonteCarloResult holds the bootstrap projection for every horizon.
type MonteCarloResult struct {
	Seed        uint64
	Simulations int
	BandHorizon int
	Horizons    []ProjectionSummary
	Band        []ProjectionBandPoint
}

// At returns the summary for a horizon, or a zero summary when absent.
func (m MonteCarloResult) At(days int) ProjectionSummary {
	for _, h := range m.Horizons {
		if h.HorizonDays == days {
			return h
		}
	}
	return ProjectionSummary{HorizonDays: days}
}

// MarshalJSON flattens horizons into "d30", "d90", ... keys next to "band30".
func (m MonteCarloResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(m.Horizons)+3)
	for _, h := range m.Horizons {
		out[HorizonKey(h.HorizonDays)] = h
	}
	out["band"+strconv.Itoa(m.BandHorizon)] = m.Band
	out["simulations"] = m.Simulations
	out["seed"] = strconv.FormatUint(m.Seed, 10)
	return json.Marshal(out)
}

// Projections holds the naive linear and the bootstrap projections.
type Projections struct {
	Simple     map[string]float64 `json:"simple"`
	MonteCarlo MonteCarloResult   `json:"monteCarlo"`
}

// HorizonKey names a horizon in serialized output, e.g. "d30".
func HorizonKey(days int) string {
	return "d" + strconv.Itoa(days)
}

// Projector runs the linear and bootstrap projections.
type Projector struct {
	simulations int
	horizons    []int
	bandHorizon int
	chunks      int
	pool        *workpool.WorkerPool
	newSource   SourceFactory
}

// NewProjector creates a projector. A nil pool runs every chunk serially;
// results are identical either way.
func NewProjector(opts Options, pool *workpool.WorkerPool) *Projector {
	chunks := opts.ParallelChunks
	if chunks <= 0 {
		chunks = 1
	}
	return &Projector{
		simulations: opts.Simulations,
		horizons:    append([]int(nil), opts.Horizons...),
		bandHorizon: opts.BandHorizon,
		chunks:      chunks,
		pool:        pool,
		newSource:   NewPCGSource,
	}
}

// WithRandomSource replaces the generator used for bootstrap draws.
func (p *Projector) WithRandomSource(f SourceFactory) *Projector {
	if f != nil {
		p.newSource = f
	}
	return p
}

// Project computes every projection from the historical daily P&L values.
// An empty history yields all-zero summaries and a zero-filled band.
func (p *Projector) Project(history []float64, seed uint64) Projections {
	proj := Projections{
		Simple: make(map[string]float64, len(p.horizons)),
		MonteCarlo: MonteCarloResult{
			Seed:        seed,
			Simulations: p.simulations,
			BandHorizon: p.bandHorizon,
			Horizons:    make([]ProjectionSummary, 0, len(p.horizons)),
		},
	}

	avg := mean(history)
	for _, h := range p.horizons {
		proj.Simple[HorizonKey(h)] = avg * float64(h)
	}

	if len(history) == 0 || p.simulations <= 0 {
		for _, h := range p.horizons {
			proj.MonteCarlo.Horizons = append(proj.MonteCarlo.Horizons, ProjectionSummary{HorizonDays: h})
		}
		proj.MonteCarlo.Band = zeroBand(p.bandHorizon)
		return proj
	}

	for _, h := range p.horizons {
		terminals, paths := p.simulate(history, seed, h, h == p.bandHorizon)
		proj.MonteCarlo.Horizons = append(proj.MonteCarlo.Horizons, summarize(h, terminals))
		if paths != nil {
			proj.MonteCarlo.Band = band(paths, p.simulations, h)
		}
	}
	if proj.MonteCarlo.Band == nil {
		proj.MonteCarlo.Band = zeroBand(p.bandHorizon)
	}
	return proj
}

// simulate runs the bootstrap for one horizon. Runs are split into a fixed
// number of chunks, each drawing from its own stream, and every run writes
// only its own slots, so the output does not depend on scheduling.
// paths is row-major [run][day] and only filled when keepPaths is set.
func (p *Projector) simulate(history []float64, seed uint64, horizon int, keepPaths bool) (terminals, paths []float64) {
	runs := p.simulations
	terminals = make([]float64, runs)
	if keepPaths {
		paths = make([]float64, runs*horizon)
	}

	chunks := p.chunks
	if chunks > runs {
		chunks = runs
	}
	size := (runs + chunks - 1) / chunks
	n := len(history)

	runChunk := func(c int) {
		src := p.newSource(seed, streamFor(horizon, c))
		end := (c + 1) * size
		if end > runs {
			end = runs
		}
		for r := c * size; r < end; r++ {
			var cum float64
			for d := 0; d < horizon; d++ {
				cum += history[src.IntN(n)]
				if keepPaths {
					paths[r*horizon+d] = cum
				}
			}
			terminals[r] = cum
		}
	}

	if p.pool == nil {
		for c := 0; c < chunks; c++ {
			runChunk(c)
		}
	} else {
		p.pool.ForEach(chunks, runChunk)
	}
	return terminals, paths
}

func summarize(horizon int, terminals []float64) ProjectionSummary {
	s := ProjectionSummary{HorizonDays: horizon}
	if len(terminals) == 0 {
		return s
	}

	var profitable int
	for _, t := range terminals {
		if t > 0 {
			profitable++
		}
	}
	s.Expected = mean(terminals)
	s.ProbProfit = float64(profitable) / float64(len(terminals))

	sorted := append([]float64(nil), terminals...)
	sort.Float64s(sorted)
	s.Median = quantileSorted(sorted, 0.5)
	s.P10 = quantileSorted(sorted, 0.1)
	s.P90 = quantileSorted(sorted, 0.9)
	return s
}

func band(paths []float64, runs, horizon int) []ProjectionBandPoint {
	out := make([]ProjectionBandPoint, horizon)
	column := make([]float64, runs)
	for d := 0; d < horizon; d++ {
		for r := 0; r < runs; r++ {
			column[r] = paths[r*horizon+d]
		}
		sort.Float64s(column)
		out[d] = ProjectionBandPoint{
			Day: d + 1,
			P10: quantileSorted(column, 0.1),
			P50: quantileSorted(column, 0.5),
			P90: quantileSorted(column, 0.9),
		}
	}
	return out
}

func zeroBand(horizon int) []ProjectionBandPoint {
	out := make([]ProjectionBandPoint, horizon)
	for d := range out {
		out[d].Day = d + 1
	}
	return out
}
