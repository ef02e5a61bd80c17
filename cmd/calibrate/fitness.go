package main

import (
	"context"
	"log"
	"sync"

	"github.com/pthm-cable/sprout/config"
	"github.com/pthm-cable/sprout/garden"
	"github.com/pthm-cable/sprout/plant"
	"github.com/pthm-cable/sprout/telemetry"
)

// heightWeight scales mean height against mean root depth in the objective.
const heightWeight = 0.1

// FitnessEvaluator runs headless gardens and scores their root growth.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []uint64
	sowings    int
	baseConfig *config.Config

	mu         sync.Mutex
	lastResult runResult
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []uint64, sowings int, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		sowings:    sowings,
		baseConfig: baseCfg,
	}
}

// runResult holds the final state of one garden run.
type runResult struct {
	meanDepth  float64
	meanHeight float64
	deaths     int
}

// LastResult returns the seed-averaged result of the most recent evaluation.
func (fe *FitnessEvaluator) LastResult() (meanDepth, meanHeight float64, deaths int) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	r := fe.lastResult
	return r.meanDepth, r.meanHeight, r.deaths
}

// Evaluate computes the objective for raw weights (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Garden.MaxTickMS = 0
	cfg.Telemetry.EventLog = false
	cfg.Telemetry.RunIndex = false

	// Run all seeds in parallel
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			r, err := fe.runGarden(cfg, s)
			if err != nil {
				log.Printf("seed %d: %v", s, err)
				return
			}
			results[idx] = r
		}(i, seed)
	}
	wg.Wait()

	var avg runResult
	for _, r := range results {
		avg.meanDepth += r.meanDepth
		avg.meanHeight += r.meanHeight
		avg.deaths += r.deaths
	}
	n := float64(len(results))
	avg.meanDepth /= n
	avg.meanHeight /= n

	fe.mu.Lock()
	fe.lastResult = avg
	fe.mu.Unlock()

	return objective(avg.meanDepth, avg.meanHeight)
}

// objective rewards deep roots first and tall shoots second.
func objective(meanDepth, meanHeight float64) float64 {
	return -(meanDepth + heightWeight*meanHeight)
}

// runGarden sows evenly spaced seeds and runs one garden to maxTicks.
func (fe *FitnessEvaluator) runGarden(cfg *config.Config, seed uint64) (runResult, error) {
	g, err := garden.New(cfg, garden.Options{Seed: seed})
	if err != nil {
		return runResult{}, err
	}
	defer g.Close()

	kind, err := plant.ParseKind(cfg.Garden.DefaultKind)
	if err != nil {
		return runResult{}, err
	}
	size, err := plant.ParseSeedSize(cfg.Garden.DefaultSeedSize)
	if err != nil {
		return runResult{}, err
	}

	cols, _ := g.Dims()
	spacing := cols / (fe.sowings + 1)
	for i := 1; i <= fe.sowings; i++ {
		if _, err := g.Sow(i*spacing, cfg.Shoot.SowingRow, kind, size); err != nil {
			return runResult{}, err
		}
	}

	ctx := context.Background()
	for g.Ticks() < fe.maxTicks {
		if err := g.Tick(ctx); err != nil {
			return runResult{}, err
		}
	}
	return summarizeStats(g.Stats()), nil
}

// summarizeStats averages final depth and height over every sowing.
// Seeds that never germinated count as zero.
func summarizeStats(stats []plant.Stats) runResult {
	var r runResult
	depths := make([]float64, 0, len(stats))
	heights := make([]float64, 0, len(stats))
	for _, s := range stats {
		depths = append(depths, s.RootDepth)
		heights = append(heights, s.Height)
		if !s.Alive {
			r.deaths++
		}
	}
	r.meanDepth = telemetry.Summarize(depths).Mean
	r.meanHeight = telemetry.Summarize(heights).Mean
	return r
}
