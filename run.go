/*
Copyright © 2024 the Exposure authors.
This file is part of Exposure.

Exposure is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Exposure is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Exposure.  If not, see <http://www.gnu.org/licenses/>.
*/

package exposure

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"
)

// blockSize is the number of consecutive trials that share one random
// stream. Streams are seeded from the run seed and the block index, so
// results do not depend on the number of workers.
const blockSize = 256

// TrialCount returns the number of trials to run when expected
// occupants are expected to be infectious. Fewer trials are run as
// the per-trial cost grows.
func TrialCount(expected float64) int {
	switch {
	case expected < 0.5:
		return 25000
	case expected < 2:
		return 8000
	case expected < 5:
		return 2000
	case expected < 10:
		return 1000
	default:
		return 300
	}
}

// Simulation holds the settings for one invocation of Run.
type Simulation struct {
	Grid     *ParticleGrid
	Seed     uint64
	Workers  int
	Trials   int // zero selects the count with TrialCount
	Repeats  int // number of repeated exposures to report, if positive
	Outputs  map[string]string
	Observer Observer

	run string
}

// Option configures a Simulation.
type Option func(*Simulation) error

// WithSeed sets the seed of the random streams.
func WithSeed(seed uint64) Option {
	return func(s *Simulation) error {
		s.Seed = seed
		return nil
	}
}

// WithWorkers sets the number of goroutines that run trials.
func WithWorkers(n int) Option {
	return func(s *Simulation) error {
		if n < 1 {
			return fmt.Errorf("exposure: number of workers must be positive, have %d", n)
		}
		s.Workers = n
		return nil
	}
}

// WithTrials fixes the number of trials. Zero restores adaptive selection.
func WithTrials(n int) Option {
	return func(s *Simulation) error {
		if n < 0 {
			return fmt.Errorf("exposure: number of trials must not be negative, have %d", n)
		}
		s.Trials = n
		return nil
	}
}

// WithObserver sets the receiver of simulation events.
func WithObserver(o Observer) Option {
	return func(s *Simulation) error {
		if o == nil {
			o = nopObserver{}
		}
		s.Observer = o
		return nil
	}
}

// WithGrid replaces the default particle grid.
func WithGrid(g *ParticleGrid) Option {
	return func(s *Simulation) error {
		if g == nil || g.Len() < 2 {
			return fmt.Errorf("exposure: invalid particle grid")
		}
		s.Grid = g
		return nil
	}
}

// WithRepeatedExposures adds the cumulative risk of n identical
// exposures to the result.
func WithRepeatedExposures(n int) Option {
	return func(s *Simulation) error {
		if n < 0 {
			return fmt.Errorf("exposure: number of repeated exposures must not be negative, have %d", n)
		}
		s.Repeats = n
		return nil
	}
}

// WithOutputs sets derived output expressions, keyed by output name,
// to evaluate against the result. See Result.Derive.
func WithOutputs(outputs map[string]string) Option {
	return func(s *Simulation) error {
		s.Outputs = outputs
		return nil
	}
}

// Run simulates the risk of infection for the scenario in in. It returns a
// *ValidationError, without running any trials, if in is invalid, and an
// error wrapping ctx.Err() if ctx is done before all trials finish.
func Run(ctx context.Context, in *Inputs, opts ...Option) (*Result, error) {
	if in == nil {
		return nil, fmt.Errorf("exposure: no inputs")
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		Grid:     Particles,
		Seed:     uint64(time.Now().UnixNano()),
		Workers:  runtime.GOMAXPROCS(0),
		Observer: nopObserver{},
		run:      uuid.NewString(),
	}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	start := time.Now()
	s.emit(EventInputs, Fields{
		"occupants":   in.Occupants,
		"prevalence":  in.PrevalenceFraction(),
		"distance":    in.Distance,
		"duration":    in.Duration,
		"ach":         in.ACH,
		"room_volume": in.RoomVolume,
		"f_i":         in.InhalationFactor,
		"masked":      in.MaskedFraction,
		"user":        in.UserActivity.String(),
		"others":      in.OthersActivity.String() + "/" + in.OthersVocalization.String(),
		"immune":      in.ImmuneStatus.String(),
	})

	n := s.Trials
	if n == 0 {
		n = TrialCount(in.ExpectedInfectious())
	}
	s.emit(EventTrials, Fields{
		"trials":              n,
		"expected_infectious": in.ExpectedInfectious(),
		"workers":             s.Workers,
		"seed":                s.Seed,
	})

	var risks []float64
	var err error
	if in.ImmuneStatus == ImmuneUnsure {
		risks, err = s.blend(ctx, in, n)
	} else {
		risks, err = s.trials(ctx, newChamber(in, s.Grid, in.ImmuneStatus.EmissionMultiplier()), n, s.Seed, in.ImmuneStatus)
	}
	if err != nil {
		return nil, err
	}

	r := s.result(in, risks)
	if err := r.Derive(s.Outputs); err != nil {
		return nil, err
	}
	s.emit(EventComplete, Fields{
		"risk":    r.Risk,
		"trials":  len(risks),
		"elapsed": time.Since(start).String(),
	})
	return r, nil
}

// trials runs n trials in c on s.Workers goroutines. Workers take blocks
// of trials in turn and each writes only to its own blocks of the
// returned slice. The first trial is reported to the observer tagged with
// tier, the immune status the chamber was built for.
func (s *Simulation) trials(ctx context.Context, c *chamber, n int, seed uint64, tier ImmuneStatus) ([]float64, error) {
	risks := make([]float64, n)
	nblocks := (n + blockSize - 1) / blockSize
	nprocs := min(s.Workers, nblocks)

	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			for b := pp; b < nblocks; b += nprocs {
				if ctx.Err() != nil {
					return
				}
				rng := rand.New(rand.NewSource(blockSeed(seed, uint64(b))))
				for i := b * blockSize; i < min((b+1)*blockSize, n); i++ {
					t, err := c.trial(ctx, rng)
					if err != nil {
						return
					}
					risks[i] = t.risk
					if i == 0 {
						s.emit(EventFirstTrial, Fields{
							"tier":             tier.String(),
							"dose":             t.dose,
							"infectious":       t.infectious,
							"transmissibility": t.transmissibility,
							"id50":             t.id50,
							"breathing_rate":   t.breathingRate,
							"protection":       t.protection,
							"risk":             t.risk,
						})
					}
				}
			}
		}(pp)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("exposure: simulation cancelled: %w", err)
	}
	return risks, nil
}

// blend runs the normal and moderately immunocompromised scenarios
// concurrently and pools their trials with equal weight.
func (s *Simulation) blend(ctx context.Context, in *Inputs, n int) ([]float64, error) {
	tiers := []ImmuneStatus{ImmuneNormal, ImmuneModerate}
	risks := make([][]float64, len(tiers))
	errs := make([]error, len(tiers))
	var wg sync.WaitGroup
	wg.Add(len(tiers))
	for i, tier := range tiers {
		go func(i int, tier ImmuneStatus) {
			defer wg.Done()
			c := newChamber(in, s.Grid, tier.EmissionMultiplier())
			risks[i], errs[i] = s.trials(ctx, c, n, blockSeed(s.Seed, uint64(i)<<32|0xffffffff), tier)
		}(i, tier)
	}
	wg.Wait()
	pooled := make([]float64, 0, len(tiers)*n)
	for i := range tiers {
		if errs[i] != nil {
			return nil, errs[i]
		}
		pooled = append(pooled, risks[i]...)
	}
	return pooled, nil
}

func (s *Simulation) emit(name string, f Fields) {
	s.Observer.Observe(Event{Name: name, Run: s.run, Fields: f})
}

// blockSeed derives the seed of block b from the run seed with the
// splitmix64 finalizer.
func blockSeed(seed, b uint64) uint64 {
	z := seed + (b+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
