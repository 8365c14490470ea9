package demand

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

var (
	ErrNoData        = errors.New("demand: no aggregated data to train on")
	ErrNotTrained    = errors.New("demand: model not trained")
	ErrUnknownCorral = errors.New("demand: corral not in model")
	ErrInvalidHour   = errors.New("demand: hour must be in [0,23]")
	ErrInvalidDay    = errors.New("demand: day of week must be in [0,6]")
)

const modelVersion = 1

// Profile holds the learned means for one corral at decreasing specificity.
// Slots is keyed by dow*24+hour.
type Profile struct {
	Slots   map[int]float64 `yaml:"slots"`
	Weekday map[int]float64 `yaml:"weekday"`
	Weekend map[int]float64 `yaml:"weekend"`
	Hourly  map[int]float64 `yaml:"hourly"`
	Overall float64         `yaml:"overall"`
}

// Model is a per-corral profile of expected cart counts.
type Model struct {
	Version   int                 `yaml:"version"`
	TrainedAt time.Time           `yaml:"trainedAt"`
	Report    TrainReport         `yaml:"report"`
	Corrals   map[string]*Profile `yaml:"corrals"`
}

type TrainOptions struct {
	// TestFraction of the aggregates is held out for evaluation.
	TestFraction float64
	Seed         int64
}

func DefaultTrainOptions() TrainOptions { return TrainOptions{TestFraction: 0.2, Seed: 42} }

type TrainReport struct {
	MAE          float64 `json:"mae" yaml:"mae"`
	RMSE         float64 `json:"rmse" yaml:"rmse"`
	R2           float64 `json:"r2" yaml:"r2"`
	TrainSamples int     `json:"trainSamples" yaml:"trainSamples"`
	TestSamples  int     `json:"testSamples" yaml:"testSamples"`
	// Unscored counts held-out aggregates whose corral never appeared in
	// training. They are left out of MAE, RMSE and R2.
	Unscored int `json:"unscored" yaml:"unscored"`
	Corrals  int `json:"corrals" yaml:"corrals"`
}

// Train fits a Model on a shuffled training split of aggs and scores it on
// the held-out remainder.
func Train(aggs []Aggregate, o TrainOptions, now time.Time) (*Model, error) {
	if len(aggs) == 0 {
		return nil, ErrNoData
	}
	if o.TestFraction < 0 || o.TestFraction >= 1 {
		return nil, fmt.Errorf("demand: test fraction %v not in [0,1)", o.TestFraction)
	}
	idx := rand.New(rand.NewSource(o.Seed)).Perm(len(aggs))
	nTest := int(math.Ceil(float64(len(aggs)) * o.TestFraction))
	if nTest >= len(aggs) {
		nTest = len(aggs) - 1
	}
	train := make([]Aggregate, 0, len(aggs)-nTest)
	test := make([]Aggregate, 0, nTest)
	for i, j := range idx {
		if i < nTest {
			test = append(test, aggs[j])
		} else {
			train = append(train, aggs[j])
		}
	}

	m := fit(train)
	m.TrainedAt = now.UTC()
	m.Report = evaluate(m, test)
	m.Report.TrainSamples = len(train)
	m.Report.TestSamples = len(test)
	m.Report.Corrals = len(m.Corrals)
	return m, nil
}

type meanAcc struct {
	sum float64
	n   int
}

func (a *meanAcc) add(v float64) { a.sum += v; a.n++ }

func (a meanAcc) mean() float64 { return a.sum / float64(a.n) }

func fit(aggs []Aggregate) *Model {
	type acc struct {
		slots, weekday, weekend, hourly map[int]*meanAcc
		overall                         meanAcc
	}
	bump := func(m map[int]*meanAcc, k int, v float64) {
		a, ok := m[k]
		if !ok {
			a = &meanAcc{}
			m[k] = a
		}
		a.add(v)
	}
	byCorral := map[string]*acc{}
	for _, a := range aggs {
		c, ok := byCorral[a.CorralID]
		if !ok {
			c = &acc{slots: map[int]*meanAcc{}, weekday: map[int]*meanAcc{}, weekend: map[int]*meanAcc{}, hourly: map[int]*meanAcc{}}
			byCorral[a.CorralID] = c
		}
		bump(c.slots, a.DayOfWeek*24+a.Hour, a.Mean)
		if a.IsWeekend {
			bump(c.weekend, a.Hour, a.Mean)
		} else {
			bump(c.weekday, a.Hour, a.Mean)
		}
		bump(c.hourly, a.Hour, a.Mean)
		c.overall.add(a.Mean)
	}

	flatten := func(m map[int]*meanAcc) map[int]float64 {
		out := make(map[int]float64, len(m))
		for k, a := range m {
			out[k] = a.mean()
		}
		return out
	}
	m := &Model{Version: modelVersion, Corrals: make(map[string]*Profile, len(byCorral))}
	for id, c := range byCorral {
		m.Corrals[id] = &Profile{
			Slots:   flatten(c.slots),
			Weekday: flatten(c.weekday),
			Weekend: flatten(c.weekend),
			Hourly:  flatten(c.hourly),
			Overall: c.overall.mean(),
		}
	}
	return m
}

func evaluate(m *Model, test []Aggregate) TrainReport {
	var r TrainReport
	scored := make([]Aggregate, 0, len(test))
	preds := make([]float64, 0, len(test))
	for _, a := range test {
		p, err := m.Predict(a.CorralID, a.Hour, a.DayOfWeek)
		if err != nil {
			r.Unscored++
			continue
		}
		scored = append(scored, a)
		preds = append(preds, p)
	}
	if len(scored) == 0 {
		return r
	}

	var sumAbs, sumSq, sumY float64
	for i, a := range scored {
		d := preds[i] - a.Mean
		sumAbs += math.Abs(d)
		sumSq += d * d
		sumY += a.Mean
	}
	n := float64(len(scored))
	r.MAE = sumAbs / n
	r.RMSE = math.Sqrt(sumSq / n)
	meanY := sumY / n
	var ssTot float64
	for _, a := range scored {
		ssTot += (a.Mean - meanY) * (a.Mean - meanY)
	}
	switch {
	case ssTot > 0:
		r.R2 = 1 - sumSq/ssTot
	case sumSq == 0:
		r.R2 = 1
	}
	return r
}

// Predict returns the expected cart count, never negative.
func (m *Model) Predict(corral string, hour, dow int) (float64, error) {
	if m == nil {
		return 0, ErrNotTrained
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidHour, hour)
	}
	if dow < 0 || dow > 6 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDay, dow)
	}
	p, ok := m.Corrals[corral]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCorral, corral)
	}
	v := p.Overall
	part := p.Weekday
	if IsWeekend(dow) {
		part = p.Weekend
	}
	if s, ok := p.Slots[dow*24+hour]; ok {
		v = s
	} else if s, ok := part[hour]; ok {
		v = s
	} else if s, ok := p.Hourly[hour]; ok {
		v = s
	}
	return math.Max(0, v), nil
}

// CorralIDs lists the corrals the model knows, sorted.
func (m *Model) CorralIDs() []string {
	ids := make([]string, 0, len(m.Corrals))
	for id := range m.Corrals {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
