package demand

import (
	"math"
	"sync"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

// Predictor serves predictions from a model that can be swapped after retraining.
type Predictor struct {
	mu sync.RWMutex
	m  *Model
}

func NewPredictor(m *Model) *Predictor { return &Predictor{m: m} }

func (p *Predictor) SetModel(m *Model) {
	p.mu.Lock()
	p.m = m
	p.mu.Unlock()
}

func (p *Predictor) Model() *Model {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.m
}

func (p *Predictor) Predict(corral string, hour, dow int) (float64, error) {
	return p.Model().Predict(corral, hour, dow)
}

// PredictDay returns one prediction per hour, rounded to a tenth of a cart.
func (p *Predictor) PredictDay(corral string, dow int) ([]model.Prediction, error) {
	m := p.Model()
	out := make([]model.Prediction, 0, 24)
	for h := 0; h < 24; h++ {
		v, err := m.Predict(corral, h, dow)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Prediction{CorralID: corral, DayOfWeek: dow, Hour: h, ExpectedCarts: math.Round(v*10) / 10})
	}
	return out, nil
}
