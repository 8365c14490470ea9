package demand

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StevenGantumur/Woodmans-Tracker/internal/model"
)

var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func snap(corral string, count int, day, hour int) model.Snapshot {
	return model.NewSnapshot(corral, count, monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour))
}

func TestFeaturesFor(t *testing.T) {
	f := FeaturesFor(6, 5)
	assert.True(t, f.IsWeekend)
	assert.InDelta(t, 1.0, f.HourSin, 1e-12)
	assert.InDelta(t, 0.0, f.HourCos, 1e-12)
	assert.False(t, FeaturesFor(0, 4).IsWeekend)
	assert.True(t, IsWeekend(6))
}

func TestAggregateSnapshots_DropsSparseGroups(t *testing.T) {
	snaps := []model.Snapshot{
		snap("A", 2, 0, 9), snap("A", 4, 7, 9), snap("A", 6, 14, 9),
		snap("A", 10, 0, 10), snap("A", 10, 7, 10),
		snap("B", 1, 1, 9), snap("B", 1, 8, 9), snap("B", 1, 15, 9),
	}
	aggs := AggregateSnapshots(snaps, 3)
	require.Len(t, aggs, 2)

	a := aggs[0]
	assert.Equal(t, "A", a.CorralID)
	assert.Equal(t, 0, a.DayOfWeek)
	assert.Equal(t, 9, a.Hour)
	assert.Equal(t, 3, a.Count)
	assert.InDelta(t, 4.0, a.Mean, 1e-12)
	assert.InDelta(t, 2.0, a.Std, 1e-12)

	assert.Equal(t, "B", aggs[1].CorralID)
	assert.Zero(t, aggs[1].Std)
}

func TestAggregateSnapshots_DefaultMinimum(t *testing.T) {
	snaps := []model.Snapshot{snap("A", 1, 0, 1), snap("A", 1, 7, 1)}
	assert.Empty(t, AggregateSnapshots(snaps, 0))
}

func weeklyHistory() []model.Snapshot {
	var snaps []model.Snapshot
	for week := 0; week < 4; week++ {
		for dow := 0; dow < 7; dow++ {
			for hour := 8; hour < 20; hour++ {
				base := 5
				if dow >= 5 {
					base = 12
				}
				if hour >= 17 {
					base += 6
				}
				snaps = append(snaps, snap("A", base, week*7+dow, hour))
				snaps = append(snaps, snap("B", base/2, week*7+dow, hour))
			}
		}
	}
	return snaps
}

var fullFit = TrainOptions{TestFraction: 0, Seed: 42}

func TestTrain_Report(t *testing.T) {
	aggs := AggregateSnapshots(weeklyHistory(), DefaultMinObservations)
	m, err := Train(aggs, DefaultTrainOptions(), monday)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Report.Corrals)
	assert.Equal(t, len(aggs), m.Report.TrainSamples+m.Report.TestSamples)
	assert.Equal(t, int(math.Ceil(float64(len(aggs))*0.2)), m.Report.TestSamples)
	assert.Zero(t, m.Report.Unscored)
	assert.Less(t, m.Report.MAE, 2.0)
	assert.LessOrEqual(t, m.Report.MAE, m.Report.RMSE+1e-12)
	assert.Greater(t, m.Report.R2, 0.5)
}

func TestEvaluate_SkipsCorralsMissingFromTraining(t *testing.T) {
	train := []Aggregate{
		{CorralID: "A", Features: Features{DayOfWeek: 0, Hour: 9}, Mean: 4, Count: 3},
		{CorralID: "A", Features: Features{DayOfWeek: 1, Hour: 9}, Mean: 6, Count: 3},
	}
	m := fit(train)
	test := []Aggregate{
		{CorralID: "A", Features: Features{DayOfWeek: 0, Hour: 9}, Mean: 5, Count: 3},
		{CorralID: "Z", Features: Features{DayOfWeek: 0, Hour: 9}, Mean: 40, Count: 3},
	}
	r := evaluate(m, test)
	assert.Equal(t, 1, r.Unscored)
	assert.InDelta(t, 1.0, r.MAE, 1e-9)
	assert.InDelta(t, 1.0, r.RMSE, 1e-9)

	r = evaluate(m, test[1:])
	assert.Equal(t, 1, r.Unscored)
	assert.Zero(t, r.MAE)
}

func TestTrain_LearnsWeeklyPattern(t *testing.T) {
	m, err := Train(AggregateSnapshots(weeklyHistory(), DefaultMinObservations), fullFit, monday)
	require.NoError(t, err)
	assert.Zero(t, m.Report.TestSamples)

	p := NewPredictor(m)
	v, err := p.Predict("A", 18, 6)
	require.NoError(t, err)
	assert.InDelta(t, 18.0, v, 1e-9)
	v, err = p.Predict("A", 9, 2)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, v, 1e-9)

	// No history before 8am: falls back to the corral's overall mean.
	v, err = p.Predict("B", 3, 2)
	require.NoError(t, err)
	assert.Greater(t, v, 0.0)
}

func TestTrain_Deterministic(t *testing.T) {
	aggs := AggregateSnapshots(weeklyHistory(), DefaultMinObservations)
	a, err := Train(aggs, DefaultTrainOptions(), monday)
	require.NoError(t, err)
	b, err := Train(aggs, DefaultTrainOptions(), monday)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTrain_Errors(t *testing.T) {
	_, err := Train(nil, DefaultTrainOptions(), monday)
	assert.ErrorIs(t, err, ErrNoData)
	_, err = Train([]Aggregate{{CorralID: "A"}}, TrainOptions{TestFraction: 1}, monday)
	assert.Error(t, err)
}

func TestPredictor_Errors(t *testing.T) {
	p := NewPredictor(nil)
	_, err := p.Predict("A", 1, 1)
	assert.ErrorIs(t, err, ErrNotTrained)
	_, err = p.PredictDay("A", 1)
	assert.ErrorIs(t, err, ErrNotTrained)

	m, err := Train(AggregateSnapshots(weeklyHistory(), 3), DefaultTrainOptions(), monday)
	require.NoError(t, err)
	p.SetModel(m)
	_, err = p.Predict("Z", 1, 1)
	assert.ErrorIs(t, err, ErrUnknownCorral)
	_, err = p.Predict("A", 24, 1)
	assert.ErrorIs(t, err, ErrInvalidHour)
	_, err = p.Predict("A", 1, 7)
	assert.ErrorIs(t, err, ErrInvalidDay)
}

func TestModel_PredictClampsNegative(t *testing.T) {
	m := &Model{Version: modelVersion, Corrals: map[string]*Profile{"A": {Overall: -3}}}
	v, err := m.Predict("A", 2, 2)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestPredictDay(t *testing.T) {
	m, err := Train(AggregateSnapshots(weeklyHistory(), 3), fullFit, monday)
	require.NoError(t, err)
	day, err := NewPredictor(m).PredictDay("A", 5)
	require.NoError(t, err)
	require.Len(t, day, 24)
	for h, p := range day {
		assert.Equal(t, h, p.Hour)
		assert.Equal(t, 5, p.DayOfWeek)
		assert.Equal(t, math.Round(p.ExpectedCarts*10)/10, p.ExpectedCarts)
	}
	assert.InDelta(t, 12.0, day[10].ExpectedCarts, 1e-9)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models", "demand.yaml")

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	m, err := Train(AggregateSnapshots(weeklyHistory(), 3), DefaultTrainOptions(), monday)
	require.NoError(t, err)
	require.NoError(t, Save(m, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.Report, got.Report)
	assert.Equal(t, m.CorralIDs(), got.CorralIDs())
	for _, id := range m.CorralIDs() {
		want, _ := m.Predict(id, 18, 6)
		have, err := got.Predict(id, 18, 6)
		require.NoError(t, err)
		assert.InDelta(t, want, have, 1e-9)
	}

	assert.ErrorIs(t, Save(nil, path), ErrNotTrained)
	require.NoError(t, os.WriteFile(path, []byte("version: 99\n"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}
