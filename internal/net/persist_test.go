package net

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/FlavioCFOliveira/neuroweights/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func fittedBlobs(t *testing.T) (*NeuralNetwork, *mat.Dense) {
	t.Helper()
	x, y := twoBlobs()
	n, err := New(blobConfig())
	require.NoError(t, err)
	require.NoError(t, n.Fit(x, y, nil))
	return n, x
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	n, x := fittedBlobs(t)

	var buf bytes.Buffer
	require.NoError(t, n.Encode(&buf))
	loaded, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, n.ID(), loaded.ID())
	assert.Equal(t, n.Weights(), loaded.Weights())
	assert.Equal(t, n.Topology(), loaded.Topology())
	assert.Equal(t, n.Output(), loaded.Output())
	assert.Equal(t, n.Loss(), loaded.Loss())

	want, err := n.Predict(x)
	require.NoError(t, err)
	got, err := loaded.Predict(x)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))
}

func TestSaveLoad(t *testing.T) {
	n, x := fittedBlobs(t)
	path := filepath.Join(t.TempDir(), "model.gob")

	require.NoError(t, n.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)

	want, _ := n.Predict(x)
	got, err := loaded.Predict(x)
	require.NoError(t, err)
	assert.True(t, mat.Equal(want, got))

	_, err = Load(filepath.Join(t.TempDir(), "missing.gob"))
	assert.Error(t, err)
}

func TestEncodeUnfitted(t *testing.T) {
	n, err := New(DefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.ErrorIs(t, n.Encode(&buf), ErrNotFitted)
	_, err = n.Model()
	assert.ErrorIs(t, err, ErrNotFitted)
	_, err = n.Run()
	assert.ErrorIs(t, err, ErrNotFitted)
}

func TestModelSnapshot(t *testing.T) {
	n, _ := fittedBlobs(t)

	m, err := n.Model()
	require.NoError(t, err)
	assert.Equal(t, model.CurrentSchemaVersion, m.SchemaVersion)
	assert.Equal(t, []int{3, 4, 1}, m.Topology)
	assert.Equal(t, "tanh", m.Activation)
	assert.Equal(t, "sigmoid", m.Output)
	assert.Equal(t, "gradient_descent", m.Algorithm)
	assert.False(t, m.CreatedAt.IsZero())

	// The snapshot owns its weights.
	m.Weights[0] += 1
	assert.NotEqual(t, m.Weights[0], n.Weights()[0])

	run, err := n.Run()
	require.NoError(t, err)
	assert.Equal(t, m.ID, run.ModelID)
	assert.Equal(t, n.Iters(), run.Iters)
	assert.Equal(t, n.Curve(), run.Curve)
}

func TestFromModelRejectsIncompatible(t *testing.T) {
	n, _ := fittedBlobs(t)
	good, err := n.Model()
	require.NoError(t, err)

	newer := good
	newer.SchemaVersion = model.CurrentSchemaVersion + 1
	_, err = FromModel(newer)
	assert.ErrorIs(t, err, ErrIncompatibleModel)

	short := good
	short.Weights = good.Weights[:5]
	_, err = FromModel(short)
	assert.ErrorIs(t, err, ErrIncompatibleModel)

	badOutput := good
	badOutput.Output = "relu"
	_, err = FromModel(badOutput)
	assert.Error(t, err)

	badScaling := good
	badScaling.FeatureMin = []float64{0, 0, 0}
	badScaling.FeatureMax = []float64{1, 1, 1}
	_, err = FromModel(badScaling)
	assert.ErrorIs(t, err, ErrIncompatibleModel)

	restored, err := FromModel(good)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, restored.Config().HiddenNodes)
}

func TestScalingPersists(t *testing.T) {
	n, _ := fittedBlobs(t)
	scaling := Scaling{Min: []float64{-3, -3}, Max: []float64{3, 3}}
	require.NoError(t, n.SetScaling(scaling))

	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, n.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, scaling, loaded.Scaling())

	m, err := loaded.Model()
	require.NoError(t, err)
	assert.Equal(t, scaling.Min, m.FeatureMin)
	assert.Equal(t, scaling.Max, m.FeatureMax)
}

func TestSetScaling(t *testing.T) {
	unfitted, err := New(blobConfig())
	require.NoError(t, err)
	assert.ErrorIs(t, unfitted.SetScaling(Scaling{Min: []float64{0, 0}, Max: []float64{1, 1}}), ErrNotFitted)

	n, x := fittedBlobs(t)
	assert.Equal(t, 0, n.Scaling().Width())
	assert.ErrorIs(t, n.SetScaling(Scaling{Min: []float64{0}, Max: []float64{1}}), ErrShapeMismatch)
	assert.ErrorIs(t, n.SetScaling(Scaling{Min: []float64{0, 0}, Max: []float64{1}}), ErrShapeMismatch)

	require.NoError(t, n.SetScaling(Scaling{Min: []float64{0, 0}, Max: []float64{1, 1}}))
	assert.Equal(t, 2, n.Scaling().Width())

	// A new fit has not seen the recorded scaling.
	_, y := twoBlobs()
	require.NoError(t, n.Fit(x, y, nil))
	assert.Equal(t, 0, n.Scaling().Width())
}

func TestSaveToMissingDir(t *testing.T) {
	n, _ := fittedBlobs(t)
	err := n.Save(filepath.Join(t.TempDir(), "missing", "model.gob"))
	assert.Error(t, err)
}
