package net

import (
	"encoding/gob"
	"io"
	"math/rand"
	"os"

	"github.com/FlavioCFOliveira/neuroweights/internal/activations"
	"github.com/FlavioCFOliveira/neuroweights/internal/model"
	"github.com/pkg/errors"
)

// ErrIncompatibleModel is returned when a saved model was written with a
// newer schema or codec, or does not describe a consistent network.
var ErrIncompatibleModel = errors.New("incompatible model")

// Model returns a snapshot of the fitted network.
func (n *NeuralNetwork) Model() (model.FittedModel, error) {
	if !n.fitted {
		return model.FittedModel{}, ErrNotFitted
	}
	scaling := n.Scaling()
	return model.FittedModel{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: model.CurrentSchemaVersion,
			CodecVersion:  model.CurrentCodecVersion,
		},
		ID:           n.id,
		Topology:     n.Topology(),
		Weights:      n.Weights(),
		Activation:   n.activation.Name(),
		Output:       n.output.String(),
		Bias:         n.cfg.Bias,
		IsClassifier: n.cfg.IsClassifier,
		Algorithm:    string(n.cfg.Algorithm),
		Loss:         n.loss,
		CreatedAt:    n.fittedAt,
		FeatureMin:   scaling.Min,
		FeatureMax:   scaling.Max,
	}, nil
}

// Run returns the record of the last fit.
func (n *NeuralNetwork) Run() (model.RunRecord, error) {
	if !n.fitted {
		return model.RunRecord{}, ErrNotFitted
	}
	return model.RunRecord{
		VersionedRecord: model.VersionedRecord{
			SchemaVersion: model.CurrentSchemaVersion,
			CodecVersion:  model.CurrentCodecVersion,
		},
		ID:        n.id,
		ModelID:   n.id,
		Algorithm: string(n.cfg.Algorithm),
		Iters:     n.iters,
		Curve:     n.Curve(),
		Elapsed:   n.elapsed.Seconds(),
	}, nil
}

// FromModel rebuilds a fitted network that predicts exactly like the one m
// was taken from. The optimizer settings are the defaults.
func FromModel(m model.FittedModel) (*NeuralNetwork, error) {
	if m.SchemaVersion > model.CurrentSchemaVersion || m.CodecVersion > model.CurrentCodecVersion {
		return nil, errors.Wrapf(ErrIncompatibleModel, "schema %d codec %d", m.SchemaVersion, m.CodecVersion)
	}

	topology := Topology(append([]int(nil), m.Topology...))
	if err := topology.Validate(); err != nil {
		return nil, errors.Wrap(ErrIncompatibleModel, err.Error())
	}
	if len(m.Weights) != topology.NumWeights() {
		return nil, errors.Wrapf(ErrIncompatibleModel, "%d weights for topology %v", len(m.Weights), m.Topology)
	}
	act, err := activations.Parse(m.Activation)
	if err != nil {
		return nil, err
	}
	output, err := ParseOutputKind(m.Output)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Activation = m.Activation
	cfg.Bias = m.Bias
	cfg.IsClassifier = m.IsClassifier
	if alg := Algorithm(m.Algorithm); alg.valid() {
		cfg.Algorithm = alg
	}
	if hidden := len(topology) - 2; hidden > 0 {
		cfg.HiddenNodes = append([]int(nil), topology[1:len(topology)-1]...)
	}

	n := &NeuralNetwork{
		cfg:         cfg,
		activation:  act,
		maxAttempts: cfg.MaxIters,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		fitted:      true,
		id:          m.ID,
		fittedAt:    m.CreatedAt,
		topology:    topology,
		weights:     append([]float64(nil), m.Weights...),
		loss:        m.Loss,
		output:      output,
	}
	if len(m.FeatureMin) > 0 || len(m.FeatureMax) > 0 {
		if err := n.SetScaling(Scaling{Min: m.FeatureMin, Max: m.FeatureMax}); err != nil {
			return nil, errors.Wrap(ErrIncompatibleModel, err.Error())
		}
	}
	return n, nil
}

// Save writes the fitted network to a file using gob encoding.
func (n *NeuralNetwork) Save(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	if err := n.Encode(file); err != nil {
		file.Close()
		return err
	}
	return errors.Wrap(file.Close(), "failed to close file")
}

// Load reads a network written by Save.
func Load(filename string) (*NeuralNetwork, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return Decode(file)
}

// Encode writes the fitted network to w using gob encoding.
func (n *NeuralNetwork) Encode(w io.Writer) error {
	m, err := n.Model()
	if err != nil {
		return err
	}
	if err := gob.NewEncoder(w).Encode(m); err != nil {
		return errors.Wrap(err, "failed to encode model")
	}
	return nil
}

// Decode reads a network written by Encode.
func Decode(r io.Reader) (*NeuralNetwork, error) {
	var m model.FittedModel
	if err := gob.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "failed to decode model")
	}
	return FromModel(m)
}
