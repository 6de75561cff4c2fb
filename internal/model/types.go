package model

import "time"

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// FittedModel is a snapshot of a fitted network: enough to predict again
// without the training data.
type FittedModel struct {
	VersionedRecord
	ID           string    `json:"id"`
	Topology     []int     `json:"topology"`
	Weights      []float64 `json:"weights"`
	Activation   string    `json:"activation"`
	Output       string    `json:"output"`
	Bias         bool      `json:"bias"`
	IsClassifier bool      `json:"is_classifier"`
	Algorithm    string    `json:"algorithm"`
	Loss         float64   `json:"loss"`
	CreatedAt    time.Time `json:"created_at"`
	// FeatureMin and FeatureMax are the min-max bounds the training features
	// were normalized with. Both are empty when no scaling was applied.
	FeatureMin []float64 `json:"feature_min,omitempty"`
	FeatureMax []float64 `json:"feature_max,omitempty"`
}

// RunRecord describes one fit: the loss after every iteration.
type RunRecord struct {
	VersionedRecord
	ID        string    `json:"id"`
	ModelID   string    `json:"model_id"`
	Algorithm string    `json:"algorithm"`
	Iters     int       `json:"iters"`
	Curve     []float64 `json:"curve"`
	Elapsed   float64   `json:"elapsed_seconds"`
}
