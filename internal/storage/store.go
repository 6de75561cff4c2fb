// Package storage persists fitted models and their training runs.
package storage

import (
	"context"

	"github.com/FlavioCFOliveira/neuroweights/internal/model"
)

// Store defines persistence operations for fitted models and training runs.
// Get methods report a missing record with ok == false and a nil error.
type Store interface {
	Init(ctx context.Context) error
	SaveModel(ctx context.Context, m model.FittedModel) error
	GetModel(ctx context.Context, id string) (model.FittedModel, bool, error)
	ListModels(ctx context.Context) ([]string, error)
	SaveRun(ctx context.Context, run model.RunRecord) error
	GetRun(ctx context.Context, id string) (model.RunRecord, bool, error)
}
