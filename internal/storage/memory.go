package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/FlavioCFOliveira/neuroweights/internal/model"
	"github.com/pkg/errors"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	models      map[string]model.FittedModel
	runs        map[string]model.RunRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.models = make(map[string]model.FittedModel)
	s.runs = make(map[string]model.RunRecord)
	return nil
}

func (s *MemoryStore) SaveModel(_ context.Context, m model.FittedModel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	m.Topology = append([]int(nil), m.Topology...)
	m.Weights = append([]float64(nil), m.Weights...)
	m.FeatureMin = append([]float64(nil), m.FeatureMin...)
	m.FeatureMax = append([]float64(nil), m.FeatureMax...)
	s.models[m.ID] = m
	return nil
}

func (s *MemoryStore) GetModel(_ context.Context, id string) (model.FittedModel, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.FittedModel{}, false, errNotInitialized
	}
	m, ok := s.models[id]
	if !ok {
		return model.FittedModel{}, false, nil
	}
	m.Topology = append([]int(nil), m.Topology...)
	m.Weights = append([]float64(nil), m.Weights...)
	m.FeatureMin = append([]float64(nil), m.FeatureMin...)
	m.FeatureMax = append([]float64(nil), m.FeatureMax...)
	return m, true, nil
}

func (s *MemoryStore) ListModels(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, errNotInitialized
	}
	ids := make([]string, 0, len(s.models))
	for id := range s.models {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *MemoryStore) SaveRun(_ context.Context, run model.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	run.Curve = append([]float64(nil), run.Curve...)
	s.runs[run.ID] = run
	return nil
}

func (s *MemoryStore) GetRun(_ context.Context, id string) (model.RunRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return model.RunRecord{}, false, errNotInitialized
	}
	run, ok := s.runs[id]
	if !ok {
		return model.RunRecord{}, false, nil
	}
	run.Curve = append([]float64(nil), run.Curve...)
	return run, true, nil
}
