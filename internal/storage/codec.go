package storage

import (
	"encoding/json"

	"github.com/FlavioCFOliveira/neuroweights/internal/model"
	"github.com/pkg/errors"
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeModel(m model.FittedModel) ([]byte, error) {
	return json.Marshal(m)
}

func DecodeModel(data []byte) (model.FittedModel, error) {
	var m model.FittedModel
	if err := json.Unmarshal(data, &m); err != nil {
		return model.FittedModel{}, errors.Wrap(err, "unmarshal model")
	}
	if err := checkVersion(m.VersionedRecord); err != nil {
		return model.FittedModel{}, err
	}
	return m, nil
}

func EncodeRun(r model.RunRecord) ([]byte, error) {
	return json.Marshal(r)
}

func DecodeRun(data []byte) (model.RunRecord, error) {
	var run model.RunRecord
	if err := json.Unmarshal(data, &run); err != nil {
		return model.RunRecord{}, errors.Wrap(err, "unmarshal run")
	}
	if err := checkVersion(run.VersionedRecord); err != nil {
		return model.RunRecord{}, err
	}
	return run, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != model.CurrentSchemaVersion || v.CodecVersion != model.CurrentCodecVersion {
		return errors.Wrapf(ErrVersionMismatch, "schema %d codec %d", v.SchemaVersion, v.CodecVersion)
	}
	return nil
}
