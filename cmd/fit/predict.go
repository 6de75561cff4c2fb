package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/FlavioCFOliveira/neuroweights/internal/net"
	"github.com/FlavioCFOliveira/neuroweights/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

func runPredict(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	modelPath := fs.String("model", "", "gob model file written by train -out")
	modelID := fs.String("model-id", "", "load the model with this id from the store instead")
	storeKind := fs.String("store", "sqlite", "store backend for -model-id: memory|sqlite")
	dbPath := fs.String("db-path", "neuroweights.db", "sqlite database path")
	dataPath := fs.String("data", "", "CSV dataset path")
	labelCols := fs.String("labels", "", "comma-separated label column indices; when set the loss is reported")
	header := fs.Bool("header", false, "skip the first CSV line")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" {
		return errors.New("predict: -data is required")
	}

	n, err := loadModel(ctx, *modelPath, *modelID, *storeKind, *dbPath)
	if err != nil {
		return err
	}

	cols, err := parseInts(*labelCols)
	if err != nil {
		return errors.Wrap(err, "predict: -labels")
	}
	data, err := net.LoadCSV(*dataPath, cols, *header)
	if err != nil {
		return err
	}
	if scaling := n.Scaling(); scaling.Width() > 0 {
		if err := data.Scale(scaling); err != nil {
			return errors.Wrap(err, "predict: applying the model's feature scaling")
		}
	}

	pred, err := n.Predict(data.X)
	if err != nil {
		return err
	}
	rows, outputs := pred.Dims()
	for i := 0; i < rows; i++ {
		fields := make([]string, outputs)
		for j := range fields {
			fields[j] = strconv.FormatFloat(pred.At(i, j), 'f', 6, 64)
		}
		fmt.Fprintln(stdout, strings.Join(fields, ","))
	}

	if data.Y != nil {
		score, err := n.Score(data.X, data.Y)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Loss on %s rows: %.6f\n", humanize.Comma(int64(rows)), score)
	}
	return nil
}

func loadModel(ctx context.Context, path, id, kind, dbPath string) (*net.NeuralNetwork, error) {
	switch {
	case path != "" && id != "":
		return nil, errors.New("predict: use either -model or -model-id")
	case path != "":
		return net.Load(path)
	case id != "":
		store, err := openStore(ctx, kind, dbPath)
		if err != nil {
			return nil, err
		}
		defer storage.CloseIfSupported(store)

		m, ok, err := store.GetModel(ctx, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Errorf("predict: model %s not found", id)
		}
		return net.FromModel(m)
	default:
		return nil, errors.New("predict: -model or -model-id is required")
	}
}
