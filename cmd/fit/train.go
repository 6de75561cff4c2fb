package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/FlavioCFOliveira/neuroweights/internal/net"
	"github.com/FlavioCFOliveira/neuroweights/internal/opt"
	"github.com/FlavioCFOliveira/neuroweights/internal/storage"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

var stdout io.Writer = os.Stdout

func runTrain(ctx context.Context, args []string) error {
	cfg := net.DefaultConfig()

	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	dataPath := fs.String("data", "", "CSV dataset path")
	labelCols := fs.String("labels", "", "comma-separated label column indices")
	header := fs.Bool("header", false, "skip the first CSV line")
	normalize := fs.Bool("normalize", false, "min-max normalise the features with bounds fitted on the training rows")
	split := fs.Float64("split", 1, "fraction of rows used for training; the rest is scored")
	hidden := fs.String("hidden", "", "comma-separated hidden layer widths")
	activation := fs.String("activation", cfg.Activation, "hidden activation: identity|relu|sigmoid|tanh")
	algorithm := fs.String("algorithm", string(cfg.Algorithm), "optimizer: random_hill_climb|simulated_annealing|genetic_alg|gradient_descent")
	fs.IntVar(&cfg.MaxIters, "iters", cfg.MaxIters, "maximum iterations")
	noBias := fs.Bool("no-bias", false, "do not append a bias input")
	regression := fs.Bool("regression", false, "fit a regressor instead of a classifier")
	fs.Float64Var(&cfg.LearningRate, "lr", cfg.LearningRate, "learning rate or step size")
	fs.BoolVar(&cfg.EarlyStopping, "early-stopping", cfg.EarlyStopping, "stop after -attempts non-improving iterations")
	fs.IntVar(&cfg.MaxAttempts, "attempts", cfg.MaxAttempts, "attempts budget with -early-stopping")
	fs.Float64Var(&cfg.ClipMax, "clip", cfg.ClipMax, "weight clip bound")
	schedule := fs.String("schedule", "geom", "annealing schedule: geom|arith|exp")
	initTemp := fs.Float64("init-temp", 1, "annealing initial temperature")
	decay := fs.Float64("decay", 0.99, "annealing decay rate")
	minTemp := fs.Float64("min-temp", 0.001, "annealing minimum temperature")
	fs.IntVar(&cfg.PopSize, "pop", cfg.PopSize, "genetic algorithm population size")
	fs.Float64Var(&cfg.MutationProb, "mutation", cfg.MutationProb, "genetic algorithm mutation probability")
	fs.IntVar(&cfg.Restarts, "restarts", cfg.Restarts, "random hill climbing restarts")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "rng seed")
	logEvery := fs.Int("log-every", 0, "log progress every N iterations (0 disables)")
	csvLog := fs.String("csv-log", "", "write per-iteration progress to this CSV file")
	out := fs.String("out", "", "save the fitted model to this gob file")
	storeKind := fs.String("store", "", "also record the model and run: memory|sqlite")
	dbPath := fs.String("db-path", "neuroweights.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dataPath == "" {
		return errors.New("train: -data is required")
	}

	cols, err := parseInts(*labelCols)
	if err != nil {
		return errors.Wrap(err, "train: -labels")
	}
	if len(cols) == 0 {
		return errors.New("train: -labels is required")
	}
	if cfg.HiddenNodes, err = parseInts(*hidden); err != nil {
		return errors.Wrap(err, "train: -hidden")
	}
	if cfg.Schedule, err = parseSchedule(*schedule, *initTemp, *decay, *minTemp); err != nil {
		return errors.Wrap(err, "train: -schedule")
	}
	cfg.Activation = *activation
	cfg.Algorithm = net.Algorithm(*algorithm)
	cfg.Bias = !*noBias
	cfg.IsClassifier = !*regression

	if *logEvery > 0 {
		cfg.Callbacks = append(cfg.Callbacks, net.NewLogger(*logEvery))
	}
	if *csvLog != "" {
		logger, err := net.NewCSVLogger(*csvLog, false)
		if err != nil {
			return err
		}
		defer logger.Close()
		cfg.Callbacks = append(cfg.Callbacks, logger)
	}

	data, err := net.LoadCSV(*dataPath, cols, *header)
	if err != nil {
		return err
	}
	train, test := data.Split(*split)
	if train.Rows() == 0 {
		return errors.Errorf("train: -split %v leaves no training rows", *split)
	}
	var scaling net.Scaling
	if *normalize {
		scaling = train.Normalize()
		if err := test.Scale(scaling); err != nil {
			return err
		}
	}

	n, err := net.New(cfg)
	if err != nil {
		return err
	}
	start := time.Now()
	if err := n.Fit(train.X, train.Y, nil); err != nil {
		return err
	}
	elapsed := time.Since(start)
	if *normalize {
		if err := n.SetScaling(scaling); err != nil {
			return err
		}
	}

	fmt.Fprintf(stdout, "Fitted %s rows in %s iterations (%s)\n",
		humanize.Comma(int64(train.Rows())), humanize.Comma(int64(n.Iters())), elapsed.Round(time.Millisecond))
	if err := n.Summary(stdout); err != nil {
		return err
	}
	if test.Rows() > 0 {
		score, err := n.Score(test.X, test.Y)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Held-out loss on %s rows: %.6f\n", humanize.Comma(int64(test.Rows())), score)
	}

	if *out != "" {
		if err := n.Save(*out); err != nil {
			return err
		}
		if info, err := os.Stat(*out); err == nil {
			fmt.Fprintf(stdout, "Saved model to %s (%s)\n", *out, humanize.Bytes(uint64(info.Size())))
		}
	}

	if *storeKind != "" {
		if err := record(ctx, n, *storeKind, *dbPath); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Recorded model %s in %s store\n", n.ID(), *storeKind)
	}
	return nil
}

func record(ctx context.Context, n *net.NeuralNetwork, kind, dbPath string) error {
	store, err := openStore(ctx, kind, dbPath)
	if err != nil {
		return err
	}
	defer storage.CloseIfSupported(store)

	m, err := n.Model()
	if err != nil {
		return err
	}
	if err := store.SaveModel(ctx, m); err != nil {
		return err
	}
	run, err := n.Run()
	if err != nil {
		return err
	}
	return store.SaveRun(ctx, run)
}

func openStore(ctx context.Context, kind, dbPath string) (storage.Store, error) {
	store, err := storage.NewStore(kind, dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func parseInts(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid integer %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseSchedule(name string, initTemp, decay, minTemp float64) (opt.Schedule, error) {
	var (
		schedule opt.Schedule
		err      error
	)
	switch name {
	case "geom":
		schedule, err = opt.NewGeomDecay(initTemp, decay, minTemp)
	case "arith":
		schedule, err = opt.NewArithDecay(initTemp, decay, minTemp)
	case "exp":
		schedule, err = opt.NewExpDecay(initTemp, decay, minTemp)
	default:
		return nil, errors.Errorf("unknown schedule %q", name)
	}
	if err != nil {
		return nil, err
	}
	return schedule, nil
}
