package net

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/FlavioCFOliveira/neuroweights/internal/opt"
	"github.com/pkg/errors"
)

// CSVLogger logs training progress to a CSV file, one row per iteration.
// The first write error is kept and returned by Err and Close; later rows are
// dropped.
type CSVLogger struct {
	Filename string
	Append   bool

	file   *os.File
	writer *csv.Writer
	start  time.Time
	err    error
}

var _ opt.Callback = (*CSVLogger)(nil)

// NewCSVLogger opens filename and writes the header unless appending to a
// non-empty file.
func NewCSVLogger(filename string, append bool) (*CSVLogger, error) {
	mode := os.O_CREATE | os.O_WRONLY
	if append {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(filename, mode, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file %s", filename)
	}
	c := &CSVLogger{
		Filename: filename,
		Append:   append,
		file:     file,
		writer:   csv.NewWriter(file),
		start:    time.Now(),
	}

	info, err := file.Stat()
	if err == nil && (info.Size() == 0 || !append) {
		c.write([]string{"iter", "loss", "best_loss", "attempts", "time_seconds"})
	}
	if c.err != nil {
		file.Close()
		return nil, c.err
	}
	return c, nil
}

func (c *CSVLogger) OnIteration(it opt.Iteration) {
	c.write([]string{
		strconv.Itoa(it.Iter),
		strconv.FormatFloat(lossOf(it.Fitness), 'f', 6, 64),
		strconv.FormatFloat(lossOf(it.BestFitness), 'f', 6, 64),
		strconv.Itoa(it.Attempts),
		strconv.FormatFloat(time.Since(c.start).Seconds(), 'f', 2, 64),
	})
}

func (c *CSVLogger) write(record []string) {
	if c.err != nil || c.writer == nil {
		return
	}
	if err := c.writer.Write(record); err != nil {
		c.err = errors.Wrap(err, "failed to write record")
		return
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		c.err = errors.Wrap(err, "failed to flush record")
	}
}

// Err returns the first write error.
func (c *CSVLogger) Err() error {
	return c.err
}

// Close flushes and closes the file.
func (c *CSVLogger) Close() error {
	if c.file == nil {
		return c.err
	}
	c.writer.Flush()
	if err := c.file.Close(); err != nil && c.err == nil {
		c.err = errors.Wrap(err, "failed to close file")
	}
	c.file = nil
	c.writer = nil
	return c.err
}
