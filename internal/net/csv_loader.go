package net

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Dataset is a feature matrix and its labels, one row per observation.
type Dataset struct {
	X *mat.Dense
	Y *mat.Dense
}

// Rows returns the number of observations.
func (d *Dataset) Rows() int {
	if d.X == nil {
		return 0
	}
	r, _ := d.X.Dims()
	return r
}

// LoadCSV loads data from a CSV file.
// labelCols specifies the indices of columns to be used as labels, in the
// order they should appear in Y. All other columns are features. With no
// label columns Y is nil.
// hasHeader skips the first line if true.
func LoadCSV(filename string, labelCols []int, hasHeader bool) (*Dataset, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv")
	}
	if len(records) == 0 {
		return nil, errors.New("csv file is empty")
	}

	startRow := 0
	if hasHeader {
		startRow = 1
	}
	if len(records) <= startRow {
		return nil, errors.New("csv file has no data rows")
	}

	numCols := len(records[0])
	isLabelCol := make(map[int]bool, len(labelCols))
	for _, col := range labelCols {
		if col < 0 || col >= numCols {
			return nil, errors.Errorf("label column %d out of range [0, %d)", col, numCols)
		}
		if isLabelCol[col] {
			return nil, errors.Errorf("label column %d given twice", col)
		}
		isLabelCol[col] = true
	}
	numFeatures := numCols - len(labelCols)
	if numFeatures == 0 {
		return nil, errors.New("csv file has no feature columns")
	}

	rows := len(records) - startRow
	x := mat.NewDense(rows, numFeatures, nil)
	var y *mat.Dense
	if len(labelCols) > 0 {
		y = mat.NewDense(rows, len(labelCols), nil)
	}

	for i := startRow; i < len(records); i++ {
		record := records[i]
		if len(record) != numCols {
			return nil, errors.Errorf("inconsistent number of columns at row %d", i)
		}

		values := make([]float64, numCols)
		for j, valStr := range record {
			val, err := strconv.ParseFloat(valStr, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to parse value at row %d, col %d", i, j)
			}
			values[j] = val
		}

		features := x.RawRowView(i - startRow)[:0]
		for j, v := range values {
			if !isLabelCol[j] {
				features = append(features, v)
			}
		}
		if y == nil {
			continue
		}
		labels := y.RawRowView(i - startRow)
		for k, col := range labelCols {
			labels[k] = values[col]
		}
	}

	return &Dataset{X: x, Y: y}, nil
}

// Scaling holds per-column min-max bounds fitted on a feature matrix.
type Scaling struct {
	Min []float64
	Max []float64
}

// Width returns the number of columns the scaling covers.
func (s Scaling) Width() int {
	return len(s.Min)
}

// Normalize performs min-max normalization on the features in place and
// returns the bounds it used, so the same scaling can be applied to new rows.
// Constant columns become zero.
func (d *Dataset) Normalize() Scaling {
	if d.Rows() == 0 {
		return Scaling{}
	}

	rows, cols := d.X.Dims()
	s := Scaling{Min: make([]float64, cols), Max: make([]float64, cols)}
	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, d.X)
		s.Min[j], s.Max[j] = floats.Min(col), floats.Max(col)
	}
	// Fitted bounds always match the width.
	_ = d.Scale(s)
	return s
}

// Scale applies previously fitted bounds to the features in place. Values
// outside the fitted range map outside [0, 1]. Columns that were constant
// when the bounds were fitted become zero.
func (d *Dataset) Scale(s Scaling) error {
	if len(s.Min) != len(s.Max) {
		return errors.Errorf("scaling has %d minimums and %d maximums", len(s.Min), len(s.Max))
	}
	if d.Rows() == 0 {
		return nil
	}
	rows, cols := d.X.Dims()
	if cols != s.Width() {
		return errors.Errorf("scaling covers %d features, dataset has %d", s.Width(), cols)
	}

	col := make([]float64, rows)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, d.X)
		lo, diff := s.Min[j], s.Max[j]-s.Min[j]
		for i := range col {
			if diff != 0 {
				col[i] = (col[i] - lo) / diff
			} else {
				col[i] = 0
			}
		}
		d.X.SetCol(j, col)
	}
	return nil
}

// Split splits the dataset into two based on the given ratio (0.0 to 1.0).
// Returns two new Datasets (train, test) sharing storage with d. An empty
// side has nil matrices.
func (d *Dataset) Split(ratio float64) (*Dataset, *Dataset) {
	if ratio <= 0 {
		return &Dataset{}, d
	}
	if ratio >= 1 {
		return d, &Dataset{}
	}

	rows := d.Rows()
	splitIdx := int(float64(rows) * ratio)
	if splitIdx == 0 {
		return &Dataset{}, d
	}
	if splitIdx == rows {
		return d, &Dataset{}
	}

	return d.slice(0, splitIdx), d.slice(splitIdx, rows)
}

func (d *Dataset) slice(from, to int) *Dataset {
	_, xc := d.X.Dims()
	out := &Dataset{X: d.X.Slice(from, to, 0, xc).(*mat.Dense)}
	if d.Y != nil {
		_, yc := d.Y.Dims()
		out.Y = d.Y.Slice(from, to, 0, yc).(*mat.Dense)
	}
	return out
}
