// Package dataset loads tabular CSV data into gonum matrices.
//
// A dataset is a CSV file whose rows are samples and whose columns are numeric
// features plus one target column. The target may be categorical; it is
// label-encoded on load and the original class names are kept on the Table.
package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/harukisato/modelselect/pkg/errors"
	"github.com/harukisato/modelselect/preprocessing"
	"gonum.org/v1/gonum/mat"
)

// Table is a loaded dataset: a numeric feature matrix and an encoded target
// vector, plus the names needed to report results in human terms.
type Table struct {
	// X is the feature matrix (n_samples x n_features).
	X *mat.Dense

	// Y is the encoded target vector (n_samples).
	Y *mat.VecDense

	// FeatureNames holds one name per feature column.
	FeatureNames []string

	// Classes maps encoded label values back to class names (index = code).
	// For an already-numeric target column this holds the numeric strings.
	Classes []string
}

// NumSamples returns the number of rows.
func (t *Table) NumSamples() int {
	r, _ := t.X.Dims()
	return r
}

// NumFeatures returns the number of feature columns.
func (t *Table) NumFeatures() int {
	_, c := t.X.Dims()
	return c
}

// YMatrix returns the target as an n x 1 matrix, the shape estimators expect.
func (t *Table) YMatrix() *mat.Dense {
	n := t.Y.Len()
	m := mat.NewDense(n, 1, nil)
	for i := 0; i < n; i++ {
		m.Set(i, 0, t.Y.AtVec(i))
	}
	return m
}

// Option configures LoadCSV.
type Option func(*loadConfig)

type loadConfig struct {
	hasHeader bool
	targetCol int // -1 means last column
}

// WithHeader declares whether the first row is a header row (default: true).
func WithHeader(hasHeader bool) Option {
	return func(c *loadConfig) {
		c.hasHeader = hasHeader
	}
}

// WithTargetColumn sets the index of the target column (default: last column).
func WithTargetColumn(col int) Option {
	return func(c *loadConfig) {
		c.targetCol = col
	}
}

// LoadCSV reads a CSV dataset from path.
//
// All columns except the target must parse as float64. The target column is
// label-encoded in first-seen order; for the iris dataset this yields
// setosa=0, versicolor=1, virginica=2.
func LoadCSV(path string, opts ...Option) (*Table, error) {
	cfg := loadConfig{
		hasHeader: true,
		targetCol: -1,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: failed to open %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: failed to parse %s", path)
	}

	if len(records) == 0 {
		return nil, errors.NewModelError("dataset.LoadCSV", "empty file", errors.ErrEmptyData)
	}

	var header []string
	rows := records
	if cfg.hasHeader {
		header = records[0]
		rows = records[1:]
	}

	if len(rows) == 0 {
		return nil, errors.NewModelError("dataset.LoadCSV", "no data rows", errors.ErrEmptyData)
	}

	nCols := len(rows[0])
	if nCols < 2 {
		return nil, errors.NewValidationError("columns", "need at least one feature and a target", nCols)
	}

	targetCol := cfg.targetCol
	if targetCol < 0 {
		targetCol = nCols - 1
	}
	if targetCol >= nCols {
		return nil, errors.NewValidationError("target_column", "out of range", cfg.targetCol)
	}

	nSamples := len(rows)
	nFeatures := nCols - 1

	X := mat.NewDense(nSamples, nFeatures, nil)
	rawTarget := make([]string, nSamples)

	for i, rec := range rows {
		if len(rec) != nCols {
			return nil, errors.NewDimensionError(fmt.Sprintf("dataset.LoadCSV row %d", i+1), nCols, len(rec), 1)
		}

		featureIdx := 0
		for j, field := range rec {
			if j == targetCol {
				rawTarget[i] = field
				continue
			}
			v, parseErr := strconv.ParseFloat(field, 64)
			if parseErr != nil {
				return nil, errors.NewValidationError(
					fmt.Sprintf("row %d, column %d", i+1, j), "not a number", field)
			}
			X.Set(i, featureIdx, v)
			featureIdx++
		}
	}

	encoder := preprocessing.NewLabelEncoder()
	encoded, err := encoder.FitTransform(rawTarget)
	if err != nil {
		return nil, err
	}

	Y := mat.NewVecDense(nSamples, encoded)

	featureNames := make([]string, 0, nFeatures)
	if header != nil {
		for j, name := range header {
			if j == targetCol {
				continue
			}
			featureNames = append(featureNames, name)
		}
	} else {
		for j := 0; j < nFeatures; j++ {
			featureNames = append(featureNames, fmt.Sprintf("feature_%d", j))
		}
	}

	return &Table{
		X:            X,
		Y:            Y,
		FeatureNames: featureNames,
		Classes:      encoder.Classes,
	}, nil
}
