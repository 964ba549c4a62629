package modelselection

import (
	"math"
	"strings"
	"testing"

	"github.com/harukisato/modelselect/core/model"
	"github.com/harukisato/modelselect/neighbors"
	"gonum.org/v1/gonum/mat"
)

// constantEstimator scores a fixed value regardless of the data. It lets the
// tests pin down aggregation and tie-breaking without real training noise.
type constantEstimator struct {
	score  float64
	params map[string]interface{}
}

func (c *constantEstimator) Fit(X, y mat.Matrix) error { return nil }

func (c *constantEstimator) Predict(X mat.Matrix) (mat.Matrix, error) {
	n, _ := X.Dims()
	return mat.NewDense(n, 1, nil), nil
}

func (c *constantEstimator) Score(X, y mat.Matrix) (float64, error) { return c.score, nil }

func (c *constantEstimator) GetParams() map[string]interface{} { return c.params }

func (c *constantEstimator) SetParams(params map[string]interface{}) error {
	for k, v := range params {
		c.params[k] = v
	}
	return nil
}

func (c *constantEstimator) Clone() model.Estimator {
	return &constantEstimator{score: c.score, params: map[string]interface{}{}}
}

func newConstant(score float64) func() model.TunableEstimator {
	return func() model.TunableEstimator {
		return &constantEstimator{score: score, params: map[string]interface{}{}}
	}
}

func TestCrossValidate_ConstantScores(t *testing.T) {
	X, y := threeClassData()

	result, err := CrossValidate(func() model.Estimator {
		return newConstant(0.8)()
	}, X, y, NewKFold(4, false, 0), "accuracy")
	if err != nil {
		t.Fatalf("CrossValidate() error = %v", err)
	}

	if result.NFolds != 4 {
		t.Errorf("NFolds = %d, want 4", result.NFolds)
	}
	if math.Abs(result.MeanScore()-0.8) > 1e-12 {
		t.Errorf("MeanScore() = %v, want 0.8", result.MeanScore())
	}
	if result.StdScore() != 0 {
		t.Errorf("StdScore() = %v, want 0 for constant scores", result.StdScore())
	}
}

func TestCrossValidate_SeparableData(t *testing.T) {
	X, y := threeClassData()

	// The clusters are far apart; 1-NN generalizes perfectly across folds.
	result, err := CrossValidate(func() model.Estimator {
		return neighbors.NewKNeighborsClassifier(1)
	}, X, y, NewStratifiedKFold(4, true, 42), "accuracy")
	if err != nil {
		t.Fatalf("CrossValidate() error = %v", err)
	}

	if result.MeanScore() != 1.0 {
		t.Errorf("MeanScore() = %v, want 1.0 on separable data", result.MeanScore())
	}
	if len(result.TrainScores) != 4 || len(result.TestScores) != 4 {
		t.Errorf("per-fold score lengths = (%d, %d), want (4, 4)",
			len(result.TrainScores), len(result.TestScores))
	}
}

func TestCrossValidate_MacroScoring(t *testing.T) {
	X, y := threeClassData()

	for _, scoring := range []string{"precision_macro", "recall_macro", "f1_macro"} {
		result, err := CrossValidate(func() model.Estimator {
			return neighbors.NewKNeighborsClassifier(1)
		}, X, y, NewStratifiedKFold(4, false, 0), scoring)
		if err != nil {
			t.Fatalf("CrossValidate(%s) error = %v", scoring, err)
		}
		if result.MeanScore() != 1.0 {
			t.Errorf("%s mean = %v, want 1.0 for a perfect classifier", scoring, result.MeanScore())
		}
	}
}

func TestCrossValidate_UnknownScoring(t *testing.T) {
	X, y := threeClassData()

	_, err := CrossValidate(func() model.Estimator {
		return neighbors.NewKNeighborsClassifier(1)
	}, X, y, NewKFold(3, false, 0), "roc_auc")
	if err == nil {
		t.Fatal("Expected error for unknown scoring name")
	}
}

func TestCrossValidate_NilLabels(t *testing.T) {
	X, _ := threeClassData()

	// KFold itself tolerates a nil y, so the guard must live in
	// CrossValidate: fold materialization needs the labels.
	_, err := CrossValidate(func() model.Estimator {
		return neighbors.NewKNeighborsClassifier(1)
	}, X, nil, NewKFold(3, false, 0), "accuracy")
	if err == nil {
		t.Fatal("CrossValidate with nil y should return an error, not panic")
	}
}

func TestCrossValidate_SplitterErrorPropagates(t *testing.T) {
	X, y := threeClassData()

	_, err := CrossValidate(func() model.Estimator {
		return neighbors.NewKNeighborsClassifier(1)
	}, X, y, NewKFold(1, false, 0), "")
	if err == nil {
		t.Fatal("Expected splitter validation error")
	}
}

func TestCVResult_Summary(t *testing.T) {
	result := &CVResult{TestScores: []float64{0.9, 1.0, 0.8}}

	got := result.Summary()
	if !strings.HasPrefix(got, "0.900 (+/- 0.100)") {
		t.Errorf("Summary() = %q, want prefix \"0.900 (+/- 0.100)\"", got)
	}
}

func TestCVResult_StdScore_SingleFold(t *testing.T) {
	result := &CVResult{TestScores: []float64{0.5}}
	if result.StdScore() != 0 {
		t.Errorf("StdScore() = %v, want 0 for a single fold", result.StdScore())
	}
}

func TestExtractSubset(t *testing.T) {
	X, y := threeClassData()

	subX, subY := extractSubset(X, y, []int{0, 5, 11})

	r, c := subX.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("subX shape = (%d, %d), want (3, 2)", r, c)
	}
	if subX.At(1, 0) != X.At(5, 0) || subY.At(1, 0) != y.At(5, 0) {
		t.Error("extractSubset did not copy the requested rows")
	}
	if subY.At(2, 0) != 2 {
		t.Errorf("subY[2] = %v, want 2", subY.At(2, 0))
	}
}
