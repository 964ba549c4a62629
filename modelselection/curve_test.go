package modelselection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/harukisato/modelselect/core/model"
	"github.com/harukisato/modelselect/neighbors"
)

func TestValidationCurve(t *testing.T) {
	X, y := threeClassData()

	newKNN := func() model.TunableEstimator {
		return neighbors.NewKNeighborsClassifier(1)
	}

	result, err := ValidationCurve(newKNN, X, y,
		"n_neighbors", []interface{}{1, 3}, NewStratifiedKFold(4, false, 0), "accuracy")
	if err != nil {
		t.Fatalf("ValidationCurve() error = %v", err)
	}

	if len(result.TrainScores) != 2 || len(result.TestScores) != 2 {
		t.Fatalf("score lengths = (%d, %d), want (2, 2)",
			len(result.TrainScores), len(result.TestScores))
	}
	// Separable clusters: both neighbor counts classify perfectly.
	for i, score := range result.TestScores {
		if score != 1.0 {
			t.Errorf("TestScores[%d] = %v, want 1.0", i, score)
		}
	}
	if result.ParamName != "n_neighbors" {
		t.Errorf("ParamName = %q, want n_neighbors", result.ParamName)
	}
}

func TestValidationCurve_UnknownParam(t *testing.T) {
	X, y := threeClassData()

	newKNN := func() model.TunableEstimator {
		return neighbors.NewKNeighborsClassifier(1)
	}

	_, err := ValidationCurve(newKNN, X, y,
		"gamma", []interface{}{0.1}, NewKFold(3, false, 0), "")
	if err == nil {
		t.Error("Expected error for unknown parameter name")
	}
}

func TestValidationCurve_EmptyRange(t *testing.T) {
	X, y := threeClassData()

	_, err := ValidationCurve(newConstant(0.5), X, y,
		"alpha", nil, NewKFold(3, false, 0), "")
	if err == nil {
		t.Error("Expected error for empty parameter range")
	}
}

func TestPlotValidationCurve(t *testing.T) {
	result := &CurveResult{
		ParamName:   "n_neighbors",
		ParamRange:  []interface{}{1, 3, 5},
		TrainScores: []float64{1.0, 0.98, 0.95},
		TestScores:  []float64{0.93, 0.96, 0.94},
	}

	path := filepath.Join(t.TempDir(), "curve.png")
	if err := PlotValidationCurve(result, "KNN validation curve", path); err != nil {
		t.Fatalf("PlotValidationCurve() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("output PNG is empty")
	}
}

func TestPlotValidationCurve_NilResult(t *testing.T) {
	if err := PlotValidationCurve(nil, "", "out.png"); err == nil {
		t.Error("Expected error for nil result")
	}
}
