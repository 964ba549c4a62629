package neighbors

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func twoClusterData() (*mat.Dense, *mat.Dense) {
	X := mat.NewDense(8, 2, []float64{
		0.0, 0.0,
		0.1, 0.1,
		0.2, 0.0,
		0.0, 0.2,
		5.0, 5.0,
		5.1, 5.1,
		5.2, 5.0,
		5.0, 5.2,
	})
	y := mat.NewDense(8, 1, []float64{
		0, 0, 0, 0,
		1, 1, 1, 1,
	})
	return X, y
}

func TestKNeighborsClassifier_FitPredict(t *testing.T) {
	X, y := twoClusterData()

	knn := NewKNeighborsClassifier(3)
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	XTest := mat.NewDense(2, 2, []float64{
		0.1, 0.0, // near cluster 0
		5.1, 5.0, // near cluster 1
	})

	preds, err := knn.Predict(XTest)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	if preds.At(0, 0) != 0 {
		t.Errorf("Prediction for cluster-0 point = %v, want 0", preds.At(0, 0))
	}
	if preds.At(1, 0) != 1 {
		t.Errorf("Prediction for cluster-1 point = %v, want 1", preds.At(1, 0))
	}
}

func TestKNeighborsClassifier_PredictProba(t *testing.T) {
	X, y := twoClusterData()

	knn := NewKNeighborsClassifier(4)
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	probas, err := knn.PredictProba(mat.NewDense(1, 2, []float64{0.1, 0.1}))
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}

	r, c := probas.Dims()
	if r != 1 || c != 2 {
		t.Fatalf("probas shape = (%d, %d), want (1, 2)", r, c)
	}

	// All 4 nearest neighbors belong to class 0.
	if math.Abs(probas.At(0, 0)-1.0) > 1e-9 {
		t.Errorf("P(class 0) = %v, want 1.0", probas.At(0, 0))
	}
	if math.Abs(probas.At(0, 1)) > 1e-9 {
		t.Errorf("P(class 1) = %v, want 0.0", probas.At(0, 1))
	}
}

func TestKNeighborsClassifier_K1_MemorizesTrainingData(t *testing.T) {
	X, y := twoClusterData()

	knn := NewKNeighborsClassifier(1)
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	score, err := knn.Score(X, y)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if score != 1.0 {
		t.Errorf("1-NN training accuracy = %v, want 1.0", score)
	}
}

func TestKNeighborsClassifier_TieBreaksTowardSmallerLabel(t *testing.T) {
	// Two training points, one per class, equidistant from the query.
	X := mat.NewDense(2, 1, []float64{-1, 1})
	y := mat.NewDense(2, 1, []float64{0, 1})

	knn := NewKNeighborsClassifier(2)
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	preds, err := knn.Predict(mat.NewDense(1, 1, []float64{0}))
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if preds.At(0, 0) != 0 {
		t.Errorf("Tie vote = %v, want 0 (smaller label)", preds.At(0, 0))
	}
}

func TestKNeighborsClassifier_Validation(t *testing.T) {
	X, y := twoClusterData()

	if err := NewKNeighborsClassifier(0).Fit(X, y); err == nil {
		t.Error("Fit with n_neighbors=0 should return an error")
	}
	if err := NewKNeighborsClassifier(9).Fit(X, y); err == nil {
		t.Error("Fit with n_neighbors > n_samples should return an error")
	}

	knn := NewKNeighborsClassifier(3)
	if _, err := knn.Predict(mat.NewDense(1, 2, nil)); err == nil {
		t.Error("Predict before Fit should return an error")
	}

	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := knn.Predict(mat.NewDense(1, 3, nil)); err == nil {
		t.Error("Predict with wrong feature count should return an error")
	}
}

func TestKNeighborsClassifier_GetSetParams(t *testing.T) {
	knn := NewKNeighborsClassifier(3)

	if err := knn.SetParams(map[string]interface{}{"n_neighbors": 7}); err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}
	if knn.GetParams()["n_neighbors"] != 7 {
		t.Errorf("n_neighbors = %v, want 7", knn.GetParams()["n_neighbors"])
	}

	if err := knn.SetParams(map[string]interface{}{"metric": "manhattan"}); err == nil {
		t.Error("SetParams with unknown key should return an error")
	}
}

func TestKNeighborsClassifier_Clone(t *testing.T) {
	knn := NewKNeighborsClassifier(5)
	X, y := twoClusterData()
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	clone, ok := knn.Clone().(*KNeighborsClassifier)
	if !ok {
		t.Fatalf("Clone() returned wrong type")
	}
	if clone.NNeighbors != 5 {
		t.Errorf("Clone n_neighbors = %d, want 5", clone.NNeighbors)
	}
	if clone.XTrain != nil {
		t.Error("Clone() must not carry training data")
	}
}
