package neighbors

import (
	"path/filepath"
	"testing"

	"github.com/harukisato/modelselect/core/model"
)

func TestKNeighborsClassifier_GobRoundTrip(t *testing.T) {
	X, y := twoClusterData()

	knn := NewKNeighborsClassifier(3)
	if err := knn.Fit(X, y); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "knn.gob")
	if err := model.SaveModel(knn, path); err != nil {
		t.Fatalf("SaveModel() error = %v", err)
	}

	restored := &KNeighborsClassifier{}
	if err := model.LoadModel(restored, path); err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}

	score, err := restored.Score(X, y)
	if err != nil {
		t.Fatalf("restored Score() error = %v", err)
	}
	if score != 1.0 {
		t.Errorf("restored training accuracy = %v, want 1.0", score)
	}
	if restored.NNeighbors != 3 {
		t.Errorf("NNeighbors = %d, want 3", restored.NNeighbors)
	}
}
