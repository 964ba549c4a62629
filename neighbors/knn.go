// Package neighbors provides nearest-neighbor classification models.
package neighbors

import (
	"sort"

	"github.com/harukisato/modelselect/core/model"
	"github.com/harukisato/modelselect/core/parallel"
	"github.com/harukisato/modelselect/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// KNeighborsClassifier implements k-nearest-neighbor classification.
// Fit stores the training data; all work happens at prediction time.
type KNeighborsClassifier struct {
	state *model.StateManager

	// NNeighbors is the number of neighbors that vote on each prediction.
	NNeighbors int

	// Training data, kept verbatim. Public for gob encoding.
	XTrain *mat.Dense
	YTrain []float64

	ClassLabels []int
}

// NewKNeighborsClassifier creates a new classifier with the given neighbor count.
func NewKNeighborsClassifier(nNeighbors int) *KNeighborsClassifier {
	return &KNeighborsClassifier{
		state:      model.NewStateManager(),
		NNeighbors: nNeighbors,
	}
}

// Fit stores the training data and labels.
func (knn *KNeighborsClassifier) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples != yRows {
		return errors.NewDimensionError("KNeighborsClassifier.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValidationError("y", "must be a column vector", yCols)
	}
	if knn.NNeighbors < 1 {
		return errors.NewValidationError("n_neighbors", "must be at least 1", knn.NNeighbors)
	}
	if knn.NNeighbors > nSamples {
		return errors.NewValidationError("n_neighbors", "cannot exceed the number of training samples", knn.NNeighbors)
	}

	knn.XTrain = mat.DenseCopyOf(X)
	knn.YTrain = make([]float64, nSamples)
	classSet := make(map[int]bool)
	for i := 0; i < nSamples; i++ {
		knn.YTrain[i] = y.At(i, 0)
		classSet[int(knn.YTrain[i])] = true
	}

	knn.ClassLabels = make([]int, 0, len(classSet))
	for class := range classSet {
		knn.ClassLabels = append(knn.ClassLabels, class)
	}
	sort.Ints(knn.ClassLabels)

	knn.state.SetDimensions(nFeatures, nSamples)
	knn.state.SetFitted()
	return nil
}

// Predict returns the majority-vote label for each row of X.
// Rows are predicted in parallel across CPU cores.
func (knn *KNeighborsClassifier) Predict(X mat.Matrix) (mat.Matrix, error) {
	votes, err := knn.neighborVotes(X, "Predict")
	if err != nil {
		return nil, err
	}

	nSamples := len(votes)
	predictions := mat.NewDense(nSamples, 1, nil)
	for i, rowVotes := range votes {
		best := knn.ClassLabels[0]
		bestCount := -1
		// Ties break toward the smaller label because ClassLabels is sorted.
		for _, class := range knn.ClassLabels {
			if rowVotes[class] > bestCount {
				best = class
				bestCount = rowVotes[class]
			}
		}
		predictions.Set(i, 0, float64(best))
	}

	return predictions, nil
}

// PredictProba returns, per class, the fraction of the k neighbors voting for it.
func (knn *KNeighborsClassifier) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	votes, err := knn.neighborVotes(X, "PredictProba")
	if err != nil {
		return nil, err
	}

	nSamples := len(votes)
	probas := mat.NewDense(nSamples, len(knn.ClassLabels), nil)
	for i, rowVotes := range votes {
		for j, class := range knn.ClassLabels {
			probas.Set(i, j, float64(rowVotes[class])/float64(knn.NNeighbors))
		}
	}

	return probas, nil
}

// neighborVotes computes, for every query row, how many of its k nearest
// training samples belong to each class.
func (knn *KNeighborsClassifier) neighborVotes(X mat.Matrix, method string) ([]map[int]int, error) {
	if !knn.state.IsFitted() {
		return nil, errors.NewNotFittedError("KNeighborsClassifier", method)
	}

	nSamples, nFeatures := X.Dims()
	trainFeatures, _ := knn.state.GetDimensions()
	if nFeatures != trainFeatures {
		return nil, errors.NewDimensionError("KNeighborsClassifier."+method, trainFeatures, nFeatures, 1)
	}

	votes := make([]map[int]int, nSamples)
	parallel.ForEach(nSamples, 0, func(i int) {
		votes[i] = knn.votesForRow(X, i)
	})

	return votes, nil
}

type neighbor struct {
	dist  float64
	label float64
}

// votesForRow scans the training set keeping the k nearest samples.
// Squared distances avoid the square root; ordering is unaffected.
func (knn *KNeighborsClassifier) votesForRow(X mat.Matrix, row int) map[int]int {
	nTrain, nFeatures := knn.XTrain.Dims()

	nearest := make([]neighbor, 0, knn.NNeighbors+1)
	for t := 0; t < nTrain; t++ {
		dist := 0.0
		for j := 0; j < nFeatures; j++ {
			d := X.At(row, j) - knn.XTrain.At(t, j)
			dist += d * d
		}

		if len(nearest) < knn.NNeighbors {
			nearest = append(nearest, neighbor{dist: dist, label: knn.YTrain[t]})
			sort.Slice(nearest, func(a, b int) bool { return nearest[a].dist < nearest[b].dist })
		} else if dist < nearest[len(nearest)-1].dist {
			nearest[len(nearest)-1] = neighbor{dist: dist, label: knn.YTrain[t]}
			sort.Slice(nearest, func(a, b int) bool { return nearest[a].dist < nearest[b].dist })
		}
	}

	votes := make(map[int]int, len(knn.ClassLabels))
	for _, nb := range nearest {
		votes[int(nb.label)]++
	}
	return votes
}

// Score returns the mean accuracy on the given test data and labels.
func (knn *KNeighborsClassifier) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := knn.Predict(X)
	if err != nil {
		return 0, err
	}

	nSamples, _ := X.Dims()
	correct := 0
	for i := 0; i < nSamples; i++ {
		if predictions.At(i, 0) == y.At(i, 0) {
			correct++
		}
	}

	return float64(correct) / float64(nSamples), nil
}

// Classes returns the unique classes seen during fitting.
func (knn *KNeighborsClassifier) Classes() []int {
	out := make([]int, len(knn.ClassLabels))
	copy(out, knn.ClassLabels)
	return out
}

// GetParams returns the model hyperparameters.
func (knn *KNeighborsClassifier) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"n_neighbors": knn.NNeighbors,
	}
}

// SetParams sets the model hyperparameters.
func (knn *KNeighborsClassifier) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "n_neighbors":
			switch n := value.(type) {
			case int:
				knn.NNeighbors = n
			case int64:
				knn.NNeighbors = int(n)
			case float64:
				knn.NNeighbors = int(n)
			default:
				return errors.NewValidationError(key, "must be an integer", value)
			}
		default:
			return errors.Wrapf(errors.ErrUnknownParameter, "KNeighborsClassifier: %s", key)
		}
	}
	return nil
}

// Clone returns an unfitted copy with the same hyperparameters.
func (knn *KNeighborsClassifier) Clone() model.Estimator {
	return NewKNeighborsClassifier(knn.NNeighbors)
}
