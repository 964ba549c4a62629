package neighbors

import (
	"bytes"
	"encoding/gob"

	"github.com/harukisato/modelselect/core/model"
	"gonum.org/v1/gonum/mat"
)

// knnSnapshot is the gob wire form of KNeighborsClassifier. mat.Dense cannot
// be gob-encoded directly, so the training matrix travels as a flat slice.
type knnSnapshot struct {
	NNeighbors  int
	Rows        int
	Cols        int
	XData       []float64
	YTrain      []float64
	ClassLabels []int
	Fitted      bool
}

// GobEncode serializes the classifier, including its stored training data.
func (knn *KNeighborsClassifier) GobEncode() ([]byte, error) {
	snap := knnSnapshot{
		NNeighbors:  knn.NNeighbors,
		YTrain:      knn.YTrain,
		ClassLabels: knn.ClassLabels,
		Fitted:      knn.state.IsFitted(),
	}
	if knn.XTrain != nil {
		snap.Rows, snap.Cols = knn.XTrain.Dims()
		snap.XData = make([]float64, snap.Rows*snap.Cols)
		for i := 0; i < snap.Rows; i++ {
			for j := 0; j < snap.Cols; j++ {
				snap.XData[i*snap.Cols+j] = knn.XTrain.At(i, j)
			}
		}
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores the classifier from its serialized form.
func (knn *KNeighborsClassifier) GobDecode(data []byte) error {
	var snap knnSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return err
	}

	knn.state = model.NewStateManager()
	knn.NNeighbors = snap.NNeighbors
	knn.YTrain = snap.YTrain
	knn.ClassLabels = snap.ClassLabels
	if snap.Rows > 0 {
		knn.XTrain = mat.NewDense(snap.Rows, snap.Cols, snap.XData)
	} else {
		knn.XTrain = nil
	}

	if snap.Fitted {
		knn.state.SetDimensions(snap.Cols, snap.Rows)
		knn.state.SetFitted()
	}
	return nil
}
