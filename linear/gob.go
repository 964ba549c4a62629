package linear

import (
	"bytes"
	"encoding/gob"

	"github.com/harukisato/modelselect/core/model"
)

// logisticSnapshot is the gob wire form of LogisticRegression. The model's
// fields are unexported, so persistence goes through this exported mirror.
type logisticSnapshot struct {
	Penalty      string
	C            float64
	FitIntercept bool
	RandomState  int64
	MaxIter      int
	Tol          float64

	Coef      [][]float64
	Intercept []float64
	Classes   []int
	NIter     []int

	Fitted    bool
	NFeatures int
	NSamples  int
}

// GobEncode serializes the model, including fitted coefficients.
func (lr *LogisticRegression) GobEncode() ([]byte, error) {
	nFeatures, nSamples := lr.state.GetDimensions()
	snap := logisticSnapshot{
		Penalty:      lr.penalty,
		C:            lr.c,
		FitIntercept: lr.fitIntercept,
		RandomState:  lr.randomState,
		MaxIter:      lr.maxIter,
		Tol:          lr.tol,
		Coef:         lr.coef,
		Intercept:    lr.intercept,
		Classes:      lr.classes,
		NIter:        lr.nIter,
		Fitted:       lr.state.IsFitted(),
		NFeatures:    nFeatures,
		NSamples:     nSamples,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores the model from its serialized form.
func (lr *LogisticRegression) GobDecode(data []byte) error {
	var snap logisticSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&snap); err != nil {
		return err
	}

	lr.state = model.NewStateManager()
	lr.penalty = snap.Penalty
	lr.c = snap.C
	lr.fitIntercept = snap.FitIntercept
	lr.randomState = snap.RandomState
	lr.maxIter = snap.MaxIter
	lr.tol = snap.Tol
	lr.coef = snap.Coef
	lr.intercept = snap.Intercept
	lr.classes = snap.Classes
	lr.nClasses = len(snap.Classes)
	lr.nFeatures = snap.NFeatures
	lr.nIter = snap.NIter
	lr.seedRand()

	if snap.Fitted {
		lr.state.SetDimensions(snap.NFeatures, snap.NSamples)
		lr.state.SetFitted()
	}
	return nil
}
