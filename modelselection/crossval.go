package modelselection

import (
	"fmt"
	"sync"

	"github.com/harukisato/modelselect/core/model"
	"github.com/harukisato/modelselect/metrics"
	"github.com/harukisato/modelselect/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ScoreFunc evaluates a fitted estimator on held-out data.
type ScoreFunc func(est model.Estimator, X, y mat.Matrix) (float64, error)

// scorerByName resolves a scoring name to its evaluation function.
// The empty name means "accuracy".
func scorerByName(scoring string) (ScoreFunc, error) {
	switch scoring {
	case "", "accuracy":
		return func(est model.Estimator, X, y mat.Matrix) (float64, error) {
			return est.Score(X, y)
		}, nil
	case "precision_macro":
		return predictionScorer(metrics.PrecisionMacroMatrix), nil
	case "recall_macro":
		return predictionScorer(metrics.RecallMacroMatrix), nil
	case "f1_macro":
		return predictionScorer(metrics.F1MacroMatrix), nil
	default:
		return nil, errors.Wrapf(errors.ErrUnknownScoring, "%q", scoring)
	}
}

func predictionScorer(metric func(yTrue, yPred mat.Matrix) (float64, error)) ScoreFunc {
	return func(est model.Estimator, X, y mat.Matrix) (float64, error) {
		yPred, err := est.Predict(X)
		if err != nil {
			return 0, err
		}
		return metric(y, yPred)
	}
}

// CVResult holds the per-fold scores of one cross-validation run.
type CVResult struct {
	TestScores  []float64
	TrainScores []float64
	Scoring     string
	NFolds      int
}

// MeanScore returns the mean of the per-fold test scores.
func (cv *CVResult) MeanScore() float64 {
	if len(cv.TestScores) == 0 {
		return 0
	}
	return stat.Mean(cv.TestScores, nil)
}

// StdScore returns the sample standard deviation of the per-fold test scores,
// or 0 when there are fewer than two folds.
func (cv *CVResult) StdScore() float64 {
	if len(cv.TestScores) < 2 {
		return 0
	}
	return stat.StdDev(cv.TestScores, nil)
}

// Summary formats the mean and spread as "0.973 (+/- 0.025)".
func (cv *CVResult) Summary() string {
	return fmt.Sprintf("%.3f (+/- %.3f)", cv.MeanScore(), cv.StdScore())
}

// CrossValidate evaluates an estimator by cross-validation. A fresh estimator
// from newEstimator is fitted on the train portion of every fold concurrently;
// scoring names one of "accuracy", "precision_macro", "recall_macro" or
// "f1_macro" (empty means accuracy).
func CrossValidate(newEstimator func() model.Estimator, X, y mat.Matrix, splitter Splitter, scoring string) (*CVResult, error) {
	if newEstimator == nil {
		return nil, errors.NewValidationError("newEstimator", "must not be nil", nil)
	}
	if y == nil {
		return nil, errors.NewValidationError("y", "must not be nil", nil)
	}
	scorer, err := scorerByName(scoring)
	if err != nil {
		return nil, err
	}

	folds, err := splitter.Split(X, y)
	if err != nil {
		return nil, err
	}
	nFolds := len(folds)

	result := &CVResult{
		TestScores:  make([]float64, nFolds),
		TrainScores: make([]float64, nFolds),
		Scoring:     scoring,
		NFolds:      nFolds,
	}

	var wg sync.WaitGroup
	foldErrs := make([]error, nFolds)

	for foldIdx := 0; foldIdx < nFolds; foldIdx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			fold := folds[idx]
			trainX, trainY := extractSubset(X, y, fold.Train)
			testX, testY := extractSubset(X, y, fold.Test)

			est := newEstimator()
			if err := est.Fit(trainX, trainY); err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d", idx)
				return
			}

			trainScore, err := scorer(est, trainX, trainY)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d", idx)
				return
			}
			testScore, err := scorer(est, testX, testY)
			if err != nil {
				foldErrs[idx] = errors.Wrapf(err, "fold %d", idx)
				return
			}

			result.TrainScores[idx] = trainScore
			result.TestScores[idx] = testScore
		}(foldIdx)
	}

	wg.Wait()

	for _, err := range foldErrs {
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

// extractSubset materializes the rows of X and y named by indices.
func extractSubset(X, y mat.Matrix, indices []int) (*mat.Dense, *mat.Dense) {
	_, nFeatures := X.Dims()

	subX := mat.NewDense(len(indices), nFeatures, nil)
	subY := mat.NewDense(len(indices), 1, nil)
	for i, idx := range indices {
		for j := 0; j < nFeatures; j++ {
			subX.Set(i, j, X.At(idx, j))
		}
		subY.Set(i, 0, y.At(idx, 0))
	}
	return subX, subY
}
