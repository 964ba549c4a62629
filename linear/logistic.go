// Package linear provides linear classification models.
package linear

import (
	"math"
	"math/rand"
	"sort"

	"github.com/harukisato/modelselect/core/model"
	"github.com/harukisato/modelselect/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// LogisticRegression implements logistic regression for classification.
// Compatible with scikit-learn's LogisticRegression.
type LogisticRegression struct {
	state *model.StateManager

	// Hyperparameters
	penalty      string  // Regularization: "l2" or "none"
	c            float64 // Inverse regularization strength (1/alpha)
	fitIntercept bool    // Whether to fit intercept
	randomState  int64   // Random seed, negative for nondeterministic
	maxIter      int     // Maximum gradient-descent iterations
	tol          float64 // Gradient tolerance for stopping

	// Model parameters
	coef      [][]float64 // Coefficients (1 x n_features for binary, n_classes x n_features for OVR)
	intercept []float64   // Intercept terms
	classes   []int       // Unique class labels, sorted
	nClasses  int
	nFeatures int
	nIter     []int // Actual iterations per fitted weight vector

	rand *rand.Rand
}

// Option is a functional option for LogisticRegression.
type Option func(*LogisticRegression)

// NewLogisticRegression creates a new LogisticRegression classifier.
func NewLogisticRegression(opts ...Option) *LogisticRegression {
	lr := &LogisticRegression{
		state:        model.NewStateManager(),
		penalty:      "l2",
		c:            1.0,
		fitIntercept: true,
		randomState:  -1,
		maxIter:      100,
		tol:          1e-4,
	}

	for _, opt := range opts {
		opt(lr)
	}

	lr.seedRand()
	return lr
}

func (lr *LogisticRegression) seedRand() {
	if lr.randomState >= 0 {
		lr.rand = rand.New(rand.NewSource(lr.randomState))
	} else {
		lr.rand = rand.New(rand.NewSource(rand.Int63()))
	}
}

// WithPenalty sets the regularization type ("l2" or "none").
func WithPenalty(penalty string) Option {
	return func(lr *LogisticRegression) {
		lr.penalty = penalty
	}
}

// WithC sets the inverse regularization strength.
func WithC(c float64) Option {
	return func(lr *LogisticRegression) {
		lr.c = c
	}
}

// WithFitIntercept sets whether to fit an intercept term.
func WithFitIntercept(fit bool) Option {
	return func(lr *LogisticRegression) {
		lr.fitIntercept = fit
	}
}

// WithMaxIter sets the maximum number of iterations.
func WithMaxIter(maxIter int) Option {
	return func(lr *LogisticRegression) {
		lr.maxIter = maxIter
	}
}

// WithTol sets the tolerance for the stopping criterion.
func WithTol(tol float64) Option {
	return func(lr *LogisticRegression) {
		lr.tol = tol
	}
}

// WithRandomState sets the random seed.
func WithRandomState(seed int64) Option {
	return func(lr *LogisticRegression) {
		lr.randomState = seed
	}
}

// Fit trains the logistic regression model.
func (lr *LogisticRegression) Fit(X, y mat.Matrix) error {
	nSamples, nFeatures := X.Dims()
	yRows, yCols := y.Dims()

	if nSamples != yRows {
		return errors.NewDimensionError("LogisticRegression.Fit", nSamples, yRows, 0)
	}
	if yCols != 1 {
		return errors.NewValidationError("y", "must be a column vector", yCols)
	}
	if lr.maxIter < 1 {
		return errors.NewValidationError("max_iter", "must be positive", lr.maxIter)
	}
	if lr.c <= 0 {
		return errors.NewValidationError("C", "must be positive", lr.c)
	}

	lr.extractClasses(y)
	if lr.nClasses < 2 {
		return errors.NewValidationError("y", "needs at least two classes", lr.nClasses)
	}
	lr.nFeatures = nFeatures
	lr.initializeWeights(nFeatures)

	if lr.nClasses == 2 {
		// Binary: a single weight vector against classes[1].
		yBinary := lr.binaryTargets(y, lr.classes[1])
		lr.gradientDescent(X, yBinary, 0)
	} else {
		// One-vs-rest: one weight vector per class.
		for classIdx, class := range lr.classes {
			yBinary := lr.binaryTargets(y, class)
			lr.gradientDescent(X, yBinary, classIdx)
		}
	}

	lr.state.SetDimensions(nFeatures, nSamples)
	lr.state.SetFitted()
	return nil
}

// extractClasses identifies unique class labels, sorted ascending.
func (lr *LogisticRegression) extractClasses(y mat.Matrix) {
	rows, _ := y.Dims()
	classMap := make(map[int]bool)

	for i := 0; i < rows; i++ {
		classMap[int(y.At(i, 0))] = true
	}

	lr.classes = make([]int, 0, len(classMap))
	for class := range classMap {
		lr.classes = append(lr.classes, class)
	}
	sort.Ints(lr.classes)
	lr.nClasses = len(lr.classes)
}

// initializeWeights allocates and randomly initializes the model weights.
func (lr *LogisticRegression) initializeWeights(nFeatures int) {
	nVectors := 1
	if lr.nClasses > 2 {
		nVectors = lr.nClasses
	}

	lr.coef = make([][]float64, nVectors)
	for i := range lr.coef {
		lr.coef[i] = make([]float64, nFeatures)
		for j := range lr.coef[i] {
			lr.coef[i][j] = lr.rand.NormFloat64() * 0.01
		}
	}
	lr.intercept = make([]float64, nVectors)
	lr.nIter = make([]int, nVectors)
}

// binaryTargets converts y into 0/1 targets for a one-vs-rest problem.
func (lr *LogisticRegression) binaryTargets(y mat.Matrix, positiveClass int) []float64 {
	rows, _ := y.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		if int(y.At(i, 0)) == positiveClass {
			out[i] = 1.0
		}
	}
	return out
}

// gradientDescent fits one weight vector with batch gradient descent and an
// adaptive learning rate. Emits a ConvergenceWarning when maxIter is exhausted
// before the gradient norm drops below tol.
func (lr *LogisticRegression) gradientDescent(X mat.Matrix, yBinary []float64, weightIdx int) {
	nSamples, nFeatures := X.Dims()
	weights := lr.coef[weightIdx]
	intercept := &lr.intercept[weightIdx]

	baseLearningRate := 1.0
	converged := false

	for iter := 0; iter < lr.maxIter; iter++ {
		gradWeights := make([]float64, nFeatures)
		gradIntercept := 0.0

		for i := 0; i < nSamples; i++ {
			z := *intercept
			for j := 0; j < nFeatures; j++ {
				z += X.At(i, j) * weights[j]
			}
			residual := sigmoid(z) - yBinary[i]

			gradIntercept += residual
			for j := 0; j < nFeatures; j++ {
				gradWeights[j] += residual * X.At(i, j)
			}
		}

		for j := range gradWeights {
			gradWeights[j] /= float64(nSamples)
		}
		gradIntercept /= float64(nSamples)

		if lr.penalty == "l2" {
			lambda := 1.0 / lr.c
			for j := range weights {
				gradWeights[j] += lambda * weights[j] / float64(nSamples)
			}
		}

		learningRate := baseLearningRate / (1.0 + 0.1*float64(iter))

		for j := range weights {
			weights[j] -= learningRate * gradWeights[j]
		}
		if lr.fitIntercept {
			*intercept -= learningRate * gradIntercept
		}

		lr.nIter[weightIdx] = iter + 1

		maxGrad := math.Abs(gradIntercept)
		for _, g := range gradWeights {
			if math.Abs(g) > maxGrad {
				maxGrad = math.Abs(g)
			}
		}
		if maxGrad < lr.tol {
			converged = true
			break
		}
	}

	if !converged {
		errors.Warn(errors.NewConvergenceWarning("LogisticRegression", lr.maxIter, ""))
	}
}

// decisionValues computes the raw scores for every class weight vector.
func (lr *LogisticRegression) decisionValues(X mat.Matrix, row int) []float64 {
	scores := make([]float64, len(lr.coef))
	for idx := range lr.coef {
		z := lr.intercept[idx]
		for j := 0; j < lr.nFeatures; j++ {
			z += X.At(row, j) * lr.coef[idx][j]
		}
		scores[idx] = z
	}
	return scores
}

// Predict makes class predictions for input data.
func (lr *LogisticRegression) Predict(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "Predict")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != lr.nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.Predict", lr.nFeatures, nFeatures, 1)
	}

	predictions := mat.NewDense(nSamples, 1, nil)

	for i := 0; i < nSamples; i++ {
		scores := lr.decisionValues(X, i)

		if lr.nClasses == 2 {
			if sigmoid(scores[0]) >= 0.5 {
				predictions.Set(i, 0, float64(lr.classes[1]))
			} else {
				predictions.Set(i, 0, float64(lr.classes[0]))
			}
			continue
		}

		best := 0
		for idx, s := range scores {
			if s > scores[best] {
				best = idx
			}
		}
		predictions.Set(i, 0, float64(lr.classes[best]))
	}

	return predictions, nil
}

// PredictProba returns probability estimates for each class.
func (lr *LogisticRegression) PredictProba(X mat.Matrix) (mat.Matrix, error) {
	if !lr.state.IsFitted() {
		return nil, errors.NewNotFittedError("LogisticRegression", "PredictProba")
	}

	nSamples, nFeatures := X.Dims()
	if nFeatures != lr.nFeatures {
		return nil, errors.NewDimensionError("LogisticRegression.PredictProba", lr.nFeatures, nFeatures, 1)
	}

	probas := mat.NewDense(nSamples, lr.nClasses, nil)

	for i := 0; i < nSamples; i++ {
		scores := lr.decisionValues(X, i)

		if lr.nClasses == 2 {
			p := sigmoid(scores[0])
			probas.Set(i, 0, 1.0-p)
			probas.Set(i, 1, p)
			continue
		}

		// Softmax over the OVR scores, shifted for numerical stability.
		maxScore := scores[0]
		for _, s := range scores {
			if s > maxScore {
				maxScore = s
			}
		}
		sum := 0.0
		for idx := range scores {
			scores[idx] = math.Exp(scores[idx] - maxScore)
			sum += scores[idx]
		}
		for idx := range scores {
			probas.Set(i, idx, scores[idx]/sum)
		}
	}

	return probas, nil
}

// Score returns the mean accuracy on the given test data and labels.
func (lr *LogisticRegression) Score(X, y mat.Matrix) (float64, error) {
	predictions, err := lr.Predict(X)
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
func (lr *LogisticRegression) Classes() []int {
	out := make([]int, len(lr.classes))
	copy(out, lr.classes)
	return out
}

// NIter returns the number of gradient-descent iterations actually run per
// fitted weight vector.
func (lr *LogisticRegression) NIter() []int {
	out := make([]int, len(lr.nIter))
	copy(out, lr.nIter)
	return out
}

// GetParams returns the model hyperparameters.
func (lr *LogisticRegression) GetParams() map[string]interface{} {
	return map[string]interface{}{
		"penalty":       lr.penalty,
		"C":             lr.c,
		"fit_intercept": lr.fitIntercept,
		"random_state":  lr.randomState,
		"max_iter":      lr.maxIter,
		"tol":           lr.tol,
	}
}

// SetParams sets the model hyperparameters. Numeric values are accepted as
// either int or float64 so that grid candidates like C: 1 work as expected.
func (lr *LogisticRegression) SetParams(params map[string]interface{}) error {
	for key, value := range params {
		switch key {
		case "penalty":
			s, ok := value.(string)
			if !ok {
				return errors.NewValidationError(key, "must be a string", value)
			}
			lr.penalty = s
		case "C":
			f, ok := toFloat(value)
			if !ok {
				return errors.NewValidationError(key, "must be numeric", value)
			}
			lr.c = f
		case "fit_intercept":
			b, ok := value.(bool)
			if !ok {
				return errors.NewValidationError(key, "must be a bool", value)
			}
			lr.fitIntercept = b
		case "random_state":
			i, ok := toInt(value)
			if !ok {
				return errors.NewValidationError(key, "must be an integer", value)
			}
			lr.randomState = int64(i)
			lr.seedRand()
		case "max_iter":
			i, ok := toInt(value)
			if !ok {
				return errors.NewValidationError(key, "must be an integer", value)
			}
			lr.maxIter = i
		case "tol":
			f, ok := toFloat(value)
			if !ok {
				return errors.NewValidationError(key, "must be numeric", value)
			}
			lr.tol = f
		default:
			return errors.Wrapf(errors.ErrUnknownParameter, "LogisticRegression: %s", key)
		}
	}
	return nil
}

// Clone returns an unfitted copy with the same hyperparameters.
func (lr *LogisticRegression) Clone() model.Estimator {
	return NewLogisticRegression(
		WithPenalty(lr.penalty),
		WithC(lr.c),
		WithFitIntercept(lr.fitIntercept),
		WithRandomState(lr.randomState),
		WithMaxIter(lr.maxIter),
		WithTol(lr.tol),
	)
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func toInt(v interface{}) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	}
	return 0, false
}

// sigmoid computes the logistic function.
func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
