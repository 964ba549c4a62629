package model

import (
	"gonum.org/v1/gonum/mat"
)

// Fitter is the interface for models that can be trained.
type Fitter interface {
	// Fit trains the model on X (n_samples x n_features) and y (n_samples x 1).
	Fit(X, y mat.Matrix) error
}

// Predictor is the interface for models that can predict labels.
type Predictor interface {
	// Predict returns a column matrix of predicted labels for X.
	Predict(X mat.Matrix) (mat.Matrix, error)
}

// Scorer is the interface for models that can compute a score.
type Scorer interface {
	// Score returns the mean accuracy of the prediction on X against y.
	Score(X, y mat.Matrix) (float64, error)
}

// Estimator is the minimal contract cross-validation needs: something that can
// be trained on one fold and evaluated on another.
type Estimator interface {
	Fitter
	Predictor
	Scorer
}

// Classifier combines interfaces for classification models.
type Classifier interface {
	Estimator

	// PredictProba returns probability estimates for each class.
	PredictProba(X mat.Matrix) (mat.Matrix, error)

	// Classes returns the unique classes seen during fitting.
	Classes() []int
}

// ParamsGetter is the interface for models that expose their hyperparameters.
type ParamsGetter interface {
	// GetParams returns the model's hyperparameters keyed by their
	// scikit-learn snake_case names.
	GetParams() map[string]interface{}
}

// ParamsSetter is the interface for models whose hyperparameters grid search
// can overwrite before fitting.
type ParamsSetter interface {
	// SetParams sets the model's hyperparameters.
	SetParams(params map[string]interface{}) error
}

// Cloner is the interface for models that can produce an unfitted copy of
// themselves with identical hyperparameters. Cross-validation clones the
// template estimator once per fold.
type Cloner interface {
	Clone() Estimator
}

// TunableEstimator is what GridSearchCV works against.
type TunableEstimator interface {
	Estimator
	ParamsGetter
	ParamsSetter
	Cloner
}
