// Package modelselect provides cross-validation and hyperparameter search
// for classification models in Go.
//
// ModelSelect offers a scikit-learn-like API for the model-selection workflow:
// splitting data into folds, scoring a classifier across them, and searching a
// hyperparameter grid for the best candidate.
//
// # Features
//
// - K-Fold, Stratified K-Fold and Stratified Shuffle Split cross-validation
// - Exhaustive grid search with parallel candidate evaluation
// - Accuracy and macro-averaged precision/recall/F1 scoring
// - Logistic regression and k-nearest-neighbor classifiers
// - Validation curve plotting and gob model persistence
//
// # Installation
//
// Install ModelSelect using go get:
//
//	go get github.com/harukisato/modelselect
//
// # Quick Start
//
// Cross-validate a classifier on a CSV dataset:
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/harukisato/modelselect/core/model"
//	    "github.com/harukisato/modelselect/dataset"
//	    "github.com/harukisato/modelselect/linear"
//	    "github.com/harukisato/modelselect/modelselection"
//	)
//
//	func main() {
//	    table, err := dataset.LoadCSV("iris.csv")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    cv := modelselection.NewStratifiedKFold(10, true, 42)
//	    result, err := modelselection.CrossValidate(func() model.Estimator {
//	        return linear.NewLogisticRegression()
//	    }, table.X, table.YMatrix(), cv, "accuracy")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    fmt.Println("accuracy:", result.Summary())
//	}
//
// # Packages
//
//   - modelselection: splitters, cross-validation, grid search, validation curves
//   - linear: logistic regression (binary and one-vs-rest multiclass)
//   - neighbors: k-nearest-neighbor classification
//   - metrics: accuracy, confusion matrix, macro precision/recall/F1
//   - preprocessing: standard scaling and label encoding
//   - dataset: CSV loading into gonum matrices
package modelselect
