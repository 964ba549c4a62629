// Package modelselection provides cross-validation splitters, cross-validated
// scoring, and exhaustive grid search over estimator hyperparameters.
package modelselection

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/harukisato/modelselect/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Splitter generates train/test index pairs for cross-validation.
type Splitter interface {
	// Split returns the folds for the given data. y may be nil for
	// splitters that do not stratify.
	Split(X, y mat.Matrix) ([]Fold, error)

	// NumSplits returns the number of folds Split will produce.
	NumSplits() int
}

// Fold holds the row indices of one train/test split.
type Fold struct {
	Train []int
	Test  []int
}

// KFold splits samples into k consecutive folds. Each fold serves as the test
// set exactly once. With Shuffle, indices are permuted before folding.
type KFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewKFold creates a k-fold splitter.
func NewKFold(nSplits int, shuffle bool, seed uint64) *KFold {
	return &KFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// NumSplits returns the number of folds.
func (kf *KFold) NumSplits() int {
	return kf.NSplits
}

// Split generates train/test indices for each fold. The first nSamples%NSplits
// folds get one extra test sample.
func (kf *KFold) Split(X, y mat.Matrix) ([]Fold, error) {
	nSamples, err := checkSplitInputs("KFold.Split", X, y, kf.NSplits)
	if err != nil {
		return nil, err
	}

	indices := make([]int, nSamples)
	for i := range indices {
		indices[i] = i
	}
	if kf.Shuffle {
		r := rand.New(rand.NewPCG(kf.Seed, kf.Seed))
		r.Shuffle(len(indices), func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
	}

	folds := make([]Fold, kf.NSplits)
	foldSize := nSamples / kf.NSplits
	remainder := nSamples % kf.NSplits

	current := 0
	for f := 0; f < kf.NSplits; f++ {
		testSize := foldSize
		if f < remainder {
			testSize++
		}

		test := make([]int, testSize)
		copy(test, indices[current:current+testSize])

		train := make([]int, 0, nSamples-testSize)
		train = append(train, indices[:current]...)
		train = append(train, indices[current+testSize:]...)

		folds[f] = Fold{Train: train, Test: test}
		current += testSize
	}

	return folds, nil
}

// StratifiedKFold splits samples into k folds that preserve the class
// proportions of y. Samples of each class are dealt round-robin across folds.
type StratifiedKFold struct {
	NSplits int
	Shuffle bool
	Seed    uint64
}

// NewStratifiedKFold creates a stratified k-fold splitter.
func NewStratifiedKFold(nSplits int, shuffle bool, seed uint64) *StratifiedKFold {
	return &StratifiedKFold{NSplits: nSplits, Shuffle: shuffle, Seed: seed}
}

// NumSplits returns the number of folds.
func (skf *StratifiedKFold) NumSplits() int {
	return skf.NSplits
}

// Split generates stratified train/test indices for each fold.
// Every class must have at least NSplits members.
func (skf *StratifiedKFold) Split(X, y mat.Matrix) ([]Fold, error) {
	nSamples, err := checkSplitInputs("StratifiedKFold.Split", X, y, skf.NSplits)
	if err != nil {
		return nil, err
	}
	if y == nil {
		return nil, errors.NewValidationError("y", "stratified splitting requires labels", nil)
	}

	classIndices, classOrder := groupByClass(y, nSamples)

	var r *rand.Rand
	if skf.Shuffle {
		r = rand.New(rand.NewPCG(skf.Seed, skf.Seed))
	}

	testSets := make([][]int, skf.NSplits)
	for _, class := range classOrder {
		members := classIndices[class]
		if len(members) < skf.NSplits {
			return nil, errors.NewValidationError("n_splits",
				"cannot be greater than the number of members in each class", skf.NSplits)
		}
		if r != nil {
			r.Shuffle(len(members), func(i, j int) {
				members[i], members[j] = members[j], members[i]
			})
		}
		for i, idx := range members {
			f := i % skf.NSplits
			testSets[f] = append(testSets[f], idx)
		}
	}

	folds := make([]Fold, skf.NSplits)
	for f := 0; f < skf.NSplits; f++ {
		sort.Ints(testSets[f])
		inTest := make(map[int]bool, len(testSets[f]))
		for _, idx := range testSets[f] {
			inTest[idx] = true
		}

		train := make([]int, 0, nSamples-len(testSets[f]))
		for i := 0; i < nSamples; i++ {
			if !inTest[i] {
				train = append(train, i)
			}
		}
		folds[f] = Fold{Train: train, Test: testSets[f]}
	}

	return folds, nil
}

// StratifiedShuffleSplit generates NSplits independent random splits that
// preserve class proportions. Unlike k-fold, test sets may overlap between
// splits.
type StratifiedShuffleSplit struct {
	NSplits  int
	TestSize float64
	Seed     uint64
}

// NewStratifiedShuffleSplit creates a stratified shuffle splitter.
func NewStratifiedShuffleSplit(nSplits int, testSize float64, seed uint64) *StratifiedShuffleSplit {
	return &StratifiedShuffleSplit{NSplits: nSplits, TestSize: testSize, Seed: seed}
}

// NumSplits returns the number of splits.
func (sss *StratifiedShuffleSplit) NumSplits() int {
	return sss.NSplits
}

// Split generates the random stratified splits. Per class,
// round(classSize*TestSize) samples land in the test set, at least one.
func (sss *StratifiedShuffleSplit) Split(X, y mat.Matrix) ([]Fold, error) {
	nSamples, err := checkSplitInputs("StratifiedShuffleSplit.Split", X, y, sss.NSplits)
	if err != nil {
		return nil, err
	}
	if y == nil {
		return nil, errors.NewValidationError("y", "stratified splitting requires labels", nil)
	}
	if sss.TestSize <= 0 || sss.TestSize >= 1 {
		return nil, errors.NewValidationError("test_size", "must be in the open interval (0, 1)", sss.TestSize)
	}

	classIndices, classOrder := groupByClass(y, nSamples)
	r := rand.New(rand.NewPCG(sss.Seed, sss.Seed))

	folds := make([]Fold, sss.NSplits)
	for s := 0; s < sss.NSplits; s++ {
		var train, test []int
		for _, class := range classOrder {
			members := classIndices[class]
			r.Shuffle(len(members), func(i, j int) {
				members[i], members[j] = members[j], members[i]
			})

			nTest := int(math.Round(float64(len(members)) * sss.TestSize))
			if nTest < 1 {
				nTest = 1
			}
			if nTest >= len(members) {
				nTest = len(members) - 1
			}
			if nTest < 1 {
				return nil, errors.NewValidationError("test_size",
					"leaves a class with no training samples", sss.TestSize)
			}

			test = append(test, members[:nTest]...)
			train = append(train, members[nTest:]...)
		}
		sort.Ints(train)
		sort.Ints(test)
		folds[s] = Fold{Train: train, Test: test}
	}

	return folds, nil
}

// checkSplitInputs validates the common splitter preconditions and returns the
// sample count.
func checkSplitInputs(op string, X, y mat.Matrix, nSplits int) (int, error) {
	if X == nil {
		return 0, errors.NewValidationError("X", "must not be nil", nil)
	}
	nSamples, _ := X.Dims()
	if nSamples == 0 {
		return 0, errors.Wrap(errors.ErrEmptyData, op)
	}
	if y != nil {
		yRows, _ := y.Dims()
		if yRows != nSamples {
			return 0, errors.NewDimensionError(op, nSamples, yRows, 0)
		}
	}
	if nSplits < 2 {
		return 0, errors.NewValidationError("n_splits", "must be at least 2", nSplits)
	}
	if nSplits > nSamples {
		return 0, errors.NewValidationError("n_splits",
			"cannot be greater than the number of samples", nSplits)
	}
	return nSamples, nil
}

// groupByClass collects row indices per label value, with labels returned in
// ascending order so iteration is deterministic.
func groupByClass(y mat.Matrix, nSamples int) (map[float64][]int, []float64) {
	classIndices := make(map[float64][]int)
	var classOrder []float64
	for i := 0; i < nSamples; i++ {
		label := y.At(i, 0)
		if _, seen := classIndices[label]; !seen {
			classOrder = append(classOrder, label)
		}
		classIndices[label] = append(classIndices[label], i)
	}
	sort.Float64s(classOrder)
	return classIndices, classOrder
}
