package modelselection

import (
	"sort"

	"github.com/harukisato/modelselect/core/model"
	"github.com/harukisato/modelselect/core/parallel"
	"github.com/harukisato/modelselect/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ParamGrid maps hyperparameter names to the candidate values to try.
type ParamGrid map[string][]interface{}

// Candidates enumerates the Cartesian product of the grid in deterministic
// order: keys sorted alphabetically, the last key cycling fastest.
func (g ParamGrid) Candidates() ([]map[string]interface{}, error) {
	if len(g) == 0 {
		return nil, errors.NewValidationError("param_grid", "must not be empty", g)
	}

	keys := make([]string, 0, len(g))
	for key := range g {
		if len(g[key]) == 0 {
			return nil, errors.NewValidationError("param_grid", "has no values for key", key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	total := 1
	for _, key := range keys {
		total *= len(g[key])
	}

	candidates := make([]map[string]interface{}, 0, total)
	odometer := make([]int, len(keys))
	for {
		candidate := make(map[string]interface{}, len(keys))
		for i, key := range keys {
			candidate[key] = g[key][odometer[i]]
		}
		candidates = append(candidates, candidate)

		// Advance the odometer from the last key.
		pos := len(keys) - 1
		for pos >= 0 {
			odometer[pos]++
			if odometer[pos] < len(g[keys[pos]]) {
				break
			}
			odometer[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}

	return candidates, nil
}

// CandidateResult is the cross-validated outcome of one grid candidate.
type CandidateResult struct {
	Params    map[string]interface{}
	MeanScore float64
	StdScore  float64
	Rank      int
}

// GridSearchCV exhaustively evaluates every candidate in a parameter grid by
// cross-validation and refits the best one on the full data.
type GridSearchCV struct {
	// Estimator constructs a fresh tunable estimator with default
	// hyperparameters.
	Estimator func() model.TunableEstimator

	Grid    ParamGrid
	CV      Splitter
	Scoring string

	// NJobs bounds how many candidates are evaluated in parallel.
	// Zero or negative means one worker per CPU core.
	NJobs int

	fitted        bool
	bestIndex     int
	results       []CandidateResult
	bestEstimator model.TunableEstimator
}

// Fit runs the search. Candidates are evaluated concurrently, each by full
// cross-validation with a fresh estimator per fold. Score ties keep the
// candidate that enumerates first.
func (gs *GridSearchCV) Fit(X, y mat.Matrix) error {
	if gs.Estimator == nil {
		return errors.NewValidationError("estimator", "must not be nil", nil)
	}
	if gs.CV == nil {
		return errors.NewValidationError("cv", "must not be nil", nil)
	}
	if _, err := scorerByName(gs.Scoring); err != nil {
		return err
	}

	candidates, err := gs.Grid.Candidates()
	if err != nil {
		return err
	}

	// Reject unknown parameter names before spending CV time on them.
	for _, candidate := range candidates {
		if err := gs.Estimator().SetParams(candidate); err != nil {
			return err
		}
	}

	results := make([]CandidateResult, len(candidates))
	candidateErrs := make([]error, len(candidates))

	parallel.ForEach(len(candidates), gs.NJobs, func(i int) {
		params := candidates[i]
		newEstimator := func() model.Estimator {
			est := gs.Estimator()
			// Params were validated above; SetParams cannot fail here.
			_ = est.SetParams(params)
			return est
		}

		cvResult, err := CrossValidate(newEstimator, X, y, gs.CV, gs.Scoring)
		if err != nil {
			candidateErrs[i] = err
			return
		}
		results[i] = CandidateResult{
			Params:    params,
			MeanScore: cvResult.MeanScore(),
			StdScore:  cvResult.StdScore(),
		}
	})

	for _, err := range candidateErrs {
		if err != nil {
			return err
		}
	}

	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].MeanScore > results[best].MeanScore {
			best = i
		}
	}
	rankResults(results)

	bestEst := gs.Estimator()
	if err := bestEst.SetParams(candidates[best]); err != nil {
		return err
	}
	if err := bestEst.Fit(X, y); err != nil {
		return errors.Wrap(err, "refit of best candidate")
	}

	gs.results = results
	gs.bestIndex = best
	gs.bestEstimator = bestEst
	gs.fitted = true
	return nil
}

// rankResults assigns 1-based ranks by descending mean score; equal means keep
// enumeration order.
func rankResults(results []CandidateResult) {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]].MeanScore > results[order[b]].MeanScore
	})
	for rank, idx := range order {
		results[idx].Rank = rank + 1
	}
}

// BestParams returns the hyperparameters of the best candidate, or nil before
// Fit. The returned map is a copy; mutating it does not affect the search.
func (gs *GridSearchCV) BestParams() map[string]interface{} {
	if !gs.fitted {
		return nil
	}
	return copyParams(gs.results[gs.bestIndex].Params)
}

func copyParams(params map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// BestScore returns the mean cross-validated score of the best candidate.
func (gs *GridSearchCV) BestScore() float64 {
	if !gs.fitted {
		return 0
	}
	return gs.results[gs.bestIndex].MeanScore
}

// BestEstimator returns the best candidate refitted on the full data, or nil
// before Fit.
func (gs *GridSearchCV) BestEstimator() model.TunableEstimator {
	return gs.bestEstimator
}

// Results returns all candidate outcomes sorted by rank.
func (gs *GridSearchCV) Results() []CandidateResult {
	if !gs.fitted {
		return nil
	}
	out := make([]CandidateResult, len(gs.results))
	copy(out, gs.results)
	for i := range out {
		out[i].Params = copyParams(out[i].Params)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Rank < out[b].Rank })
	return out
}
