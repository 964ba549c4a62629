package modelselection

import (
	"fmt"
	"image/color"

	"github.com/harukisato/modelselect/core/model"
	"github.com/harukisato/modelselect/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// CurveResult holds the cross-validated scores of a validation curve: one
// train/test mean pair per value of the swept hyperparameter.
type CurveResult struct {
	ParamName   string
	ParamRange  []interface{}
	TrainScores []float64
	TestScores  []float64
}

// ValidationCurve sweeps one hyperparameter across paramRange, cross-validating
// the estimator at each value. It is the usual companion diagnostic to grid
// search: the gap between train and test curves shows where the parameter
// starts to overfit.
func ValidationCurve(newEstimator func() model.TunableEstimator, X, y mat.Matrix,
	paramName string, paramRange []interface{}, cv Splitter, scoring string) (*CurveResult, error) {

	if newEstimator == nil {
		return nil, errors.NewValidationError("newEstimator", "must not be nil", nil)
	}
	if len(paramRange) == 0 {
		return nil, errors.NewValidationError("param_range", "must not be empty", paramRange)
	}

	result := &CurveResult{
		ParamName:   paramName,
		ParamRange:  paramRange,
		TrainScores: make([]float64, len(paramRange)),
		TestScores:  make([]float64, len(paramRange)),
	}

	for i, value := range paramRange {
		params := map[string]interface{}{paramName: value}
		if err := newEstimator().SetParams(params); err != nil {
			return nil, err
		}

		cvResult, err := CrossValidate(func() model.Estimator {
			est := newEstimator()
			// Validated above.
			_ = est.SetParams(params)
			return est
		}, X, y, cv, scoring)
		if err != nil {
			return nil, errors.Wrapf(err, "%s=%v", paramName, value)
		}

		var trainSum float64
		for _, s := range cvResult.TrainScores {
			trainSum += s
		}
		result.TrainScores[i] = trainSum / float64(len(cvResult.TrainScores))
		result.TestScores[i] = cvResult.MeanScore()
	}

	return result, nil
}

// PlotValidationCurve renders the curve as a PNG. The x axis is the position
// of each value in ParamRange, labeled with the values themselves.
func PlotValidationCurve(result *CurveResult, title, filename string) error {
	if result == nil || len(result.ParamRange) == 0 {
		return errors.NewValidationError("result", "must hold at least one parameter value", result)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = result.ParamName
	p.Y.Label.Text = "score"

	trainPts := make(plotter.XYs, len(result.TrainScores))
	testPts := make(plotter.XYs, len(result.TestScores))
	ticks := make([]plot.Tick, len(result.ParamRange))
	for i := range result.ParamRange {
		trainPts[i] = plotter.XY{X: float64(i), Y: result.TrainScores[i]}
		testPts[i] = plotter.XY{X: float64(i), Y: result.TestScores[i]}
		ticks[i] = plot.Tick{Value: float64(i), Label: fmt.Sprintf("%v", result.ParamRange[i])}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)

	trainLine, err := plotter.NewLine(trainPts)
	if err != nil {
		return errors.Wrap(err, "train line")
	}
	trainLine.Color = color.RGBA{B: 255, A: 255}
	trainLine.LineStyle.Width = vg.Points(2)

	testLine, err := plotter.NewLine(testPts)
	if err != nil {
		return errors.Wrap(err, "test line")
	}
	testLine.Color = color.RGBA{R: 255, A: 255}
	testLine.LineStyle.Width = vg.Points(2)

	p.Add(trainLine, testLine)
	p.Legend.Add("train", trainLine)
	p.Legend.Add("cross-validation", testLine)
	p.Legend.Top = true

	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return errors.Wrapf(err, "save %s", filename)
	}
	return nil
}
