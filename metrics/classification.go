// Package metrics は分類モデルの評価指標を提供します。
package metrics

import (
	"sort"

	"github.com/harukisato/modelselect/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Accuracy は正解率（accuracy）を計算する
//
// accuracy = 正しく分類されたサンプル数 / 全サンプル数
func Accuracy(yTrue, yPred *mat.VecDense) (float64, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("Accuracy", n, yPred.Len(), 0)
	}

	correct := 0
	for i := 0; i < n; i++ {
		if yTrue.AtVec(i) == yPred.AtVec(i) {
			correct++
		}
	}

	return float64(correct) / float64(n), nil
}

// AccuracyMatrix は行列形式の入力に対してAccuracyを計算する
// 複数列の行列が渡された場合は先頭列のみを使用する
func AccuracyMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, yPredVec, err := columnVectors("AccuracyMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return Accuracy(yTrueVec, yPredVec)
}

// ConfusionMatrix は混同行列を計算する
//
// 戻り値の行列はソート済みラベル順で、行が正解ラベル、列が予測ラベルを表す。
func ConfusionMatrix(yTrue, yPred *mat.VecDense) ([][]int, []int, error) {
	// 入力検証
	n := yTrue.Len()
	if n == 0 {
		return nil, nil, errors.NewValueError("ConfusionMatrix", "empty vector")
	}

	if yPred.Len() != n {
		return nil, nil, errors.NewDimensionError("ConfusionMatrix", n, yPred.Len(), 0)
	}

	// 両方のベクトルに現れるラベルを収集する
	labelSet := make(map[int]bool)
	for i := 0; i < n; i++ {
		labelSet[int(yTrue.AtVec(i))] = true
		labelSet[int(yPred.AtVec(i))] = true
	}

	labels := make([]int, 0, len(labelSet))
	for label := range labelSet {
		labels = append(labels, label)
	}
	sort.Ints(labels)

	index := make(map[int]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	cm := make([][]int, len(labels))
	for i := range cm {
		cm[i] = make([]int, len(labels))
	}

	for i := 0; i < n; i++ {
		t := index[int(yTrue.AtVec(i))]
		p := index[int(yPred.AtVec(i))]
		cm[t][p]++
	}

	return cm, labels, nil
}

// PrecisionMacro はマクロ平均適合率を計算する
//
// クラスごとに precision = TP / (TP + FP) を計算し、単純平均を取る。
// あるクラスが一度も予測されなかった場合、そのクラスの適合率は0として扱い、
// UndefinedMetricWarningを発生させる（scikit-learnのzero_division=0と同じ挙動）。
func PrecisionMacro(yTrue, yPred *mat.VecDense) (float64, error) {
	return macroAverage("precision", yTrue, yPred, func(tp, fp, fn int) (float64, bool) {
		if tp+fp == 0 {
			return 0, false
		}
		return float64(tp) / float64(tp+fp), true
	})
}

// RecallMacro はマクロ平均再現率を計算する
//
// クラスごとに recall = TP / (TP + FN) を計算し、単純平均を取る。
func RecallMacro(yTrue, yPred *mat.VecDense) (float64, error) {
	return macroAverage("recall", yTrue, yPred, func(tp, fp, fn int) (float64, bool) {
		if tp+fn == 0 {
			return 0, false
		}
		return float64(tp) / float64(tp+fn), true
	})
}

// F1Macro はマクロ平均F1スコアを計算する
//
// クラスごとに F1 = 2*TP / (2*TP + FP + FN) を計算し、単純平均を取る。
func F1Macro(yTrue, yPred *mat.VecDense) (float64, error) {
	return macroAverage("f1", yTrue, yPred, func(tp, fp, fn int) (float64, bool) {
		if 2*tp+fp+fn == 0 {
			return 0, false
		}
		return 2 * float64(tp) / float64(2*tp+fp+fn), true
	})
}

// PrecisionMacroMatrix は行列形式の入力に対してPrecisionMacroを計算する
func PrecisionMacroMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, yPredVec, err := columnVectors("PrecisionMacroMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return PrecisionMacro(yTrueVec, yPredVec)
}

// RecallMacroMatrix は行列形式の入力に対してRecallMacroを計算する
func RecallMacroMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, yPredVec, err := columnVectors("RecallMacroMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return RecallMacro(yTrueVec, yPredVec)
}

// F1MacroMatrix は行列形式の入力に対してF1Macroを計算する
func F1MacroMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	yTrueVec, yPredVec, err := columnVectors("F1MacroMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return F1Macro(yTrueVec, yPredVec)
}

// macroAverage は混同行列からクラスごとの指標を計算し、マクロ平均を返す
func macroAverage(metric string, yTrue, yPred *mat.VecDense, perClass func(tp, fp, fn int) (float64, bool)) (float64, error) {
	cm, labels, err := ConfusionMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var sum float64
	for i := range labels {
		tp := cm[i][i]
		fp := 0
		fn := 0
		for j := range labels {
			if j == i {
				continue
			}
			fp += cm[j][i]
			fn += cm[i][j]
		}

		score, defined := perClass(tp, fp, fn)
		if !defined {
			errors.Warn(errors.NewUndefinedMetricWarning(metric, "no samples for a class", 0.0))
		}
		sum += score
	}

	return sum / float64(len(labels)), nil
}

// columnVectors は行列入力の先頭列をVecDenseに変換する
func columnVectors(op string, yTrue, yPred mat.Matrix) (*mat.VecDense, *mat.VecDense, error) {
	if yTrue == nil || yPred == nil {
		return nil, nil, errors.NewValueError(op, "nil matrix")
	}

	rTrue, cTrue := yTrue.Dims()
	rPred, _ := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return nil, nil, errors.NewValueError(op, "empty matrix")
	}

	if rTrue != rPred {
		return nil, nil, errors.NewDimensionError(op, rTrue, rPred, 0)
	}

	yTrueVec := mat.NewVecDense(rTrue, nil)
	yPredVec := mat.NewVecDense(rPred, nil)
	for i := 0; i < rTrue; i++ {
		yTrueVec.SetVec(i, yTrue.At(i, 0))
		yPredVec.SetVec(i, yPred.At(i, 0))
	}

	return yTrueVec, yPredVec, nil
}
