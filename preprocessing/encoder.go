package preprocessing

import (
	"github.com/harukisato/modelselect/core/model"
	"github.com/harukisato/modelselect/pkg/errors"
)

// LabelEncoder はカテゴリカルなラベル文字列を整数に符号化する
// 符号は最初に出現した順に割り当てられる
type LabelEncoder struct {
	state *model.StateManager

	// Classes は符号順に並んだラベル文字列（index = 符号値）
	Classes []string

	index map[string]int
}

// NewLabelEncoder は新しいLabelEncoderを作成する
func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{
		state: model.NewStateManager(),
	}
}

// Fit はラベル集合から符号表を構築する
func (e *LabelEncoder) Fit(labels []string) error {
	if len(labels) == 0 {
		return errors.NewModelError("LabelEncoder.Fit", "empty labels", errors.ErrEmptyData)
	}

	e.Classes = e.Classes[:0]
	e.index = make(map[string]int)
	for _, label := range labels {
		if _, ok := e.index[label]; !ok {
			e.index[label] = len(e.Classes)
			e.Classes = append(e.Classes, label)
		}
	}

	e.state.SetFitted()
	return nil
}

// Transform はラベル文字列を符号値に変換する
// 未知のラベルが含まれる場合はValidationErrorを返す
func (e *LabelEncoder) Transform(labels []string) ([]float64, error) {
	if !e.state.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "Transform")
	}

	out := make([]float64, len(labels))
	for i, label := range labels {
		code, ok := e.index[label]
		if !ok {
			return nil, errors.NewValidationError("labels", "unseen label", label)
		}
		out[i] = float64(code)
	}
	return out, nil
}

// FitTransform はFitとTransformを連続して実行する
func (e *LabelEncoder) FitTransform(labels []string) ([]float64, error) {
	if err := e.Fit(labels); err != nil {
		return nil, err
	}
	return e.Transform(labels)
}

// InverseTransform は符号値を元のラベル文字列に戻す
func (e *LabelEncoder) InverseTransform(codes []float64) ([]string, error) {
	if !e.state.IsFitted() {
		return nil, errors.NewNotFittedError("LabelEncoder", "InverseTransform")
	}

	out := make([]string, len(codes))
	for i, code := range codes {
		idx := int(code)
		if idx < 0 || idx >= len(e.Classes) {
			return nil, errors.NewValidationError("codes", "code out of range", code)
		}
		out[i] = e.Classes[idx]
	}
	return out, nil
}
