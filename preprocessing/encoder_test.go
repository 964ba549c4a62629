package preprocessing

import (
	"testing"
)

func TestLabelEncoder_FitTransform(t *testing.T) {
	labels := []string{"setosa", "versicolor", "setosa", "virginica", "versicolor"}

	enc := NewLabelEncoder()
	codes, err := enc.FitTransform(labels)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	// First-seen order: setosa=0, versicolor=1, virginica=2
	want := []float64{0, 1, 0, 2, 1}
	for i, w := range want {
		if codes[i] != w {
			t.Errorf("codes[%d] = %v, want %v", i, codes[i], w)
		}
	}

	wantClasses := []string{"setosa", "versicolor", "virginica"}
	if len(enc.Classes) != len(wantClasses) {
		t.Fatalf("Classes = %v, want %v", enc.Classes, wantClasses)
	}
	for i, w := range wantClasses {
		if enc.Classes[i] != w {
			t.Errorf("Classes[%d] = %v, want %v", i, enc.Classes[i], w)
		}
	}
}

func TestLabelEncoder_UnseenLabel(t *testing.T) {
	enc := NewLabelEncoder()
	if err := enc.Fit([]string{"a", "b"}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if _, err := enc.Transform([]string{"a", "c"}); err == nil {
		t.Error("Transform with unseen label should return an error")
	}
}

func TestLabelEncoder_InverseTransform(t *testing.T) {
	enc := NewLabelEncoder()
	codes, err := enc.FitTransform([]string{"x", "y", "z", "x"})
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	labels, err := enc.InverseTransform(codes)
	if err != nil {
		t.Fatalf("InverseTransform() error = %v", err)
	}

	want := []string{"x", "y", "z", "x"}
	for i, w := range want {
		if labels[i] != w {
			t.Errorf("labels[%d] = %v, want %v", i, labels[i], w)
		}
	}
}

func TestLabelEncoder_NotFitted(t *testing.T) {
	enc := NewLabelEncoder()
	if _, err := enc.Transform([]string{"a"}); err == nil {
		t.Error("Transform before Fit should return an error")
	}
}

func TestLabelEncoder_EmptyInput(t *testing.T) {
	enc := NewLabelEncoder()
	if err := enc.Fit(nil); err == nil {
		t.Error("Fit with empty labels should return an error")
	}
}
