package model

import (
	"sync"
	"testing"
)

func TestStateManager_FittedLifecycle(t *testing.T) {
	s := NewStateManager()

	if s.IsFitted() {
		t.Error("new StateManager must not be fitted")
	}
	if err := s.RequireFitted(); err == nil {
		t.Error("RequireFitted() before fit should return an error")
	}

	s.SetDimensions(4, 150)
	s.SetFitted()

	if !s.IsFitted() {
		t.Error("IsFitted() = false after SetFitted()")
	}
	if err := s.RequireFitted(); err != nil {
		t.Errorf("RequireFitted() after fit = %v, want nil", err)
	}

	nFeatures, nSamples := s.GetDimensions()
	if nFeatures != 4 || nSamples != 150 {
		t.Errorf("GetDimensions() = (%d, %d), want (4, 150)", nFeatures, nSamples)
	}

	s.Reset()
	if s.IsFitted() {
		t.Error("IsFitted() = true after Reset()")
	}
	nFeatures, nSamples = s.GetDimensions()
	if nFeatures != 0 || nSamples != 0 {
		t.Errorf("GetDimensions() after Reset() = (%d, %d), want (0, 0)", nFeatures, nSamples)
	}
}

func TestStateManager_ConcurrentAccess(t *testing.T) {
	s := NewStateManager()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetFitted()
		}()
		go func() {
			defer wg.Done()
			_ = s.IsFitted()
		}()
	}
	wg.Wait()

	if !s.IsFitted() {
		t.Error("IsFitted() = false after concurrent SetFitted()")
	}
}
