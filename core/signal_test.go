package core

import (
	"sync"
	"testing"
)

func TestSignalCoalesce(t *testing.T) {
	s := NewSignal(PolicyCoalesce)

	if s.Take() {
		t.Fatal("Take on a fresh signal should report nothing pending")
	}

	s.Raise()
	s.Raise()
	s.Raise()
	if !s.Pending() {
		t.Fatal("signal should be pending after Raise")
	}
	if !s.Take() {
		t.Fatal("first Take should observe the raise")
	}
	if s.Take() {
		t.Error("raises between two takes should coalesce into one")
	}

	st := s.Stats()
	if st.Raised != 3 || st.Observed != 1 || st.Coalesced != 2 || st.Pending != 0 {
		t.Errorf("unexpected stats: %+v", st)
	}
}

func TestSignalCount(t *testing.T) {
	s := NewSignal(PolicyCount)

	for i := 0; i < 4; i++ {
		s.Raise()
	}
	for i := 0; i < 4; i++ {
		if !s.Take() {
			t.Fatalf("Take %d: expected a pending raise", i)
		}
	}
	if s.Take() {
		t.Error("all raises should have been consumed")
	}

	st := s.Stats()
	if st.Raised != 4 || st.Observed != 4 || st.Coalesced != 0 {
		t.Errorf("unexpected stats: %+v", st)
	}
}

func TestSignalCountConcurrentRaise(t *testing.T) {
	s := NewSignal(PolicyCount)
	const raises = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < raises; i++ {
			s.Raise()
		}
	}()

	taken := 0
	for taken < raises {
		if s.Take() {
			taken++
		}
	}
	wg.Wait()

	if s.Take() {
		t.Error("no raise should remain after taking all of them")
	}
}

func TestPolicyString(t *testing.T) {
	tests := []struct {
		policy Policy
		want   string
	}{
		{PolicyCoalesce, "coalesce"},
		{PolicyCount, "count"},
		{Policy(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.policy.String(); got != tt.want {
			t.Errorf("Policy(%d).String() = %q, want %q", tt.policy, got, tt.want)
		}
	}
}
