package session

import (
	"sync"
	"testing"
	"time"
)

func TestManagerDo(t *testing.T) {
	m := NewManager(0)

	m.Do(1, func(s *Session) {
		s.Begin(WizardSearch, StepEnterKeyword)
		s.Keyword = "car"
	})
	if !m.InProgress(1) {
		t.Fatal("wizard not in progress after Begin")
	}
	m.Do(1, func(s *Session) {
		if s.Wizard != WizardSearch || s.Keyword != "car" {
			t.Errorf("session = %+v", *s)
		}
	})
	if m.InProgress(2) {
		t.Error("unrelated user reported in progress")
	}
}

func TestBeginDiscardsUnfinishedWizard(t *testing.T) {
	m := NewManager(0)
	m.Do(1, func(s *Session) {
		s.Begin(WizardListing, StepSelectType)
		s.Draft.Category = "Cars"
	})
	m.Do(1, func(s *Session) {
		s.Begin(WizardSearch, StepEnterKeyword)
	})
	m.Do(1, func(s *Session) {
		if s.Wizard != WizardSearch || s.Draft.Category != "" {
			t.Errorf("stale wizard data survived: %+v", *s)
		}
	})
}

func TestIdleTimeoutDiscardsWizard(t *testing.T) {
	m := NewManager(10 * time.Minute)
	current := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	m.Do(1, func(s *Session) {
		s.Begin(WizardListing, StepEnterPrice)
	})

	current = current.Add(9 * time.Minute)
	if !m.InProgress(1) {
		t.Fatal("wizard discarded before the timeout")
	}

	current = current.Add(2 * time.Minute)
	if m.InProgress(1) {
		t.Fatal("wizard survived past the timeout")
	}
	m.Do(1, func(s *Session) {
		if s.Active() {
			t.Errorf("expired session still active: %+v", *s)
		}
	})
}

func TestZeroTTLNeverExpires(t *testing.T) {
	m := NewManager(0)
	current := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return current }

	m.Do(1, func(s *Session) { s.Begin(WizardSale, StepEnterDetails) })
	current = current.Add(48 * time.Hour)
	if !m.InProgress(1) {
		t.Fatal("wizard expired with ttl disabled")
	}
}

func TestClear(t *testing.T) {
	m := NewManager(0)
	m.Do(1, func(s *Session) { s.Begin(WizardAdmin, StepAdminFee) })
	m.Clear(1)
	if m.InProgress(1) {
		t.Fatal("session survived Clear")
	}
}

func TestConcurrentUsersIndependent(t *testing.T) {
	m := NewManager(0)
	var wg sync.WaitGroup
	for uid := int64(1); uid <= 8; uid++ {
		wg.Add(1)
		go func(uid int64) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				m.Do(uid, func(s *Session) {
					s.Begin(WizardSearch, StepEnterKeyword)
					s.Keyword = "kw"
					s.Reset()
				})
			}
		}(uid)
	}
	wg.Wait()
	for uid := int64(1); uid <= 8; uid++ {
		if m.InProgress(uid) {
			t.Errorf("user %d left in progress", uid)
		}
	}
}
