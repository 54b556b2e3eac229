package clock

import (
	"sync"
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := &RealClock{}

	before := time.Now()
	actual := clock.Now()
	after := time.Now()

	if actual.Before(before) || actual.After(after) {
		t.Errorf("RealClock.Now() returned time outside expected range: got %v, expected between %v and %v", actual, before, after)
	}
}

func TestFakeClock_SetAndAdvance(t *testing.T) {
	initialTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(initialTime)

	t.Run("returns fixed time", func(t *testing.T) {
		if !clock.Now().Equal(initialTime) {
			t.Errorf("FakeClock.Now() = %v, want %v", clock.Now(), initialTime)
		}
	})

	t.Run("multiple advances accumulate", func(t *testing.T) {
		clock.Set(initialTime)

		clock.Advance(1 * time.Hour)
		clock.Advance(30 * time.Minute)

		expectedTime := initialTime.Add(90 * time.Minute)
		if !clock.Now().Equal(expectedTime) {
			t.Errorf("After multiple advances, Now() = %v, want %v", clock.Now(), expectedTime)
		}
	})

	t.Run("can set time backwards", func(t *testing.T) {
		pastTime := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		clock.Set(pastTime)

		if !clock.Now().Equal(pastTime) {
			t.Errorf("After setting time backwards, Now() = %v, want %v", clock.Now(), pastTime)
		}
	})
}

func TestFakeClock_ConcurrentUse(t *testing.T) {
	clock := NewFakeClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				clock.Advance(time.Second)
				_ = clock.Now()
			}
		}()
	}
	wg.Wait()

	want := time.Date(2024, 1, 1, 0, 0, 800, 0, time.UTC)
	if !clock.Now().Equal(want) {
		t.Errorf("Now() = %v, want %v", clock.Now(), want)
	}
}
