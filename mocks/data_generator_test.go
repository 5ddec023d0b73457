package mocks

import (
	"testing"
	"time"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Count = 500

	ticks := gen.Generate(config)

	if len(ticks) != 500 {
		t.Errorf("expected 500 ticks, got %d", len(ticks))
	}

	if !ticks[0].Time.Equal(config.StartTime) {
		t.Errorf("expected first tick at %v, got %v", config.StartTime, ticks[0].Time)
	}

	duplicates := 0

	for i := 1; i < len(ticks); i++ {
		if ticks[i].Time.Before(ticks[i-1].Time) {
			t.Errorf("ticks not in chronological order at index %d", i)
		}

		if ticks[i].Time.Equal(ticks[i-1].Time) {
			duplicates++
		}

		if ticks[i].Time.Nanosecond() != 0 {
			t.Errorf("tick %d is not on a whole second", i)
		}
	}

	if duplicates == 0 {
		t.Error("expected some ticks to share a timestamp")
	}

	for i, tick := range ticks {
		if tick.Price <= 0 {
			t.Errorf("invalid price at index %d: %f", i, tick.Price)
		}

		if tick.Volume < 0 {
			t.Errorf("invalid volume at index %d: %f", i, tick.Volume)
		}
	}
}

func TestDataGenerator_Reproducibility(t *testing.T) {
	gen1 := NewDataGenerator(42)
	gen2 := NewDataGenerator(42)

	config := DefaultConfig()
	config.Count = 10

	data1 := gen1.Generate(config)
	data2 := gen2.Generate(config)

	for i := range data1 {
		if data1[i] != data2[i] {
			t.Errorf("data not reproducible at index %d: got %v and %v", i, data1[i], data2[i])
		}
	}
}

func TestDataGenerator_Different_Seeds(t *testing.T) {
	config := DefaultConfig()
	config.Count = 10

	data1 := NewDataGenerator(42).Generate(config)
	data2 := NewDataGenerator(123).Generate(config)

	sameCount := 0

	for i := range data1 {
		if data1[i].Price == data2[i].Price {
			sameCount++
		}
	}

	if sameCount == len(data1) {
		t.Error("different seeds produced identical data")
	}
}

func TestGenerate10K(t *testing.T) {
	ticks := Generate10K()

	if len(ticks) != 10000 {
		t.Errorf("expected 10000 ticks, got %d", len(ticks))
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Count != 10000 {
		t.Errorf("expected default count 10000, got %d", config.Count)
	}

	if config.MeanGap != 5*time.Minute {
		t.Errorf("expected default gap 5m, got %v", config.MeanGap)
	}
}
