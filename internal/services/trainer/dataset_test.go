package trainer

import (
	"testing"

	"github.com/killallgit/voice-detector-api/internal/services/features"
)

func TestDatasetShapeAndBalance(t *testing.T) {
	ds := NewDataset(42, 20, 10)

	if len(ds.Train) != 20 || len(ds.Validation) != 10 {
		t.Fatalf("split sizes = %d/%d, want 20/10", len(ds.Train), len(ds.Validation))
	}

	var synthetic int
	for _, s := range ds.Train {
		if len(s.Cepstra) != features.NumCoefficients {
			t.Fatalf("sample has %d bands, want %d", len(s.Cepstra), features.NumCoefficients)
		}
		for _, row := range s.Cepstra {
			if len(row) != features.NumFrames {
				t.Fatalf("sample band has %d frames, want %d", len(row), features.NumFrames)
			}
		}
		if s.Label == 1 {
			synthetic++
		} else if s.Label != 0 {
			t.Fatalf("unexpected label %v", s.Label)
		}
	}
	if synthetic != 10 {
		t.Errorf("train split has %d synthetic samples, want 10", synthetic)
	}
}

func TestDatasetDeterministic(t *testing.T) {
	a := NewDataset(7, 6, 4)
	b := NewDataset(7, 6, 4)

	for i := range a.Train {
		if a.Train[i].Label != b.Train[i].Label {
			t.Fatalf("train sample %d labels differ", i)
		}
		for c := range a.Train[i].Cepstra {
			for f := range a.Train[i].Cepstra[c] {
				if a.Train[i].Cepstra[c][f] != b.Train[i].Cepstra[c][f] {
					t.Fatalf("train sample %d differs at (%d,%d)", i, c, f)
				}
			}
		}
	}

	other := NewDataset(8, 6, 4)
	same := true
	for i := range a.Train {
		if a.Train[i].Cepstra[0][0] != other.Train[i].Cepstra[0][0] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical datasets")
	}
}

func TestClassTemporalVariance(t *testing.T) {
	ds := NewDataset(3, 40, 0)

	// Frame-to-frame variance within a band separates the classes: synthetic
	// bands barely move, human bands wander.
	bandVariance := func(row []float64) float64 {
		var mean float64
		for _, v := range row {
			mean += v
		}
		mean /= float64(len(row))
		var sum float64
		for _, v := range row {
			d := v - mean
			sum += d * d
		}
		return sum / float64(len(row))
	}

	var synVar, humVar float64
	var synN, humN int
	for _, s := range ds.Train {
		var total float64
		for _, row := range s.Cepstra {
			total += bandVariance(row)
		}
		total /= float64(len(s.Cepstra))
		if s.Label == 1 {
			synVar += total
			synN++
		} else {
			humVar += total
			humN++
		}
	}
	synVar /= float64(synN)
	humVar /= float64(humN)

	if humVar < 10*synVar {
		t.Errorf("human variance (%v) should dwarf synthetic variance (%v)", humVar, synVar)
	}
}
