package components

import "testing"

func TestGenomeValueCoversDescriptors(t *testing.T) {
	g := Genome{Speed: 2.5, Perception: 80, Size: 7, Diet: Carnivore, Efficiency: 1.2}
	want := map[string]float32{
		"speed":      2.5,
		"perception": 80,
		"size":       7,
		"efficiency": 1.2,
	}

	fds := GenomeFieldDescriptors()
	if len(fds) != len(want) {
		t.Fatalf("descriptors = %d, want %d", len(fds), len(want))
	}
	for _, fd := range fds {
		w, ok := want[fd.ID]
		if !ok {
			t.Errorf("unexpected descriptor %q", fd.ID)
			continue
		}
		if got := GenomeValue(&g, fd.ID); got != w {
			t.Errorf("GenomeValue(%q) = %v, want %v", fd.ID, got, w)
		}
		if fd.Min >= fd.Max {
			t.Errorf("%s range [%v, %v] is empty", fd.ID, fd.Min, fd.Max)
		}
	}

	// Diet is categorical and shown by name, not as a bar
	if got := GenomeValue(&g, "diet"); got != 0 {
		t.Errorf("GenomeValue(diet) = %v, want 0", got)
	}
}
