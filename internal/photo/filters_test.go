package photo

import "testing"

func TestDefault(t *testing.T) {
	f := Default()

	if f.Brightness != 100 || f.Contrast != 100 || f.Saturation != 100 {
		t.Errorf("level channels = %d/%d/%d, want 100/100/100", f.Brightness, f.Contrast, f.Saturation)
	}
	if f.Sepia != 0 || f.Grayscale != 0 {
		t.Errorf("tone channels = %d/%d, want 0/0", f.Sepia, f.Grayscale)
	}
}

func TestIsDefault(t *testing.T) {
	if !Default().IsDefault() {
		t.Error("Default().IsDefault() = false, want true")
	}

	f := Default()
	f.Sepia = 40
	if f.IsDefault() {
		t.Error("IsDefault() = true for non-default adjustment, want false")
	}
}

func TestDescriptor(t *testing.T) {
	f := FilterAdjustment{Brightness: 110, Contrast: 90, Saturation: 100, Sepia: 25, Grayscale: 0}

	want := "brightness(110%) contrast(90%) saturate(100%) sepia(25%) grayscale(0%)"
	if got := f.Descriptor(); got != want {
		t.Errorf("Descriptor() = %q, want %q", got, want)
	}
}

func TestDescriptorOf_Nil(t *testing.T) {
	if got := DescriptorOf(nil); got != "none" {
		t.Errorf("DescriptorOf(nil) = %q, want \"none\"", got)
	}
}

func TestDescriptorOf_Present(t *testing.T) {
	f := Default()
	if got := DescriptorOf(&f); got != f.Descriptor() {
		t.Errorf("DescriptorOf(&f) = %q, want %q", got, f.Descriptor())
	}
}

func TestDedupePersonIDs(t *testing.T) {
	got := DedupePersonIDs([]string{"p1", "p2", "p1", "", "p3", "p2"})

	want := []string{"p1", "p2", "p3"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDedupePersonIDs_Empty(t *testing.T) {
	if got := DedupePersonIDs(nil); got != nil {
		t.Errorf("DedupePersonIDs(nil) = %v, want nil", got)
	}
	if got := DedupePersonIDs([]string{"", ""}); got != nil {
		t.Errorf("DedupePersonIDs(blank) = %v, want nil", got)
	}
}
