package goods

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "materials.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write tuning: %v", err)
	}
	return path
}

func TestApplyTuningOverridesSelectedFields(t *testing.T) {
	tools := FromGood(GoodTools)
	bread := FromGood(GoodBread)
	restore := writeTuning(t, `
materials:
  - { material: tools, base_price: `+formatF(BasePrice(tools))+` }
  - { material: bread, nutrition: `+formatF(Nutrition(bread))+` }
`)
	t.Cleanup(func() {
		if err := ApplyTuning(restore); err != nil {
			t.Fatalf("restore tuning: %v", err)
		}
	})

	path := writeTuning(t, `
materials:
  - { material: tools, base_price: 12 }
  - { material: bread, nutrition: 1.3 }
`)
	if err := ApplyTuning(path); err != nil {
		t.Fatalf("apply tuning: %v", err)
	}

	if got := BasePrice(tools); got != 12 {
		t.Errorf("tools base price = %v, want 12", got)
	}
	if got := Nutrition(bread); got != 1.3 {
		t.Errorf("bread nutrition = %v, want 1.3", got)
	}
	// Untouched fields keep their defaults.
	if got := Category(bread); got != FoodGrain {
		t.Errorf("bread category changed to %v", got)
	}
	if got := Nutrition(tools); got != 0 {
		t.Errorf("tools gained nutrition %v", got)
	}
}

func TestApplyTuningRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown material", "materials:\n  - { material: mithril, base_price: 5 }\n"},
		{"zero price", "materials:\n  - { material: tools, base_price: 0 }\n"},
		{"negative nutrition", "materials:\n  - { material: bread, nutrition: -1 }\n"},
	}
	for _, tc := range cases {
		path := writeTuning(t, tc.body)
		if err := ApplyTuning(path); err == nil {
			t.Errorf("%s: tuning accepted, want error", tc.name)
		}
	}

	if err := ApplyTuning(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Errorf("missing file accepted, want error")
	}
}

func formatF(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
