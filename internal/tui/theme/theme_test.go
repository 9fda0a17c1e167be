package theme

import "testing"

func TestByName(t *testing.T) {
	if got := ByName("budgetwise"); got.Name != "budgetwise" {
		t.Errorf("ByName(budgetwise) = %q", got.Name)
	}
	if got := ByName("no-such-theme"); got.Name != FlexokiDark.Name {
		t.Errorf("unknown theme resolved to %q, want default", got.Name)
	}
}

func TestSetActive(t *testing.T) {
	t.Cleanup(func() { Active = FlexokiDark })

	SetActive("tokyo-night")
	if Active.Name != "tokyo-night" {
		t.Fatalf("Active = %q after SetActive", Active.Name)
	}
}

func TestMoneyRolesDistinct(t *testing.T) {
	// Income and expense coloring must never collide, or the transaction
	// list becomes unreadable.
	for _, th := range All {
		if th.Income == th.Expense {
			t.Errorf("theme %q: income and expense share color %v", th.Name, th.Income)
		}
		if th.Income == "" || th.Expense == "" || th.Warning == "" || th.Caution == "" {
			t.Errorf("theme %q: missing money/alert role", th.Name)
		}
	}
}
