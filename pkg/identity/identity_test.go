package identity

import "testing"

func TestResolvePropertyID(t *testing.T) {
	tests := []struct {
		name     string
		property map[string]interface{}
		want     string
	}{
		{
			"id wins over codes",
			map[string]interface{}{"id": float64(42), "propertyCode": "PC-1", "integrationCode": "IC-9"},
			"42",
		},
		{
			"falls through to integrationCode",
			map[string]interface{}{"integrationCode": "IC-9"},
			"IC-9",
		},
		{
			"blank id skipped",
			map[string]interface{}{"id": "   ", "propertyCode": "PC-1"},
			"PC-1",
		},
		{
			"numeric drops trailing zeros",
			map[string]interface{}{"propertyId": float64(7)},
			"7",
		},
		{"nil map", nil, ""},
		{"no candidates", map[string]interface{}{"other": "x"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePropertyID(tt.property); got != tt.want {
				t.Errorf("ResolvePropertyID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolvePropertyDisplayName(t *testing.T) {
	property := map[string]interface{}{
		"name":        "Farm North",
		"addressLine": "  Road 7, km 12  ",
	}
	if got := ResolvePropertyDisplayName(property); got != "Road 7, km 12" {
		t.Errorf("addressLine should win, got %q", got)
	}

	delete(property, "addressLine")
	if got := ResolvePropertyDisplayName(property); got != "Farm North" {
		t.Errorf("name fallback, got %q", got)
	}
}

func TestResolvePropertyAddress(t *testing.T) {
	if got := ResolvePropertyAddress(map[string]interface{}{"addressLine": " Road 7 "}); got != "Road 7" {
		t.Errorf("got %q", got)
	}
	if got := ResolvePropertyAddress(map[string]interface{}{"name": "Farm"}); got != "" {
		t.Errorf("only addressLine counts, got %q", got)
	}
}

func TestResolvePlotIdentity(t *testing.T) {
	t.Run("plotId wins", func(t *testing.T) {
		got, ok := ResolvePlotIdentity(map[string]interface{}{
			"plotId": "P-1",
			"plot":   map[string]interface{}{"id": "N-2"},
			"id":     "raw",
		})
		if !ok || got != "P-1" {
			t.Errorf("got %q, %v", got, ok)
		}
	})

	t.Run("nested plot id outranks own id", func(t *testing.T) {
		got, ok := ResolvePlotIdentity(map[string]interface{}{
			"plot": map[string]interface{}{"id": float64(17)},
			"id":   "raw",
		})
		if !ok || got != "17" {
			t.Errorf("got %q, %v", got, ok)
		}
	})

	t.Run("never generates", func(t *testing.T) {
		if _, ok := ResolvePlotIdentity(map[string]interface{}{"name": "Plot A"}); ok {
			t.Error("expected ok=false for a plot without identity fields")
		}
		if _, ok := ResolvePlotIdentity(nil); ok {
			t.Error("expected ok=false for nil")
		}
	})

	t.Run("blank strings skipped", func(t *testing.T) {
		got, ok := ResolvePlotIdentity(map[string]interface{}{
			"plotId": "  ",
			"code":   "C-3",
		})
		if !ok || got != "C-3" {
			t.Errorf("got %q, %v", got, ok)
		}
	})
}

func TestSameProperty(t *testing.T) {
	t.Run("ids decide when both present", func(t *testing.T) {
		a := map[string]interface{}{"id": "1", "name": "Same Name"}
		b := map[string]interface{}{"id": "2", "name": "Same Name"}
		if SameProperty(a, b) {
			t.Error("differing ids must not match even with equal names")
		}
	})

	t.Run("name fallback is case-insensitive", func(t *testing.T) {
		a := map[string]interface{}{"name": " Farm NORTH "}
		b := map[string]interface{}{"name": "farm north"}
		if !SameProperty(a, b) {
			t.Error("expected a name match")
		}
	})

	t.Run("fails closed with nothing to compare", func(t *testing.T) {
		if SameProperty(map[string]interface{}{}, map[string]interface{}{}) {
			t.Error("empty payloads must not match")
		}
	})

	t.Run("numeric and string ids compare equal", func(t *testing.T) {
		a := map[string]interface{}{"id": float64(42)}
		b := map[string]interface{}{"id": "42"}
		if !SameProperty(a, b) {
			t.Error("42.0 and \"42\" should describe the same property")
		}
	})
}
