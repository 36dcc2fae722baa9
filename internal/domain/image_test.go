package domain

import "testing"

func TestStringArrayScan(t *testing.T) {
	testCases := []struct {
		name  string
		value interface{}
		want  []string
	}{
		{"from bytes", []byte(`["a","b"]`), []string{"a", "b"}},
		{"from string", `["x"]`, []string{"x"}},
		{"nil column", nil, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var a StringArray
			if err := a.Scan(tc.value); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(a) != len(tc.want) {
				t.Fatalf("got %v, want %v", a, tc.want)
			}
			for i := range tc.want {
				if a[i] != tc.want[i] {
					t.Errorf("position %d: got %q, want %q", i, a[i], tc.want[i])
				}
			}
		})
	}

	var a StringArray
	if err := a.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}

func TestStringArrayValueNil(t *testing.T) {
	var a StringArray
	v, err := a.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "[]" {
		t.Errorf("got %v, want empty JSON array", v)
	}
}

func TestScoreMapScan(t *testing.T) {
	var m ScoreMap
	if err := m.Scan([]byte(`{"bluestone":0.75}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["bluestone"] != 0.75 {
		t.Errorf("got %v, want 0.75", m["bluestone"])
	}

	var empty ScoreMap
	if err := empty.Scan(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("nil column should scan to an empty map, got %v", empty)
	}
}

func TestScoreMapValueNil(t *testing.T) {
	var m ScoreMap
	v, err := m.Value()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "{}" {
		t.Errorf("got %v, want empty JSON object", v)
	}
}
