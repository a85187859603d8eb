package types

import "testing"

func TestField(t *testing.T) {
	m := map[string]any{
		"s":     "hello",
		"i":     7,
		"whole": 3.0, // json numbers decode as float64
		"frac":  2.5,
		"b":     true,
		"nilv":  nil,
		"obj":   map[string]any{},
	}

	cases := []struct {
		key  string
		want string
	}{
		{"s", "hello"},
		{"i", "7"},
		{"whole", "3"},
		{"frac", "2.5"},
		{"b", "true"},
		{"nilv", ""},
		{"obj", ""},
		{"missing", ""},
	}
	for _, tc := range cases {
		if got := Field(m, tc.key); got != tc.want {
			t.Errorf("Field(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestSubObject(t *testing.T) {
	m := map[string]any{
		"data": map[string]any{"title": "x"},
		"flat": "y",
	}
	if sub := SubObject(m, "data"); sub == nil || sub["title"] != "x" {
		t.Errorf("SubObject(data) = %v", sub)
	}
	if sub := SubObject(m, "flat"); sub != nil {
		t.Error("SubObject on a scalar should return nil")
	}
	if sub := SubObject(m, "missing"); sub != nil {
		t.Error("SubObject on a missing key should return nil")
	}
	if sub := SubObject(nil, "data"); sub != nil {
		t.Error("SubObject on a nil map should return nil")
	}
}
