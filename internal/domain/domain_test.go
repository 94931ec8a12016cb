package domain

import "testing"

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in    string
		want  Status
		valid bool
	}{
		{"APPROVED", StatusApproved, true},
		{"approved", StatusApproved, true},
		{" pending ", StatusPending, true},
		{"Rejected", StatusRejected, true},
		{"archived", Status("ARCHIVED"), false},
		{"", Status(""), false},
	}
	for _, tc := range cases {
		got, ok := ParseStatus(tc.in)
		if ok != tc.valid {
			t.Fatalf("ParseStatus(%q) valid = %v, want %v", tc.in, ok, tc.valid)
		}
		if tc.valid && got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusApproved, StatusRejected} {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if Status("DELETED").Valid() {
		t.Fatal("unknown status reported valid")
	}
}

func TestBusinessVisible(t *testing.T) {
	cases := []struct {
		name   string
		status Status
		active bool
		want   bool
	}{
		{"approved active", StatusApproved, true, true},
		{"approved hidden", StatusApproved, false, false},
		{"pending active", StatusPending, true, false},
		{"rejected active", StatusRejected, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := Business{Status: tc.status, IsActive: tc.active}
			if got := b.Visible(); got != tc.want {
				t.Fatalf("Visible() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIDListValue(t *testing.T) {
	// Empty lists are stored as NULL.
	v, err := IDList(nil).Value()
	if err != nil || v != nil {
		t.Fatalf("empty Value() = (%v, %v), want (nil, nil)", v, err)
	}

	v, err = IDList{"a", "b"}.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != `["a","b"]` {
		t.Fatalf("Value() = %v, want JSON array", v)
	}
}

func TestIDListScan(t *testing.T) {
	var l IDList
	if err := l.Scan(`["x","y"]`); err != nil {
		t.Fatalf("Scan string: %v", err)
	}
	if len(l) != 2 || !l.Contains("x") || !l.Contains("y") || l.Contains("z") {
		t.Fatalf("scanned = %v", l)
	}

	if err := l.Scan([]byte(`["z"]`)); err != nil {
		t.Fatalf("Scan bytes: %v", err)
	}
	if len(l) != 1 || l[0] != "z" {
		t.Fatalf("scanned = %v", l)
	}

	if err := l.Scan(nil); err != nil {
		t.Fatalf("Scan nil: %v", err)
	}
	if l != nil {
		t.Fatalf("nil scan left %v", l)
	}

	if err := l.Scan(42); err == nil {
		t.Fatal("Scan(int) should fail")
	}
}

func TestIDListRoundTrip(t *testing.T) {
	in := IDList{"id-1", "id-2", "id-3"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	var out IDList
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("round trip lost entries: %v", out)
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("round trip reordered entries: %v", out)
		}
	}
}
