package match

import "testing"

// ---------- Normalize ----------

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Joe's Plumbing", "joes plumbing"},
		{"  JOE'S   PLUMBING  ", "joes plumbing"},
		{"Best-Pizza, Inc.", "bestpizza inc"},
		{"!!!", ""},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

// ---------- Levenshtein ----------

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tc := range cases {
		if got := Levenshtein(tc.a, tc.b); got != tc.want {
			t.Fatalf("Levenshtein(%q, %q) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
		// Edit distance is symmetric.
		if got := Levenshtein(tc.b, tc.a); got != tc.want {
			t.Fatalf("Levenshtein(%q, %q) = %d, want %d", tc.b, tc.a, got, tc.want)
		}
	}
}

// ---------- Similarity ----------

func TestSimilarity(t *testing.T) {
	// Punctuation differences vanish under normalization.
	if got := Similarity("Joe's Plumbing", "Joes Plumbing"); got != 100 {
		t.Fatalf("apostrophe variant = %d, want 100", got)
	}
	// "joes plumbing" vs "joes plumbing llc": 4 edits over 17 runes -> 76.
	if got := Similarity("Joe's Plumbing", "Joe's Plumbing LLC"); got != 76 {
		t.Fatalf("suffix variant = %d, want 76", got)
	}
	// Symmetry.
	if Similarity("Sunshine Cleaning", "Sunshine Cleaners") != Similarity("Sunshine Cleaners", "Sunshine Cleaning") {
		t.Fatal("Similarity is not symmetric")
	}
	// Unrelated names stay far below the threshold.
	if got := Similarity("Sunshine Cleaning", "Joe's Plumbing"); got >= DefaultThreshold {
		t.Fatalf("unrelated names = %d, want < %d", got, DefaultThreshold)
	}
	// Two empty names compare equal.
	if got := Similarity("", ""); got != 100 {
		t.Fatalf("empty vs empty = %d, want 100", got)
	}
}

// ---------- Find ----------

func TestFind(t *testing.T) {
	cands := []Candidate{
		{ID: "b1", Name: "Joe's Plumbing", OwnerEmail: "joe@example.com"},
		{ID: "b2", Name: "Joe's Plumbing LLC", OwnerEmail: "joe2@example.com"},
		{ID: "b3", Name: "Sunshine Cleaning", OwnerEmail: "sun@example.com"},
		{ID: "b4", Name: "!!!", OwnerEmail: "noise@example.com"},
	}

	got := Find("Joes Plumbing", cands, DefaultThreshold)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (%+v)", len(got), got)
	}

	// Highest similarity first: the exact normalized match.
	if got[0].BusinessID != "b1" || got[0].Type != TypeExact || got[0].Similarity != 100 {
		t.Fatalf("first match = %+v, want exact b1", got[0])
	}
	// The LLC variant matches by substring containment.
	if got[1].BusinessID != "b2" || got[1].Type != TypePartial {
		t.Fatalf("second match = %+v, want partial b2", got[1])
	}
}

func TestFind_NoFalsePositives(t *testing.T) {
	cands := []Candidate{
		{ID: "b1", Name: "Sunshine Cleaning"},
		{ID: "b2", Name: "Riverside Bakery"},
	}
	if got := Find("Joe's Plumbing", cands, DefaultThreshold); len(got) != 0 {
		t.Fatalf("expected no matches, got %+v", got)
	}
}

func TestFind_EmptyName(t *testing.T) {
	if got := Find("   ", []Candidate{{ID: "b1", Name: "Anything"}}, DefaultThreshold); got != nil {
		t.Fatalf("expected nil for empty name, got %+v", got)
	}
}

func TestFind_ThresholdFallback(t *testing.T) {
	cands := []Candidate{{ID: "b1", Name: "Sunshine Cleaners"}}
	// threshold <= 0 falls back to DefaultThreshold; "Sunshine Cleaning" vs
	// "Sunshine Cleaners" is 3 edits over 17 runes -> 82, above the default.
	got := Find("Sunshine Cleaning", cands, 0)
	if len(got) != 1 || got[0].Type != TypeSimilar {
		t.Fatalf("got %+v, want one similar match", got)
	}
	if got[0].Similarity != 82 {
		t.Fatalf("similarity = %d, want 82", got[0].Similarity)
	}
}
