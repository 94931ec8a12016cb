package ratelimit

import (
	"testing"
	"time"
)

// fixedClock returns a controllable now() func plus an advance helper.
func fixedClock(start time.Time) (func() time.Time, func(d time.Duration)) {
	cur := start
	return func() time.Time { return cur }, func(d time.Duration) { cur = cur.Add(d) }
}

func TestCheck_WindowExhaustionAndDenial(t *testing.T) {
	l := New(nil) // defaults: registration = 5 per hour
	now, _ := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	l.now = now

	for i := 1; i <= 5; i++ {
		d := l.Check(OpRegistration, "1.2.3.4")
		if !d.Allowed {
			t.Fatalf("request %d denied, want allowed", i)
		}
		if d.Remaining != 5-i {
			t.Fatalf("request %d remaining = %d, want %d", i, d.Remaining, 5-i)
		}
	}

	d := l.Check(OpRegistration, "1.2.3.4")
	if d.Allowed {
		t.Fatal("6th request allowed, want denied")
	}
	if d.Remaining != 0 {
		t.Fatalf("denied remaining = %d, want 0", d.Remaining)
	}
	if d.RetryAfter != time.Hour {
		t.Fatalf("retry after = %v, want %v", d.RetryAfter, time.Hour)
	}
}

func TestCheck_WindowReset(t *testing.T) {
	l := New(map[Op]Policy{OpUpload: {Window: time.Minute, MaxRequests: 2}})
	now, advance := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	l.now = now

	l.Check(OpUpload, "k")
	l.Check(OpUpload, "k")
	if d := l.Check(OpUpload, "k"); d.Allowed {
		t.Fatal("3rd request in window allowed, want denied")
	}

	// The boundary instant starts a fresh window.
	advance(time.Minute)
	d := l.Check(OpUpload, "k")
	if !d.Allowed || d.Remaining != 1 {
		t.Fatalf("post-reset decision = %+v, want allowed with remaining 1", d)
	}
}

func TestCheck_KeysAreIndependent(t *testing.T) {
	l := New(map[Op]Policy{OpAuth: {Window: time.Minute, MaxRequests: 1}})
	now, _ := fixedClock(time.Now())
	l.now = now

	if d := l.Check(OpAuth, "a"); !d.Allowed {
		t.Fatal("first key denied")
	}
	if d := l.Check(OpAuth, "b"); !d.Allowed {
		t.Fatal("second key shares the first key's window")
	}
	// Same identifier under a different operation is a separate bucket too.
	if d := l.Check(OpAPI, "a"); !d.Allowed {
		t.Fatal("different op shares the window")
	}
}

func TestCheck_UnknownOpNeverLimited(t *testing.T) {
	l := New(map[Op]Policy{})
	for i := 0; i < 100; i++ {
		d := l.Check(Op("unconfigured"), "k")
		if !d.Allowed || d.Remaining != -1 {
			t.Fatalf("decision = %+v, want unlimited", d)
		}
	}
}

func TestCheck_SweepDropsExpiredEntries(t *testing.T) {
	l := New(map[Op]Policy{OpAPI: {Window: time.Second, MaxRequests: 10}})
	now, advance := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	l.now = now

	for _, id := range []string{"a", "b", "c"} {
		l.Check(OpAPI, id)
	}
	if len(l.entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(l.entries))
	}

	// All windows expire; the next check past the sweep interval cleans up.
	advance(sweepInterval + time.Second)
	l.Check(OpAPI, "d")
	if len(l.entries) != 1 {
		t.Fatalf("entries after sweep = %d, want 1", len(l.entries))
	}
}

func TestClientIdentifier(t *testing.T) {
	cases := []struct {
		name         string
		forwardedFor string
		realIP       string
		want         string
	}{
		{"first XFF entry", "1.2.3.4, 5.6.7.8", "9.9.9.9", "1.2.3.4"},
		{"single XFF", "1.2.3.4", "", "1.2.3.4"},
		{"XFF with spaces", "  1.2.3.4 , 5.6.7.8", "", "1.2.3.4"},
		{"falls back to real IP", "", "9.9.9.9", "9.9.9.9"},
		{"blank XFF entry falls through", " , 5.6.7.8", "9.9.9.9", "9.9.9.9"},
		{"nothing known", "", "", "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClientIdentifier(tc.forwardedFor, tc.realIP); got != tc.want {
				t.Fatalf("ClientIdentifier(%q, %q) = %q, want %q", tc.forwardedFor, tc.realIP, got, tc.want)
			}
		})
	}
}
