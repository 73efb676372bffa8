package match

import "testing"

func TestNormalizeEmail(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  John.Doe@ACME.com ", "john.doe@acme.com"},
		{"john.doe@acme.com", "john.doe@acme.com"},
		{"not-an-email", ""},
		{"@acme.com", ""},
		{"john@", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, c := range cases {
		if got := NormalizeEmail(c.in); got != c.want {
			t.Errorf("NormalizeEmail(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestEmailDomain(t *testing.T) {
	if got := EmailDomain("john@acme.com"); got != "acme.com" {
		t.Fatalf("EmailDomain = %q; want acme.com", got)
	}
	if got := EmailDomain("nope"); got != "" {
		t.Fatalf("EmailDomain(invalid) = %q; want empty", got)
	}
}

func TestNormalizeCompany(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Acme Corp Ltd.", "acme corp"},
		{"ACME CORP", "acme corp"},
		{"Acme, Inc.", "acme"},
		{"The Foo Group", "the foo"},
		{"  Spaced   Out  LLC ", "spaced out"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeCompany(c.in); got != c.want {
			t.Errorf("NormalizeCompany(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"+1 (555) 010-7788", "+15550107788"},
		{"555.010.7788", "5550107788"},
		{"12345", ""}, // too short to be comparable
		{"", ""},
		{"ext. 42", ""},
	}
	for _, c := range cases {
		if got := NormalizePhone(c.in); got != c.want {
			t.Errorf("NormalizePhone(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("  Sarah   CHEN "); got != "sarah chen" {
		t.Fatalf("NormalizeName = %q; want %q", got, "sarah chen")
	}
	// Punctuation inside names survives (O'Brien, hyphenated surnames).
	if got := NormalizeName("Mary O'Brien-Smith"); got != "mary o'brien-smith" {
		t.Fatalf("NormalizeName = %q", got)
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"https://www.linkedin.com/in/sarahchen/", "linkedin.com/in/sarahchen"},
		{"http://linkedin.com/in/sarahchen", "linkedin.com/in/sarahchen"},
		{"LinkedIn.com/in/SarahChen?utm=x", "linkedin.com/in/sarahchen"},
		{"linkedin.com/in/sarahchen#about", "linkedin.com/in/sarahchen"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeURL(c.in); got != c.want {
			t.Errorf("NormalizeURL(%q) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestTokenOverlap(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"acme corp", "acme corp", 1.0},
		{"acme corp", "acme", 0.5},
		{"alpha beta", "gamma delta", 0.0},
		{"", "acme", 0.0},
		{"", "", 0.0},
	}
	for _, c := range cases {
		if got := tokenOverlap(c.a, c.b); got != c.want {
			t.Errorf("tokenOverlap(%q, %q) = %v; want %v", c.a, c.b, got, c.want)
		}
	}
}

func TestCandidateHasIdentityFields(t *testing.T) {
	if (Candidate{Title: "CEO"}).HasIdentityFields() {
		t.Fatal("title alone should not count as identity")
	}
	if !(Candidate{Email: "a@b.co"}).HasIdentityFields() {
		t.Fatal("email should count as identity")
	}
	if !(Candidate{Company: "Acme"}).HasIdentityFields() {
		t.Fatal("company should count as identity")
	}
}

func TestCandidateMeetsMinimum(t *testing.T) {
	cases := []struct {
		c    Candidate
		want bool
	}{
		{Candidate{Name: "Jo"}, true},
		{Candidate{Name: "J"}, false},
		{Candidate{Email: "a@b.c"}, true},
		{Candidate{Email: "a@b"}, false},
		{Candidate{Company: "Ac"}, true},
		{Candidate{Company: "A"}, false},
		{Candidate{}, false},
	}
	for i, c := range cases {
		if got := c.c.MeetsMinimum(); got != c.want {
			t.Errorf("case %d: MeetsMinimum() = %v; want %v", i, got, c.want)
		}
	}
}
