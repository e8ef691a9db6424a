package domain

import "testing"

func TestAvatarUsesFirstRuneOfEachName(t *testing.T) {
	cases := []struct{ first, last, want string }{
		{"Jane", "Doe", "JD"},
		{"Émile", "Zola", "ÉZ"},
		{"", "Solo", "S"},
	}
	for _, tc := range cases {
		if got := Avatar(tc.first, tc.last); got != tc.want {
			t.Fatalf("Avatar(%q, %q) = %q, want %q", tc.first, tc.last, got, tc.want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if r, ok := ParseRole(" Dealers "); !ok || r != RoleDealers {
		t.Fatalf("expected dealers, got %q %v", r, ok)
	}
	if _, ok := ParseRole("manager"); ok {
		t.Fatalf("unknown role should not parse")
	}
}

func TestFullName(t *testing.T) {
	u := User{FirstName: "Mike", LastName: "Johnson"}
	if u.FullName() != "Mike Johnson" {
		t.Fatalf("unexpected full name %q", u.FullName())
	}
}
