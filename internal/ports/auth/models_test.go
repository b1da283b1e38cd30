package auth

import "testing"

func TestClaims_Identity(t *testing.T) {
	cases := []struct {
		claims Claims
		want   string
	}{
		{Claims{UserID: "u1", Email: " Ana.Perez@Example.com "}, "ana.perez@example.com"},
		{Claims{UserID: "User-1"}, "user-1"},
		{Claims{}, ""},
	}
	for _, tc := range cases {
		if got := tc.claims.Identity(); got != tc.want {
			t.Errorf("Identity(%+v) = %q, want %q", tc.claims, got, tc.want)
		}
	}
}

func TestPathSegment_ReplacesDots(t *testing.T) {
	if got := PathSegment("Ana.Perez@example.com"); got != "ana_perez@example_com" {
		t.Fatalf("unexpected path segment %q", got)
	}
}
