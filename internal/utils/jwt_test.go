package utils

import (
	"errors"
	"testing"
)

func TestShareTokenRoundTrip(t *testing.T) {
	tok, err := SignShareToken("s3cret", "Ada", 60)
	if err != nil {
		t.Fatal(err)
	}
	claims, err := ParseShareToken("s3cret", tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Freelancer != "Ada" || claims.Subject != "portfolio" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestShareTokenRejected(t *testing.T) {
	tok, _ := SignShareToken("s3cret", "Ada", 60)
	expired, _ := SignShareToken("s3cret", "Ada", -5)

	cases := map[string]struct{ secret, token string }{
		"wrong secret": {"other", tok},
		"expired":      {"s3cret", expired},
		"garbage":      {"s3cret", "not-a-token"},
	}
	for name, c := range cases {
		if _, err := ParseShareToken(c.secret, c.token); !errors.Is(err, ErrInvalidShareToken) {
			t.Errorf("%s: err = %v", name, err)
		}
	}
}
