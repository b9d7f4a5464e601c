package validation

import (
	"testing"
	"time"

	"github.com/revtickets/portal/internal/core/domain"
)

func TestValidate_Identity(t *testing.T) {
	v := New()

	ok := domain.UserIdentity{Name: "Ana", Email: "ana@example.com", Role: domain.RoleUser}
	if err := v.Validate(ok); err != nil {
		t.Fatalf("expected valid identity, got %v", err)
	}

	bad := domain.UserIdentity{Name: "Ana", Email: "nope", Role: "ROOT"}
	err := v.Validate(bad)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	want := "email must be a valid email; role must be one of: USER ADMIN"
	if err.Error() != want {
		t.Fatalf("unexpected message:\n got %q\nwant %q", err.Error(), want)
	}
}

func TestValidate_Review(t *testing.T) {
	v := New()

	if err := v.Validate(domain.ReviewRecord{ReviewType: domain.ReviewMovie, Rating: 8, CreatedAt: time.Now()}); err != nil {
		t.Fatalf("expected valid review, got %v", err)
	}
	if err := v.Validate(domain.ReviewRecord{ReviewType: "BOOK", CreatedAt: time.Now()}); err == nil {
		t.Fatalf("expected error for unknown review type")
	}
	if err := v.Validate(domain.ReviewRecord{ReviewType: domain.ReviewEvent}); err == nil {
		t.Fatalf("expected error for missing createdAt")
	}
}
