package domain

import (
	"testing"
	"time"
)

func newTestUser(t *testing.T) *User {
	t.Helper()
	email, err := NewEmail("dave@example.com")
	if err != nil {
		t.Fatalf("NewEmail: %v", err)
	}
	username, err := NewUsername("dave")
	if err != nil {
		t.Fatalf("NewUsername: %v", err)
	}
	return NewUser(email, username, "hash", "Dave", "Jones", "Acme", "+15550100")
}

func TestNewUser_Defaults(t *testing.T) {
	u := newTestUser(t)

	if !u.Active {
		t.Fatalf("expected new user to be active")
	}
	if u.EmailConfirmed || u.PhoneConfirmed {
		t.Fatalf("expected new user to be unconfirmed")
	}
	if u.FailedLogins != 0 || u.LockoutEnd != nil {
		t.Fatalf("expected zeroed lockout state")
	}
	if u.CreatedAt.IsZero() || u.ModifiedAt.IsZero() {
		t.Fatalf("expected audit timestamps to be initialised")
	}
}

func TestUser_LockoutAfterMaxFailures(t *testing.T) {
	u := newTestUser(t)

	for i := 0; i < MaxFailedLoginAttempts-1; i++ {
		u.RecordLoginFailure()
		if u.IsLockedOut() {
			t.Fatalf("locked out after %d failures, want %d", i+1, MaxFailedLoginAttempts)
		}
	}

	u.RecordLoginFailure()
	if !u.IsLockedOut() {
		t.Fatalf("expected lockout after %d failures", MaxFailedLoginAttempts)
	}
	if u.LockoutEnd == nil {
		t.Fatalf("expected lockout end to be set")
	}

	remaining := time.Until(*u.LockoutEnd)
	if remaining <= 0 || remaining > LockoutDuration {
		t.Fatalf("lockout end %v outside expected window", remaining)
	}
}

func TestUser_SuccessClearsLockoutState(t *testing.T) {
	u := newTestUser(t)
	for i := 0; i < MaxFailedLoginAttempts; i++ {
		u.RecordLoginFailure()
	}
	if !u.IsLockedOut() {
		t.Fatalf("expected user to be locked out")
	}

	u.RecordLoginSuccess()

	if u.FailedLogins != 0 {
		t.Fatalf("expected failure counter reset, got %d", u.FailedLogins)
	}
	if u.LockoutEnd != nil || u.IsLockedOut() {
		t.Fatalf("expected lockout cleared")
	}
	if u.LastLoginAt == nil {
		t.Fatalf("expected last login timestamp to be stamped")
	}
}

func TestUser_ExpiredLockoutNotLockedOut(t *testing.T) {
	u := newTestUser(t)
	past := time.Now().UTC().Add(-time.Minute)
	u.LockoutEnd = &past
	u.FailedLogins = MaxFailedLoginAttempts

	if u.IsLockedOut() {
		t.Fatalf("expired lockout should not block login")
	}
}

func TestUser_SetActiveAndConfirmations(t *testing.T) {
	u := newTestUser(t)

	u.SetActive(false)
	if u.Active {
		t.Fatalf("expected inactive")
	}

	u.ConfirmEmail()
	u.ConfirmPhone()
	if !u.EmailConfirmed || !u.PhoneConfirmed {
		t.Fatalf("expected confirmations to stick")
	}
}

func TestUser_UpdateProfileTouchesAudit(t *testing.T) {
	u := newTestUser(t)
	before := u.ModifiedAt

	time.Sleep(time.Millisecond)
	u.UpdateProfile("Eve", "Smith", "Globex", "+15550199")

	if u.FirstName != "Eve" || u.LastName != "Smith" || u.CompanyName != "Globex" || u.PhoneNumber != "+15550199" {
		t.Fatalf("profile fields not updated: %+v", u)
	}
	if !u.ModifiedAt.After(before) {
		t.Fatalf("expected modified timestamp to advance")
	}
}
