package domain

import "time"

const (
	// MaxFailedLoginAttempts is the number of consecutive credential
	// failures that triggers a lockout.
	MaxFailedLoginAttempts = 5
	// LockoutDuration is how long a triggered lockout lasts.
	LockoutDuration = 30 * time.Minute
)

// User is the identity-bearing aggregate. Credential state, the lockout
// state machine and role memberships hang off it; persisting each
// transition is the caller's responsibility.
type User struct {
	Audit          `bson:",inline"`
	Email          string     `json:"email" bson:"email"`
	Username       string     `json:"username" bson:"username"`
	PasswordHash   string     `json:"-" bson:"password_hash"`
	FirstName      string     `json:"first_name" bson:"first_name"`
	LastName       string     `json:"last_name" bson:"last_name"`
	CompanyName    string     `json:"company_name" bson:"company_name"`
	PhoneNumber    string     `json:"phone_number" bson:"phone_number"`
	Active         bool       `json:"active" bson:"active"`
	EmailConfirmed bool       `json:"email_confirmed" bson:"email_confirmed"`
	PhoneConfirmed bool       `json:"phone_confirmed" bson:"phone_confirmed"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
	FailedLogins   int        `json:"-" bson:"failed_logins"`
	LockoutEnd     *time.Time `json:"-" bson:"lockout_end,omitempty"`

	// RoleIDs is hydrated from the user_roles association records; it is
	// not part of the user document itself.
	RoleIDs []string `json:"role_ids" bson:"-"`
}

// NewUser creates an active, unconfirmed account with a zeroed failure
// counter. Email and username must be validated value objects.
func NewUser(email Email, username Username, passwordHash, firstName, lastName, companyName, phoneNumber string) *User {
	return &User{
		Audit:        NewAudit(),
		Email:        email.String(),
		Username:     username.String(),
		PasswordHash: passwordHash,
		FirstName:    firstName,
		LastName:     lastName,
		CompanyName:  companyName,
		PhoneNumber:  phoneNumber,
		Active:       true,
	}
}

// UpdateProfile replaces the mutable profile fields.
func (u *User) UpdateProfile(firstName, lastName, companyName, phoneNumber string) {
	u.FirstName = firstName
	u.LastName = lastName
	u.CompanyName = companyName
	u.PhoneNumber = phoneNumber
	u.Touch()
}

// ChangePassword swaps in a new credential hash.
func (u *User) ChangePassword(newHash string) {
	u.PasswordHash = newHash
	u.Touch()
}

// SetActive toggles whether the account may authenticate.
func (u *User) SetActive(active bool) {
	u.Active = active
	u.Touch()
}

func (u *User) ConfirmEmail() {
	u.EmailConfirmed = true
	u.Touch()
}

func (u *User) ConfirmPhone() {
	u.PhoneConfirmed = true
	u.Touch()
}

// RecordLoginSuccess resets the failure counter, clears any lockout and
// stamps the last login time.
func (u *User) RecordLoginSuccess() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.FailedLogins = 0
	u.LockoutEnd = nil
	u.Touch()
}

// RecordLoginFailure increments the failure counter and arms the lockout
// when the threshold is reached. It does not reject the login itself; the
// caller rejects before incrementing when the account is already locked.
// Concurrent logins on the same account can race this read-modify-write;
// the worst case is a slightly delayed lockout, which is accepted.
func (u *User) RecordLoginFailure() {
	u.FailedLogins++
	if u.FailedLogins >= MaxFailedLoginAttempts {
		end := time.Now().UTC().Add(LockoutDuration)
		u.LockoutEnd = &end
	}
	u.Touch()
}

// IsLockedOut reports whether a lockout is armed and still in the future.
func (u *User) IsLockedOut() bool {
	return u.LockoutEnd != nil && u.LockoutEnd.After(time.Now().UTC())
}

// UserRole associates a user with a role. Pure join record; its lifecycle
// follows the owning user's role set.
type UserRole struct {
	UserID    string    `json:"user_id" bson:"user_id"`
	RoleID    string    `json:"role_id" bson:"role_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
