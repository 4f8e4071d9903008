package account_test

import (
	"testing"
	"time"

	"tailorshop/internal/domain/account"
)

// TestAccountValidate tests validation of Account.
func TestAccountValidate(t *testing.T) {
	tests := []struct {
		name    string
		acct    account.Account
		wantErr error
	}{
		{"valid master", account.Account{Username: "owner", Role: account.RoleMaster}, nil},
		{"valid staff", account.Account{Username: "counter", Role: account.RoleStaff}, nil},
		{"blank username", account.Account{Username: "  ", Role: account.RoleStaff}, account.ErrEmptyUsername},
		{"unknown role", account.Account{Username: "x", Role: "admin"}, account.ErrInvalidRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.acct.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccountPassword tests hashing and checking a password.
func TestAccountPassword(t *testing.T) {
	var a account.Account
	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Fatalf("SetPassword(short) = %v, want ErrPasswordTooShort", err)
	}
	if err := a.SetPassword("tailor-secret"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if a.PasswordHash == "tailor-secret" {
		t.Fatal("password stored in plain text")
	}
	if err := a.CheckPassword("tailor-secret"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := a.CheckPassword("wrong-secret"); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
	}
}

// TestAccountLockout tests that repeated failures lock the account.
func TestAccountLockout(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var a account.Account
	for i := 0; i < 4; i++ {
		a.RecordFailedLogin(now)
	}
	if a.IsLocked(now) {
		t.Fatal("locked after 4 failures")
	}
	a.RecordFailedLogin(now)
	if !a.IsLocked(now) {
		t.Fatal("not locked after 5 failures")
	}
	if a.IsLocked(now.Add(time.Hour)) {
		t.Error("lock should expire")
	}
	a.ResetFailedLogins()
	if a.FailedLogins != 0 || a.IsLocked(now) {
		t.Error("ResetFailedLogins did not clear state")
	}
}
