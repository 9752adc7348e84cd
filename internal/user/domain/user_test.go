package domain

import "testing"

func TestUser_Validate(t *testing.T) {
	roleID := int64(3)
	cases := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{"valid", User{Email: "alice@example.com", PasswordHash: "$2a$10$x"}, false},
		{"valid with role", User{Email: "alice@example.com", PasswordHash: "$2a$10$x", RoleID: &roleID, RoleName: "organizer"}, false},
		{"missing email", User{PasswordHash: "$2a$10$x"}, true},
		{"missing password hash", User{Email: "alice@example.com"}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.user.Validate()
			if tc.wantErr && err == nil {
				t.Error("Validate should return error")
			}
			if !tc.wantErr && err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}
