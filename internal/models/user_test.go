package models

import (
	"testing"
)

func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    User
		wantErr bool
	}{
		{
			name: "Valid user",
			user: User{
				Email:       "student@campus.edu",
				DisplayName: "Test Student",
			},
			wantErr: false,
		},
		{
			name: "Empty email",
			user: User{
				Email:       "",
				DisplayName: "Test Student",
			},
			wantErr: true,
		},
		{
			name: "Invalid email",
			user: User{
				Email:       "not-an-email",
				DisplayName: "Test Student",
			},
			wantErr: true,
		},
		{
			name: "Empty display name",
			user: User{
				Email:       "student@campus.edu",
				DisplayName: "",
			},
			wantErr: true,
		},
		{
			name: "Display name too short",
			user: User{
				Email:       "student@campus.edu",
				DisplayName: "A",
			},
			wantErr: true,
		},
		{
			name: "Display name too long",
			user: User{
				Email:       "student@campus.edu",
				DisplayName: "This is a very long display name that exceeds the maximum allowed length of 100 characters for testing purposes",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("User.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
