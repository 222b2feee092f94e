// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table          string
	ID             string
	Username       string
	Email          string
	Slug           string
	Password       string
	FirstName      string
	LastName       string
	AvatarURL      string
	Bio            string
	BirthDate      string
	Subscribed     string
	EmailConfirmed string
	Role           string
	CreatedAt      string
	UpdatedAt      string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:          "users.account",
	ID:             "id",
	Username:       "username",
	Email:          "email",
	Slug:           "slug",
	Password:       "passwordhash",
	FirstName:      "firstname",
	LastName:       "lastname",
	AvatarURL:      "avatarurl",
	Bio:            "bio",
	BirthDate:      "birthdate",
	Subscribed:     "subscribed",
	EmailConfirmed: "emailconfirmed",
	Role:           "role",
	CreatedAt:      "createdat",
	UpdatedAt:      "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.Username, t.Email, t.Slug, t.Password, t.FirstName,
		t.LastName, t.AvatarURL, t.Bio, t.BirthDate, t.Subscribed,
		t.EmailConfirmed, t.Role, t.CreatedAt, t.UpdatedAt,
	}
}
