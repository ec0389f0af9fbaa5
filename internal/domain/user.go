package domain

import "time"

// User is an account registered in the directory. Username is unique and
// ID never changes once assigned.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserPatch carries a partial update. Nil fields are left untouched.
type UserPatch struct {
	PasswordHash *string
	FirstName    *string
	LastName     *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.PasswordHash == nil && p.FirstName == nil && p.LastName == nil
}

// Fields lists the names of the attributes the patch touches.
func (p UserPatch) Fields() []string {
	fields := make([]string, 0, 3)
	if p.PasswordHash != nil {
		fields = append(fields, "password")
	}
	if p.FirstName != nil {
		fields = append(fields, "firstName")
	}
	if p.LastName != nil {
		fields = append(fields, "lastName")
	}
	return fields
}

// Apply copies the non-nil patch fields onto the user.
func (p UserPatch) Apply(user *User) {
	if p.PasswordHash != nil {
		user.PasswordHash = *p.PasswordHash
	}
	if p.FirstName != nil {
		user.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		user.LastName = *p.LastName
	}
}

// DirectoryEntry is the public projection of a User. It never carries
// credentials.
type DirectoryEntry struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Entry returns the redacted directory view of the user.
func (u User) Entry() DirectoryEntry {
	return DirectoryEntry{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
}
