package domain

// User is a credential-store row. Passwords are stored as bcrypt hashes;
// the role gates which workflow edges the user may drive.
type User struct {
	Username     string
	PasswordHash string
	Role         Role
}
