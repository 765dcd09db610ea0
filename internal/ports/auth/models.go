package auth

// Claims is the information extracted from a verified token.
type Claims struct {
	UserID string
	Email  string
}
