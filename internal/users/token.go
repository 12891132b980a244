package users

import "resume-tailor/internal/shared/auth"

// Session is the payload returned by signup, login and the OAuth callback.
type Session struct {
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

// IssueSession signs an access token for user.
func IssueSession(user User) (Session, error) {
	token, err := auth.SignJWT(auth.Claims{UserID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, AccessToken: token}, nil
}
