package domain

// User is the authenticated identity. Password is held in memory only so the
// settings view can display it; it is never serialized or re-sent.
type User struct {
	Email          string   `json:"email"`
	Name           string   `json:"name"`
	Surname        string   `json:"surname,omitempty"`
	FavoriteGenres []string `json:"favoriteGenres,omitempty"`
	Password       string   `json:"-"`
}

// DisplayName returns the user's full name, falling back to the email.
func (u User) DisplayName() string {
	switch {
	case u.Name != "" && u.Surname != "":
		return u.Name + " " + u.Surname
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}

// LoginData carries credentials for the login operation.
type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterData carries the registration form fields.
type RegisterData struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
	Surname         string `json:"surname"`
}
