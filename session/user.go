package session

// AuthMethod values recorded on a User.
const (
	MethodEmail  = "email"
	MethodGoogle = "google"
)

// User is the authenticated identity held by a session. ID is either the
// backend-issued user id (email flow) or the provider subject id (Google
// flow) and is the foreign key for journal entries.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	Picture    string `json:"picture,omitempty"`
	AuthMethod string `json:"authMethod,omitempty"`
}
