package models

// Identity is the authenticated user as reported by the auth collaborator.
// SessionToken is the bearer token for document-store calls; it is also the
// value inspected (claims only, no signature check) to decide whether a
// locally cached identity is still worth painting optimistically.
type Identity struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	SessionToken string `json:"sessionToken"`
}

// DisplayName returns the name if set, the email otherwise.
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Email
}
