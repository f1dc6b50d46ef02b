package model

import "encoding/json"

// Role is the permission level of a console user.
type Role string

const (
	// RoleAdmin manages every store, product and user.
	RoleAdmin Role = "admin"
	// RoleStoreUser manages the products of its assigned store.
	RoleStoreUser Role = "usuario"
)

// Valid reports whether r is a role the console knows about.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStoreUser
}

// Identity describes who is logged in. It is persisted as JSON next to the
// credential token, using the same shape the backend returns on login.
type Identity struct {
	UserID      string `json:"_id,omitempty"`
	DisplayName string `json:"username"`
	Role        Role   `json:"role"`
	StoreID     string `json:"floristeria,omitempty"`
}

// UnmarshalJSON tolerates a populated store reference and falls back to
// "nombre" when the backend omits "username".
func (i *Identity) UnmarshalJSON(data []byte) error {
	var raw struct {
		MongoID  string `json:"_id"`
		ID       string `json:"id"`
		Username string `json:"username"`
		Nombre   string `json:"nombre"`
		Role     Role   `json:"role"`
		StoreID  Ref    `json:"floristeria"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	i.UserID = raw.MongoID
	if i.UserID == "" {
		i.UserID = raw.ID
	}
	i.DisplayName = raw.Username
	if i.DisplayName == "" {
		i.DisplayName = raw.Nombre
	}
	i.Role = raw.Role
	i.StoreID = raw.StoreID.String()
	return nil
}

// Complete reports whether the identity carries everything its role needs.
func (i Identity) Complete() bool {
	if !i.Role.Valid() {
		return false
	}
	if i.Role == RoleStoreUser && i.StoreID == "" {
		return false
	}
	return true
}

// Scope names the slice of the backend this identity can see. Identities
// with the same scope get the same answers from list endpoints.
func (i Identity) Scope() string {
	if i.Role == RoleStoreUser {
		return string(RoleStoreUser) + "/" + i.StoreID
	}
	return string(i.Role)
}
