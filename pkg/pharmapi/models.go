package pharmapi

import (
	"math"
	"strconv"
)

// Session is the locally persisted identity. The invariant is all or
// nothing: when the access credential is absent every identity field
// reads as absent, even if stale values linger in storage. The system
// never partially trusts a session.
type Session struct {
	AccessToken  string
	RefreshToken string
	Role         string
	UserID       string
	Name         string
	Email        string
	RoleID       string
	BranchID     string
}

// Authenticated reports whether an access credential is present.
func (s Session) Authenticated() bool { return s.AccessToken != "" }

// RoleName derives a role name from the backend's numeric role
// identifier.
func RoleName(roleID int) string {
	switch roleID {
	case 1:
		return "admin"
	case 2:
		return "manager"
	case 3:
		return "pharmacist"
	case 4:
		return "cashier"
	default:
		return "user"
	}
}

// identity is the decoded user object from a login or profile response.
type identity struct {
	ID       string
	Name     string
	Email    string
	RoleID   int
	BranchID string
}

// decodeIdentity extracts the user object from a response payload. The
// backend has shipped two shapes over time: a "user" object and a "users"
// object (sometimes an array holding one element). Precedence: "user"
// first, then "users"; within the object, field aliases resolve
// first-match in the order listed in stringField calls below.
func decodeIdentity(payload map[string]any) (identity, bool) {
	obj := objectField(payload, "user")
	if obj == nil {
		obj = objectField(payload, "users")
	}
	if obj == nil {
		return identity{}, false
	}
	return identity{
		ID:       stringField(obj, "id", "user_id", "userId"),
		Name:     stringField(obj, "full_name", "fullName", "name", "username"),
		Email:    stringField(obj, "email"),
		RoleID:   intField(obj, "role_id", "roleId"),
		BranchID: stringField(obj, "branch_id", "branchId"),
	}, true
}

// objectField returns the named field as an object, unwrapping a
// single-element array when the server returns one.
func objectField(m map[string]any, key string) map[string]any {
	switch v := m[key].(type) {
	case map[string]any:
		return v
	case []any:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]any); ok {
				return obj
			}
		}
	}
	return nil
}

// stringField returns the first present alias rendered as a string.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := scalarString(m[key]); s != "" {
			return s
		}
	}
	return ""
}

// intField returns the first present alias as an int, accepting both
// JSON numbers and numeric strings.
func intField(m map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return 0
}

// scalarString renders a JSON scalar as a string. Integral numbers are
// formatted without a decimal point so numeric identifiers round-trip
// cleanly through the string-valued token store.
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == math.Trunc(t) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// truthy interprets the loose boolean encodings the backend uses for
// flags like must_change_password: true, 1, "1", "true".
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t == "1" || t == "true"
	default:
		return false
	}
}
