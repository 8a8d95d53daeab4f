package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Owner says who a category belongs to: either every user (global) or
// exactly one. The zero value is Global.
type Owner struct {
	userID int64
	owned  bool
}

// GlobalOwner returns the owner shared by every user.
func GlobalOwner() Owner { return Owner{} }

// OwnedBy returns an owner bound to a single user.
func OwnedBy(userID int64) Owner { return Owner{userID: userID, owned: true} }

func (o Owner) IsGlobal() bool { return !o.owned }

// UserID returns the owning user, or false for global ownership.
func (o Owner) UserID() (int64, bool) { return o.userID, o.owned }

// VisibleTo reports whether a user may see an entity with this owner.
func (o Owner) VisibleTo(userID int64) bool {
	return !o.owned || o.userID == userID
}

// CanBeModifiedBy reports whether userID passes the ownership check.
// Whether global entities may actually be modified is a policy decision
// left to the caller.
func (o Owner) CanBeModifiedBy(userID int64) bool {
	return !o.owned || o.userID == userID
}

// MarshalJSON renders global ownership as null and user ownership as the id.
func (o Owner) MarshalJSON() ([]byte, error) {
	if !o.owned {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(o.userID, 10)), nil
}

func (o *Owner) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = GlobalOwner()
		return nil
	}
	var id int64
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	*o = OwnedBy(id)
	return nil
}
