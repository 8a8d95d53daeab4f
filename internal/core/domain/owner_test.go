package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestOwner_ZeroValueIsGlobal(t *testing.T) {
	var o Owner
	if !o.IsGlobal() {
		t.Fatal("zero Owner must be global")
	}
	if _, ok := o.UserID(); ok {
		t.Fatal("global owner must not report a user id")
	}
}

func TestOwner_VisibilityAndModification(t *testing.T) {
	cases := []struct {
		name   string
		owner  Owner
		userID int64
		want   bool
	}{
		{"global visible to anyone", GlobalOwner(), 7, true},
		{"own category", OwnedBy(7), 7, true},
		{"someone else's category", OwnedBy(7), 8, false},
	}

	for _, tc := range cases {
		if got := tc.owner.VisibleTo(tc.userID); got != tc.want {
			t.Errorf("%s: VisibleTo = %v, want %v", tc.name, got, tc.want)
		}
		if got := tc.owner.CanBeModifiedBy(tc.userID); got != tc.want {
			t.Errorf("%s: CanBeModifiedBy = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestOwner_JSON(t *testing.T) {
	b, err := json.Marshal(Category{ID: 1, Name: "Food", Owner: GlobalOwner()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"id":1,"name":"Food","user_id":null}` {
		t.Fatalf("unexpected json: %s", b)
	}

	b, _ = json.Marshal(Category{ID: 2, Name: "Rent", Owner: OwnedBy(42)})
	if string(b) != `{"id":2,"name":"Rent","user_id":42}` {
		t.Fatalf("unexpected json: %s", b)
	}

	var c Category
	if err := json.Unmarshal([]byte(`{"id":3,"name":"x","user_id":9}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if id, ok := c.Owner.UserID(); !ok || id != 9 {
		t.Fatalf("expected owner 9, got %v %v", id, ok)
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("amount")
	if err.Error() != "invalid amount" {
		t.Errorf("unexpected message %q", err.Error())
	}
	multi := NewValidationError("type", "date")
	if multi.Error() != "invalid type, date" {
		t.Errorf("unexpected message %q", multi.Error())
	}
	if !errors.Is(fmt.Errorf("wrapped: %w", multi), ErrValidation) {
		t.Error("ValidationError must match ErrValidation")
	}
}
