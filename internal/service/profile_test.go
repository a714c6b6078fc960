package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mgrozdek22/TBP-nail-app/internal/repository"
)

func TestValidatePatch(t *testing.T) {
	e := newEnv(t)
	cases := []struct {
		name  string
		patch string
		ok    bool
	}{
		{"single field", `{"description": "gel and acrylic"}`, true},
		{"all fields", `{"name":"A","description":"B","phone":"1","instagram":"@a"}`, true},
		{"empty object", `{}`, false},
		{"unknown field", `{"email":"a@b.c"}`, false},
		{"wrong type", `{"phone": 385}`, false},
		{"empty name", `{"name": ""}`, false},
		{"not an object", `["name"]`, false},
		{"not json", `name=x`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.profile.ValidatePatch(context.Background(), []byte(tc.patch))
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, repository.ErrValidation) {
				t.Fatalf("want ErrValidation, got %v", err)
			}
		})
	}
}

func TestValidatePatchCompacts(t *testing.T) {
	e := newEnv(t)
	got, err := e.profile.ValidatePatch(context.Background(), []byte("{\n  \"phone\" : \"01 234\"\n}"))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if string(got) != `{"phone":"01 234"}` {
		t.Fatalf("got %s", got)
	}
}

func TestProposeEditUnknownTechnician(t *testing.T) {
	e := newEnv(t)
	if _, err := e.profile.ProposeEdit(context.Background(), 77, e.user, []byte(`{"phone":"1"}`)); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
