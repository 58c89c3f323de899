package core

import (
	"errors"
	"testing"
)

func TestRegistry_Defaults(t *testing.T) {
	r := NewRegistry()

	for _, role := range []Role{RoleQueue, RolePlayer, RoleNode} {
		v, err := r.Get(role)
		if err != nil {
			t.Errorf("Get(%q) error = %v", role, err)
		}
		if v == nil {
			t.Errorf("Get(%q) = nil, want a default constructor", role)
		}
	}

	ctor, _ := r.Get(RoleQueue)
	newQueue, ok := ctor.(func() *Queue)
	if !ok {
		t.Fatalf("queue binding has type %T", ctor)
	}
	if q := newQueue(); q == nil {
		t.Error("default queue constructor returned nil")
	}
}

func TestRegistry_Extend(t *testing.T) {
	r := NewRegistry()

	// A wrapping transform: the new constructor calls through to the
	// previous one, the wrap-and-call-super pattern.
	var sawPrevious bool
	next, err := r.Extend(RoleQueue, func(current any) any {
		inner, ok := current.(func() *Queue)
		if !ok {
			t.Fatalf("current binding has type %T", current)
		}
		sawPrevious = true
		return func() *Queue {
			q := inner()
			q.Current = nil
			return q
		}
	})
	if err != nil {
		t.Fatalf("Extend() error = %v", err)
	}
	if !sawPrevious {
		t.Fatal("transform never received the previous binding")
	}

	// Get returns exactly what the transform produced.
	got, err := r.Get(RoleQueue)
	if err != nil {
		t.Fatalf("Get() after Extend error = %v", err)
	}
	ctor, ok := got.(func() *Queue)
	if !ok {
		t.Fatalf("extended binding has type %T", got)
	}
	if _ = next; ctor() == nil {
		t.Error("wrapped constructor returned nil")
	}

	// Repeated extends compose over the latest binding, never the
	// original one.
	marker := "wrapped-twice"
	if _, err := r.Extend(RoleQueue, func(current any) any {
		if current == nil {
			t.Error("second Extend received nil current binding")
		}
		return marker
	}); err != nil {
		t.Fatalf("second Extend() error = %v", err)
	}
	if got, _ := r.Get(RoleQueue); got != any(marker) {
		t.Errorf("Get() after second Extend = %v, want marker value", got)
	}
}

func TestRegistry_Extend_Errors(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Extend("NotARole", func(v any) any { return v }); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("Extend(unknown role) error = %v, want ErrUnknownRole", err)
	}
	if _, err := r.Extend(RoleQueue, nil); !errors.Is(err, ErrMissingArgument) {
		t.Errorf("Extend(nil transform) error = %v, want ErrMissingArgument", err)
	}
}

func TestRegistry_Get_Missing(t *testing.T) {
	r := &Registry{bindings: map[Role]any{}}

	if _, err := r.Get(RoleQueue); !errors.Is(err, ErrMissingStructure) {
		t.Errorf("Get(unbound role) error = %v, want ErrMissingStructure", err)
	}
}
