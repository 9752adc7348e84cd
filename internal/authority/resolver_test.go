package authority

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type fakeRoleStore struct {
	roles map[int64]*Role
}

func (s *fakeRoleStore) RoleOf(_ context.Context, subjectID int64) (*Role, error) {
	role, ok := s.roles[subjectID]
	if !ok {
		return nil, ErrSubjectNotFound
	}
	return role, nil
}

func TestResolver_Resolve(t *testing.T) {
	store := &fakeRoleStore{roles: map[int64]*Role{
		42: {ID: 1, Name: "organizer", Permissions: []string{"event.manage.own", "event.invite"}},
	}}
	r := NewResolver(store)

	caps, err := r.Resolve(context.Background(), 42)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	want := []string{"PERMISSION_EVENT.INVITE", "PERMISSION_EVENT.MANAGE.OWN", "ROLE_ORGANIZER"}
	if got := caps.Members(); !reflect.DeepEqual(got, want) {
		t.Errorf("Members = %v, want %v", got, want)
	}
	if !caps.Contains("ROLE_ORGANIZER") {
		t.Error("Contains(ROLE_ORGANIZER) = false, want true")
	}
	if caps.Contains("ROLE_ADMIN") {
		t.Error("Contains(ROLE_ADMIN) = true, want false")
	}
	// Membership is exact-match; lowercase spellings are different strings.
	if caps.Contains("role_organizer") {
		t.Error("capability matching must be byte-for-byte")
	}
}

func TestResolver_NoRoleIsEmptySet(t *testing.T) {
	store := &fakeRoleStore{roles: map[int64]*Role{7: nil}}
	r := NewResolver(store)

	caps, err := r.Resolve(context.Background(), 7)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(caps) != 0 {
		t.Errorf("capability set = %v, want empty", caps.Members())
	}
}

func TestResolver_SubjectNotFound(t *testing.T) {
	r := NewResolver(&fakeRoleStore{roles: map[int64]*Role{}})
	_, err := r.Resolve(context.Background(), 99)
	if !errors.Is(err, ErrSubjectNotFound) {
		t.Errorf("Resolve missing subject: want ErrSubjectNotFound, got %v", err)
	}
}

func TestResolver_Deterministic(t *testing.T) {
	store := &fakeRoleStore{roles: map[int64]*Role{
		1: {ID: 2, Name: "attendee", Permissions: []string{"event.view", "event.rsvp", "event.comment"}},
	}}
	r := NewResolver(store)

	first, err := r.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	second, err := r.Resolve(context.Background(), 1)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(first.Members(), second.Members()) {
		t.Errorf("back-to-back resolves differ: %v vs %v", first.Members(), second.Members())
	}
}

func TestCapabilityFormatting(t *testing.T) {
	if got := RoleCapability("admin"); got != "ROLE_ADMIN" {
		t.Errorf("RoleCapability(admin) = %q", got)
	}
	if got := PermissionCapability("event.manage.own"); got != "PERMISSION_EVENT.MANAGE.OWN" {
		t.Errorf("PermissionCapability(event.manage.own) = %q", got)
	}
}
