package model

import "testing"

func TestDocumentClone_DeepCopies(t *testing.T) {
	t.Parallel()

	d := NewDocument()
	d.Users = append(d.Users, User{ID: "u1", Username: "alice"})
	d.ItemsByUserID["u1"] = []Item{{ID: "i1", Text: "milk"}}

	c := d.Clone()
	c.Users[0].Username = "mallory"
	c.ItemsByUserID["u1"][0].Text = "beer"
	c.ItemsByUserID["u2"] = []Item{{ID: "i2"}}

	if d.Users[0].Username != "alice" {
		t.Fatalf("clone aliases users slice")
	}
	if d.ItemsByUserID["u1"][0].Text != "milk" {
		t.Fatalf("clone aliases item slices")
	}
	if _, ok := d.ItemsByUserID["u2"]; ok {
		t.Fatalf("clone aliases items map")
	}
}

func TestUserSummary_OmitsPasswordHash(t *testing.T) {
	t.Parallel()

	u := User{ID: "u1", Username: "alice", PasswordHash: "secret", Validated: true}
	s := u.Summary()
	if s.ID != "u1" || s.Username != "alice" || !s.Validated {
		t.Fatalf("summary fields: %+v", s)
	}
}
