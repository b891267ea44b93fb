package groups

import (
	"errors"
	"reflect"
	"testing"
)

func TestAddGroupTwice(t *testing.T) {
	a := New()
	a.AddGroup("ctrl")
	a.AddSampleToGroup("ctrl", "S1")
	a.AddGroup("ctrl")

	if n := len(a.Groups()); n != 1 {
		t.Fatalf("expected one group, got %d", n)
	}
	if got := a.Group("ctrl").Members(); !reflect.DeepEqual(got, []string{"S1"}) {
		t.Errorf("re-adding a group must not reset it, members are %v", got)
	}
}

func TestRemoveGroups(t *testing.T) {
	a := New()
	for _, n := range []string{"ctrl", "treated", "sham"} {
		a.AddGroup(n)
	}

	a.RemoveGroups("treated", "nonexistent")

	if got := Names(a.Groups()); !reflect.DeepEqual(got, []string{"ctrl", "sham"}) {
		t.Errorf("unexpected groups %v", got)
	}
}

func TestSetActiveIsReversible(t *testing.T) {
	a := New()
	a.AddGroup("ctrl")
	a.AddGroup("treated")
	a.AddSampleToGroup("treated", "S2")

	if err := a.SetActive("treated", false); err != nil {
		t.Fatal(err)
	}
	if got := Names(a.Active()); !reflect.DeepEqual(got, []string{"ctrl"}) {
		t.Errorf("unexpected active groups %v", got)
	}

	if err := a.SetActive("treated", true); err != nil {
		t.Fatal(err)
	}
	if got := Names(a.Active()); !reflect.DeepEqual(got, []string{"ctrl", "treated"}) {
		t.Errorf("unexpected active groups %v", got)
	}
	if got := a.Group("treated").Members(); !reflect.DeepEqual(got, []string{"S2"}) {
		t.Errorf("deactivation lost members: %v", got)
	}

	var nf *NotFoundError
	if err := a.SetActive("nope", true); !errors.As(err, &nf) {
		t.Errorf("expected a NotFoundError, got %v", err)
	}
}

func TestMembershipIsIdempotent(t *testing.T) {
	a := New()
	a.AddGroup("ctrl")
	a.AddGroup("all")

	for i := 0; i < 2; i++ {
		a.AddSampleToGroup("ctrl", "S1")
		a.AddSampleToGroup("ctrl", "S2")
		a.AddSampleToGroup("all", "S1")
	}
	if got := a.Group("ctrl").Members(); !reflect.DeepEqual(got, []string{"S1", "S2"}) {
		t.Errorf("unexpected members %v", got)
	}

	for i := 0; i < 2; i++ {
		if err := a.RemoveSampleFromGroup("ctrl", "S1"); err != nil {
			t.Fatal(err)
		}
	}
	if got := a.Group("ctrl").Members(); !reflect.DeepEqual(got, []string{"S2"}) {
		t.Errorf("unexpected members %v", got)
	}
	if !a.Group("all").Has("S1") {
		t.Error("removing from one group must not affect another")
	}

	var nf *NotFoundError
	if err := a.AddSampleToGroup("nope", "S1"); !errors.As(err, &nf) {
		t.Errorf("expected a NotFoundError, got %v", err)
	}
}

func TestUngrouped(t *testing.T) {
	a := New()
	a.AddGroup("ctrl")
	a.AddSampleToGroup("ctrl", "S2")

	if got := a.Ungrouped([]string{"S1", "S2", "S3"}); !reflect.DeepEqual(got, []string{"S1", "S3"}) {
		t.Errorf("unexpected ungrouped samples %v", got)
	}
}
