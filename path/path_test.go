package path

import "testing"

func TestNewLocalRejectsBadPrefix(t *testing.T) {
	if _, err := NewLocal("/bogus"); err == nil {
		t.Fatal("expected error for path not rooted at /user or /system")
	}
	if _, err := NewLocal("/user/a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewLocal("/"); err != nil {
		t.Fatalf("root path should be permitted: %v", err)
	}
}

func TestChildAppendsSegment(t *testing.T) {
	root := MustLocal("/")
	user, err := root.Child("user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.String() != "/user" {
		t.Fatalf("got %q, want /user", user.String())
	}

	a, err := user.Child("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.String() != "/user/a" {
		t.Fatalf("got %q, want /user/a", a.String())
	}
}

func TestChildRejectsSlashInName(t *testing.T) {
	user := MustLocal("/user")
	if _, err := user.Child("a/b"); err == nil {
		t.Fatal("expected error for name containing '/'")
	}
}

func TestChildRejectsDistant(t *testing.T) {
	d := NewDistant("/user/a", "host:1234")
	if _, err := d.Child("b"); err == nil {
		t.Fatal("expected error forming a child of a distant path")
	}
}

func TestEqualsIsStructural(t *testing.T) {
	a := MustLocal("/user/a")
	b := MustLocal("/user/a")
	if !a.Equals(b) {
		t.Fatal("expected equal local paths to compare equal")
	}

	c := MustLocal("/user/b")
	if a.Equals(c) {
		t.Fatal("expected different local paths to compare unequal")
	}

	d1 := NewDistant("/user/a", "host:1")
	d2 := NewDistant("/user/a", "host:1")
	d3 := NewDistant("/user/a", "host:2")
	if !d1.Equals(d2) {
		t.Fatal("expected equal distant paths to compare equal")
	}
	if d1.Equals(d3) {
		t.Fatal("expected distant paths with different endpoints to compare unequal")
	}
	if a.Equals(d1) {
		t.Fatal("expected local and distant paths never to compare equal")
	}
}

func TestDistantStringFormat(t *testing.T) {
	d := NewDistant("/user/a", "10.0.0.1:9000")
	if got, want := d.String(), "/user/a@10.0.0.1:9000"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
