package mangle

import "testing"

func TestMangleRoundTrip(t *testing.T) {
	cases := []string{
		"avast.ava-lang.org:prelude.+",
		"",
		"plain",
		"a-b-c",
		"a:b:c",
		"weird$byte\x01here",
	}

	for _, name := range cases {
		mangled := Mangle(Name{Ava, name})
		got := Demangle(mangled)

		if got.Scheme != Ava {
			t.Fatalf("Demangle(%q): expected scheme Ava, got %v", mangled, got.Scheme)
		}

		if got.Name != name {
			t.Fatalf("Demangle(Mangle(%q)) = %q, want %q", name, got.Name, name)
		}
	}
}

func TestMangleKnownExample(t *testing.T) {
	got := Mangle(Name{Ava, "avast.ava-lang.org:prelude.+"})
	want := "a$avast__ava_lang__org___prelude__$2B"

	if got != want {
		t.Fatalf("Mangle() = %q, want %q", got, want)
	}
}

func TestDemangleUnmangled(t *testing.T) {
	got := Demangle("not-mangled")
	if got.Scheme != None || got.Name != "not-mangled" {
		t.Fatalf("Demangle(unmangled) = %+v", got)
	}
}

func TestDemangleRejectsLowercaseHex(t *testing.T) {
	got := Demangle("a$foo$2b")
	if got.Scheme != None {
		t.Fatalf("expected lowercase hex escape to be rejected, got scheme %v", got.Scheme)
	}
}

func TestMangleIdempotentOnMangledForm(t *testing.T) {
	mangled := Mangle(Name{Ava, "a:b.c-d"})
	again := Mangle(Demangle(mangled))

	if again != mangled {
		t.Fatalf("mangle(demangle(s)) = %q, want %q", again, mangled)
	}
}
