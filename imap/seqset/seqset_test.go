package seqset

import "testing"

func mustParse(t *testing.T, s string) *SeqSet {
	t.Helper()
	set, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return set
}

func TestParseInvalid(t *testing.T) {
	cases := []string{
		"",
		"0",
		"0:2",
		" 1",
		"1 ",
		"1,",
		",1",
		"abc",
		"1:",
		"4294967296", // 2^32, one past MaxNumber
		"01",
	}
	for _, c := range cases {
		if _, err := Parse(c); err == nil {
			t.Errorf("Parse(%q): expected error, got none", c)
		}
	}
}

func TestLimitScenario1(t *testing.T) {
	set := mustParse(t, "2,4:7,9,12:*")
	got := set.Limit(15)
	want := mustParse(t, "2,4,5,6,7,9,12,13,14,15")
	if got == nil || !got.Equal(want) {
		t.Fatalf("Limit(15) = %v, want %v", got, want)
	}
}

func TestSubtractScenario2(t *testing.T) {
	set := mustParse(t, "1,5:9,11:99")
	if err := set.Subtract("6:999"); err != nil {
		t.Fatal(err)
	}
	want := mustParse(t, "1,5")
	if !set.Equal(want) {
		t.Fatalf("got %v, want %v", set, want)
	}
}

func TestUnionScenario3(t *testing.T) {
	set := mustParse(t, "1,3,5,7:8")
	if err := set.Add("2,8:9"); err != nil {
		t.Fatal(err)
	}
	want := mustParse(t, "1:3,5,7:9")
	if !set.Equal(want) {
		t.Fatalf("got %v, want %v", set, want)
	}
}

func TestLimitScenario4(t *testing.T) {
	set := mustParse(t, "500:999")
	if got := set.Limit(37); got != nil {
		t.Fatalf("Limit(37) = %v, want nil", got)
	}
}

func TestRoundTripAtom(t *testing.T) {
	for _, s := range []string{"1", "1,2,3", "1:5", "1:5,9,20:*", "*"} {
		set := mustParse(t, s)
		atom, err := set.Atom()
		if err != nil {
			t.Fatalf("Atom(): %v", err)
		}
		if atom != s {
			t.Fatalf("Atom() = %q, want %q", atom, s)
		}
		reparsed := mustParse(t, atom)
		if !set.Equal(reparsed) {
			t.Fatalf("re-parse mismatch for %q", s)
		}
	}
}

func TestAtomEmptyFails(t *testing.T) {
	set := New()
	if _, err := set.Atom(); err == nil {
		t.Fatal("expected error for Atom() on empty set")
	}
	if set.String() != "" {
		t.Fatalf("String() on empty set = %q, want empty", set.String())
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	set := mustParse(t, "5,1,3:4,9:7")
	n1 := set.Normalize()
	n2 := n1.Normalize()
	if !n1.Equal(n2) {
		t.Fatal("normalize is not idempotent")
	}
}

func TestComplementInvolution(t *testing.T) {
	for _, s := range []string{"1", "1,2,3", "5:9", "1:5,9,20:*", "*"} {
		set := mustParse(t, s)
		cc := set.Complement().Complement()
		if !set.Equal(cc) {
			t.Fatalf("~~%q = %v, want %v", s, cc, set)
		}
	}
}

func TestUnionComplementIsFull(t *testing.T) {
	set := mustParse(t, "5:9,20:*")
	full, err := set.Union(set.Complement())
	if err != nil {
		t.Fatal(err)
	}
	all, err := FromRange(1, Star)
	if err != nil {
		t.Fatal(err)
	}
	if !full.Equal(all) {
		t.Fatalf("x | ~x = %v, want 1:*", full)
	}
}

func TestMembershipCoverConsistency(t *testing.T) {
	set := mustParse(t, "1,5:9,20:*")
	for n := uint64(1); n <= 30; n++ {
		if set.Include(n) != set.Cover(n) {
			t.Fatalf("include/cover mismatch at %d", n)
		}
	}
	if !set.Include(Star) {
		t.Fatal("expected Star to be included via 20:*")
	}
}

func TestCommutativity(t *testing.T) {
	x := mustParse(t, "1:5,20")
	y := mustParse(t, "3:8,100")
	xy, _ := x.Union(y)
	yx, _ := y.Union(x)
	if !xy.Equal(yx) {
		t.Fatal("union not commutative")
	}
	xiy, _ := x.Intersect(y)
	yix, _ := y.Intersect(x)
	if !xiy.Equal(yix) {
		t.Fatal("intersection not commutative")
	}
}

func TestDeMorgan(t *testing.T) {
	x := mustParse(t, "1:10")
	y := mustParse(t, "5:15")
	union, _ := x.Union(y)
	notUnion := union.Complement()
	nx := x.Complement()
	ny := y.Complement()
	inter, err := nx.Intersect(ny)
	if err != nil {
		t.Fatal(err)
	}
	if !notUnion.Equal(inter) {
		t.Fatalf("De Morgan failed: ~(x|y)=%v, ~x&~y=%v", notUnion, inter)
	}
}

func TestCount(t *testing.T) {
	set := mustParse(t, "1:5,10")
	if got, want := set.Count(), uint64(6); got != want {
		t.Fatalf("Count() = %d, want %d", got, want)
	}
}

func TestMinMax(t *testing.T) {
	set := mustParse(t, "5:9,20:*")
	min, ok := set.Min(0)
	if !ok || min != 5 {
		t.Fatalf("Min() = %d,%v want 5,true", min, ok)
	}
	max, ok := set.Max(999)
	if !ok || max != 999 {
		t.Fatalf("Max() = %d,%v want 999,true", max, ok)
	}
	if _, ok := New().Min(0); ok {
		t.Fatal("Min() on empty set should report ok=false")
	}
}

func TestElementsFailsOnStar(t *testing.T) {
	set := mustParse(t, "1,20:*")
	if _, err := set.Elements(); err == nil {
		t.Fatal("expected error enumerating a set containing '*'")
	}
}

func TestElements(t *testing.T) {
	set := mustParse(t, "1,3:5")
	got, err := set.Elements()
	if err != nil {
		t.Fatal(err)
	}
	want := []uint64{1, 3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestFreezePanicsOnMutate(t *testing.T) {
	set := mustParse(t, "1:5").Freeze()
	if !set.IsFrozen() {
		t.Fatal("expected frozen set")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic mutating a frozen SeqSet")
		}
	}()
	set.Add(uint64(6))
}

func TestAddNew(t *testing.T) {
	set := mustParse(t, "1:5")
	added, err := set.AddNew(uint64(3))
	if err != nil {
		t.Fatal(err)
	}
	if added {
		t.Fatal("3 is already covered, AddNew should report false")
	}
	added, err = set.AddNew(uint64(10))
	if err != nil {
		t.Fatal(err)
	}
	if !added {
		t.Fatal("10 is new, AddNew should report true")
	}
}

func TestTripleEqualsSwallowsBadInput(t *testing.T) {
	set := mustParse(t, "1:5")
	if _, ok := set.TripleEquals(struct{}{}); ok {
		t.Fatal("expected ok=false for non-coercible input")
	}
	if result, ok := set.TripleEquals(uint64(3)); !ok || !result {
		t.Fatalf("TripleEquals(3) = %v,%v want true,true", result, ok)
	}
}

func TestFromNumbersEmptyFails(t *testing.T) {
	if _, err := FromNumbers(); err == nil {
		t.Fatal("expected error for empty enumerable")
	}
}
