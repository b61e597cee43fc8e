package decision

import "testing"

func TestKeyEqualityIgnoresContext(t *testing.T) {
	frameA := new(int)
	frameB := new(int)

	d1 := New("branch@12", 1, frameA)
	d2 := New("branch@12", 1, frameB)

	if d1.Key != d2.Key {
		t.Fatalf("expected keys to be equal regardless of context, got %v != %v", d1.Key, d2.Key)
	}
	if d1 == d2 {
		t.Fatalf("expected full decisions to differ by context")
	}
	if d1.SameContext(d2) {
		t.Fatalf("expected different frames to not be the same context")
	}
}

func TestSameContextReferenceIdentity(t *testing.T) {
	frame := new(int)
	d1 := New("branch@1", 0, frame)
	d2 := New("branch@2", 1, frame)

	if !d1.SameContext(d2) {
		t.Fatalf("expected decisions sharing a frame pointer to share context")
	}
}

func TestFromBranch(t *testing.T) {
	instr := BranchInstruction{Site: "main.go:10"}
	d := FromBranch(instr, 1, nil)
	if d.BranchID != instr.Site || d.ChoiceIndex != 1 {
		t.Fatalf("unexpected decision from branch: %+v", d)
	}
}
