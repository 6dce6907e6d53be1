package core

import "testing"

func TestInputFrameKeepsOrder(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionLeft)
	f.Set(ActionNone) // ignored
	f.Set(ActionRotate)
	f.Set(ActionLeft)

	want := []Action{ActionLeft, ActionRotate, ActionLeft}
	if len(f.Actions) != len(want) {
		t.Fatalf("Actions = %v, expected %v", f.Actions, want)
	}
	for i := range want {
		if f.Actions[i] != want[i] {
			t.Errorf("Actions[%d] = %v, expected %v", i, f.Actions[i], want[i])
		}
	}

	if !f.Has(ActionRotate) || f.Has(ActionHardDrop) {
		t.Error("Has reported wrong membership")
	}
}

func TestInputFrameCloneIsIndependent(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionSoftDrop)

	c := f.Clone()
	f.Clear()
	f.Set(ActionHardDrop)

	if len(c.Actions) != 1 || c.Actions[0] != ActionSoftDrop {
		t.Errorf("clone changed with original: %v", c.Actions)
	}
	if !NewInputFrame().Empty() {
		t.Error("new frame should be empty")
	}
}

func TestParseActionRoundTrip(t *testing.T) {
	for a := ActionNone; a <= ActionQuit; a++ {
		got, ok := ParseAction(a.String())
		if !ok || got != a {
			t.Errorf("ParseAction(%q) = %v, %v", a.String(), got, ok)
		}
	}

	if _, ok := ParseAction("jump"); ok {
		t.Error("unknown names should not parse")
	}
	if got, ok := ParseAction(" Hard_Drop "); !ok || got != ActionHardDrop {
		t.Errorf("ParseAction should trim and ignore case, got %v", got)
	}
	if Action(99).String() != "unknown" {
		t.Error("out of range action should stringify as unknown")
	}
}
