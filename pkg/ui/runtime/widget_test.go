package runtime

import (
	"testing"

	"github.com/odvcencio/gridkit/pkg/ui/geometry"
)

func TestWalk_PaintOrder(t *testing.T) {
	a := &testWidget{name: "a"}
	b := &testWidget{name: "b"}
	c := &testWidget{name: "c"}
	root := Rows(Item(a, Flex(1)), Item(Columns(Item(b, Flex(1)), Item(c, Flex(1))), Flex(1)))

	var names []string
	Walk(root, func(w Widget) bool {
		if tw, ok := w.(*testWidget); ok {
			names = append(names, tw.name)
		}
		return true
	})
	if len(names) != 3 || names[0] != "a" || names[1] != "b" || names[2] != "c" {
		t.Errorf("walk order = %v", names)
	}
}

func TestWalk_SkipChildren(t *testing.T) {
	inner := Columns(Item(&testWidget{name: "hidden"}, Flex(1)))
	root := Rows(Item(inner, Flex(1)))

	visited := 0
	Walk(root, func(w Widget) bool {
		visited++
		return w != inner
	})
	if visited != 2 {
		t.Errorf("visited %d widgets, want 2", visited)
	}

	Walk(nil, func(Widget) bool {
		t.Fatal("nil root must not be visited")
		return true
	})
}

func TestDispatch_FirstResult(t *testing.T) {
	a := &testWidget{name: "a"}
	b := &testWidget{name: "b", result: "b"}
	c := &testWidget{name: "c", result: "c"}

	if got := Dispatch(Paste{}, a, nil, b, c); got != "b" {
		t.Errorf("Dispatch = %v, want b", got)
	}
	if len(c.events) != 0 {
		t.Error("widgets after the handler should not see the event")
	}
	if got := Dispatch(Paste{}); got != nil {
		t.Errorf("empty Dispatch = %v", got)
	}
}

func TestLeaf_Defaults(t *testing.T) {
	var l Leaf
	res := l.Layout(geometry.R(1, 2, 3, 4))
	if res.Size != geometry.Sz(3, 4) {
		t.Errorf("LayoutResult = %v", res.Size)
	}
	if l.Bounds() != geometry.R(1, 2, 3, 4) {
		t.Errorf("Bounds = %v", l.Bounds())
	}
	if l.Event(KeyDown{}) != nil || l.Children() != nil {
		t.Error("leaf should not handle events or have children")
	}
}
