package visibility

import "testing"

func TestDefault(t *testing.T) {
	if !Default(nil) {
		t.Fatal("unspecified visibility must default to visible")
	}

	shown := true
	if !Default(&shown) {
		t.Fatal("explicit true must stay true")
	}

	hidden := false
	if Default(&hidden) {
		t.Fatal("explicit false must stay false")
	}
}
