package observability

import (
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	t.Parallel()
	got := ParseHeaders(" api-key = abc , broken, =x, tenant=t1")
	want := map[string]string{"api-key": "abc", "tenant": "t1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ParseHeaders: got=%v want=%v", got, want)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("ParseHeaders(empty): want nil")
	}
}

func TestClampRatio(t *testing.T) {
	t.Parallel()
	for in, want := range map[float64]float64{-1: 0, 0.3: 0.3, 4: 1} {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v): got=%v want=%v", in, got, want)
		}
	}
}
