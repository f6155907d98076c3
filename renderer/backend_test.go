package renderer

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistry_DisposesInReverseOrder(t *testing.T) {
	reg := NewRegistry()
	var order []string
	for _, name := range []string{"backend", "points", "lines"} {
		reg.Track(name, DisposeFunc(func() error {
			order = append(order, name)
			return nil
		}))
	}

	if err := reg.DisposeAll(); err != nil {
		t.Fatalf("DisposeAll: %v", err)
	}
	want := []string{"lines", "points", "backend"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("dispose order = %v, want %v", order, want)
	}
	if reg.Len() != 0 {
		t.Errorf("registry not emptied, len = %d", reg.Len())
	}
}

func TestRegistry_JoinsErrorsAndKeepsGoing(t *testing.T) {
	reg := NewRegistry()
	errA := errors.New("a failed")
	released := 0
	reg.Track("a", DisposeFunc(func() error { released++; return errA }))
	reg.Track("b", DisposeFunc(func() error { released++; return nil }))
	reg.Track("c", DisposeFunc(func() error { released++; return ErrReleased }))

	err := reg.DisposeAll()
	if released != 3 {
		t.Errorf("released %d resources, want 3", released)
	}
	if !errors.Is(err, errA) || !errors.Is(err, ErrReleased) {
		t.Errorf("joined error %v should wrap both failures", err)
	}
}

func TestBuffers_DoubleDispose(t *testing.T) {
	calls := 0
	pb := NewPointBuffer(4, func() error { calls++; return nil })
	if len(pb.Positions) != 12 || len(pb.Sizes) != 4 || pb.Count != 4 {
		t.Fatalf("unexpected point buffer shape: %d positions, %d sizes", len(pb.Positions), len(pb.Sizes))
	}
	if err := pb.Dispose(); err != nil {
		t.Fatalf("first dispose: %v", err)
	}
	if err := pb.Dispose(); !errors.Is(err, ErrReleased) {
		t.Errorf("second dispose = %v, want ErrReleased", err)
	}
	if calls != 1 {
		t.Errorf("release hook called %d times, want 1", calls)
	}

	lb := NewLineBuffer(3, nil)
	if lb.Cap() != 3 || len(lb.Positions) != 18 {
		t.Fatalf("unexpected line buffer shape: cap %d, %d positions", lb.Cap(), len(lb.Positions))
	}
	if err := lb.Dispose(); err != nil {
		t.Fatalf("dispose: %v", err)
	}
	if !lb.Released() || lb.Cap() != 0 {
		t.Error("line buffer should report released with zero capacity")
	}
}

func TestRecorder_TracksLiveBuffers(t *testing.T) {
	rec := NewRecorder()
	pb, err := rec.AllocatePoints(10)
	if err != nil {
		t.Fatal(err)
	}
	lb, err := rec.AllocateLines(5)
	if err != nil {
		t.Fatal(err)
	}
	if rec.LivePoints != 1 || rec.LiveLines != 1 {
		t.Fatalf("live = %d/%d, want 1/1", rec.LivePoints, rec.LiveLines)
	}

	pb.Dispose()
	lb.Dispose()
	if rec.LivePoints != 0 || rec.LiveLines != 0 {
		t.Errorf("live after dispose = %d/%d, want 0/0", rec.LivePoints, rec.LiveLines)
	}

	rec.Dispose()
	if _, err := rec.AllocatePoints(1); !errors.Is(err, ErrReleased) {
		t.Errorf("allocate after dispose = %v, want ErrReleased", err)
	}
}
