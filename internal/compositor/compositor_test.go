package compositor

import (
	"errors"
	"image"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	log "github.com/sirupsen/logrus"

	"chosenoffset.com/electricsheep/internal/entity"
	"chosenoffset.com/electricsheep/internal/pacer"
	"chosenoffset.com/electricsheep/internal/render/rendertest"
	"chosenoffset.com/electricsheep/internal/texture"
	"chosenoffset.com/electricsheep/internal/tilemap"
)

type fixture struct {
	backend  *rendertest.Backend
	registry *texture.Registry
	clock    *pacer.ManualClock
	comp     *Compositor
}

func quietLogger() log.FieldLogger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	backend := rendertest.NewBackend(1280, 720)
	registry := texture.NewRegistry(backend)
	registry.SetLogger(quietLogger())
	for _, id := range []uint32{1, 2, 3, 10} {
		if err := registry.Register(id, image.NewRGBA(image.Rect(0, 0, 16, 16))); err != nil {
			t.Fatalf("Failed to register texture %d: %v", id, err)
		}
	}

	clock := pacer.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	// the manual clock wakes exactly on time, so no wake buffer is needed
	p := pacer.New(60, pacer.WithClock(clock), pacer.WithWakeBuffer(0))

	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return &fixture{
		backend:  backend,
		registry: registry,
		clock:    clock,
		comp:     New(backend, registry, p, opts...),
	}
}

func expectPanic(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("Expected %s to panic", name)
		}
	}()
	fn()
}

func TestFrameDrawOrder(t *testing.T) {
	fx := newFixture(t, WithNumBlocks(32, 18))

	m, err := tilemap.FromRows([][]tilemap.Cell{
		{tilemap.Encode(2, 1), tilemap.Empty},
		{tilemap.Empty, tilemap.Encode(3, 0)},
	})
	if err != nil {
		t.Fatalf("Failed to build map: %v", err)
	}
	sprite := entity.NewSprite(10, 0, mgl64.Vec2{2.5, 3})

	f := fx.comp.Open()
	f.AddBackground(1)
	f.AddTileLayer(m)
	f.AddEntity(sprite)
	f.Close()

	expectedOps := []string{"clear", "copy", "copy", "copy", "copy", "present"}
	if ops := fx.backend.Ops(); !slices.Equal(ops, expectedOps) {
		t.Fatalf("Expected ops %v, got %v", expectedOps, ops)
	}

	copies := fx.backend.Copies()
	expectedTextures := []uint32{1, 2, 3, 10}
	for i, id := range expectedTextures {
		if copies[i].Texture != fx.registry.Resolve(id) {
			t.Errorf("Copy %d: expected texture %d", i, id)
		}
		if copies[i].Src != nil {
			t.Errorf("Copy %d: expected whole-texture source, got %v", i, copies[i].Src)
		}
	}

	if *copies[0].Dst != image.Rect(0, 0, 1280, 720) {
		t.Errorf("Expected background over the window, got %v", *copies[0].Dst)
	}
	if *copies[1].Dst != image.Rect(0, 0, 640, 360) {
		t.Errorf("Expected first tile at (0,0)-(640,360), got %v", *copies[1].Dst)
	}
	if *copies[2].Dst != image.Rect(640, 360, 1280, 720) {
		t.Errorf("Expected second tile at (640,360)-(1280,720), got %v", *copies[2].Dst)
	}
	if *copies[3].Dst != image.Rect(100, 120, 140, 160) {
		t.Errorf("Expected sprite at (100,120)-(140,160), got %v", *copies[3].Dst)
	}
}

func TestAddEntitySize(t *testing.T) {
	fx := newFixture(t)

	sprite := entity.NewSprite(10, 0, mgl64.Vec2{1, 1})
	sprite.Size = mgl64.Vec2{2, 0.5}

	f := fx.comp.Open()
	f.SetNumBlocks(32, 18)
	f.AddEntity(sprite)
	f.Close()

	copies := fx.backend.Copies()
	if len(copies) != 1 {
		t.Fatalf("Expected 1 copy, got %d", len(copies))
	}
	if *copies[0].Dst != image.Rect(40, 40, 120, 60) {
		t.Errorf("Expected (40,40)-(120,60), got %v", *copies[0].Dst)
	}
}

func TestAddEntityWithoutBlocksPanics(t *testing.T) {
	fx := newFixture(t)
	f := fx.comp.Open()
	defer f.Close()

	expectPanic(t, "AddEntity without blocks", func() {
		f.AddEntity(entity.NewSprite(1, 0, mgl64.Vec2{0, 0}))
	})
}

func TestUnknownTexturePanics(t *testing.T) {
	fx := newFixture(t)
	f := fx.comp.Open()
	defer f.Close()

	expectPanic(t, "AddBackground with unknown id", func() {
		f.AddBackground(99)
	})
}

func TestClosedFrameCannotBeReused(t *testing.T) {
	fx := newFixture(t, WithNumBlocks(4, 4))
	f := fx.comp.Open()
	f.Close()

	expectPanic(t, "second Close", f.Close)
	expectPanic(t, "AddBackground after Close", func() { f.AddBackground(1) })
	expectPanic(t, "AddEntity after Close", func() { f.AddEntity(entity.NewSprite(1, 0, mgl64.Vec2{})) })

	if n := len(slices.DeleteFunc(fx.backend.Ops(), func(op string) bool { return op != "present" })); n != 1 {
		t.Errorf("Expected exactly 1 present, got %d", n)
	}
}

func TestOpenWhileOpenPanics(t *testing.T) {
	fx := newFixture(t)
	f := fx.comp.Open()
	defer f.Close()

	expectPanic(t, "nested Open", func() { fx.comp.Open() })
}

func TestRecoverableFailuresContinue(t *testing.T) {
	fx := newFixture(t)
	fx.backend.FailClear = true
	fx.backend.FailCopy = true
	fx.backend.FailPresent = true

	f := fx.comp.Open()
	f.AddBackground(1)
	f.AddBackground(2)
	f.Close()

	expected := []string{"clear", "copy", "copy", "present"}
	if ops := fx.backend.Ops(); !slices.Equal(ops, expected) {
		t.Errorf("Expected %v, got %v", expected, ops)
	}
	if fx.comp.Frames() != 1 {
		t.Errorf("Expected 1 frame, got %d", fx.comp.Frames())
	}
}

func TestFramePacing(t *testing.T) {
	fx := newFixture(t)
	period := pacer.FramePeriod(60)

	fx.comp.Open().Close()
	if len(fx.clock.Sleeps) != 0 {
		t.Errorf("Expected no sleep on the first frame, got %v", fx.clock.Sleeps)
	}
	first := fx.comp.LastPresent()
	if !first.Equal(fx.clock.Now()) {
		t.Errorf("Expected last present %v, got %v", fx.clock.Now(), first)
	}

	fx.clock.Advance(2 * time.Millisecond)
	fx.comp.Open().Close()

	expectedSleep := period - 2*time.Millisecond
	if len(fx.clock.Sleeps) != 1 || fx.clock.Sleeps[0] != expectedSleep {
		t.Errorf("Expected one sleep of %v, got %v", expectedSleep, fx.clock.Sleeps)
	}

	delta := fx.comp.FrameDelta()
	if delta != period {
		t.Errorf("Expected frame delta %v, got %v", period, delta)
	}
	if _, ok := fx.comp.LastDrift(); ok {
		t.Error("Expected no drift for an on-time frame")
	}
}

func TestPresentWaitsBeforePresenting(t *testing.T) {
	fx := newFixture(t)
	fx.comp.Open().Close()

	var sleepsAtPresent int
	fx.backend.OnPresent = func() { sleepsAtPresent = len(fx.clock.Sleeps) }
	fx.comp.Open().Close()

	if sleepsAtPresent != 1 {
		t.Errorf("Expected the pacing sleep to happen before present, got %d sleeps at present", sleepsAtPresent)
	}
}

func TestDriftReported(t *testing.T) {
	fx := newFixture(t)

	fx.comp.Open().Close()
	fx.clock.Advance(30 * time.Millisecond)
	fx.comp.Open().Close()

	d, ok := fx.comp.LastDrift()
	if !ok {
		t.Fatal("Expected drift after a 30ms frame")
	}
	if d.Direction != pacer.Behind {
		t.Errorf("Expected behind, got %v", d.Direction)
	}
	if fx.comp.Frames() != 2 {
		t.Errorf("Expected 2 frames, got %d", fx.comp.Frames())
	}
}

func TestRenderClosesOnError(t *testing.T) {
	fx := newFixture(t)
	boom := errors.New("boom")

	err := fx.comp.Render(func(f *Frame) error {
		f.AddBackground(1)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("Expected boom, got %v", err)
	}

	expected := []string{"clear", "copy", "present"}
	if ops := fx.backend.Ops(); !slices.Equal(ops, expected) {
		t.Errorf("Expected %v, got %v", expected, ops)
	}

	// a closed scope lets the next frame open
	if err := fx.comp.Render(func(f *Frame) error { return nil }); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestRenderAfterEarlyClose(t *testing.T) {
	fx := newFixture(t)

	err := fx.comp.Render(func(f *Frame) error {
		f.AddBackground(1)
		f.Close()
		return nil
	})
	if err != nil {
		t.Errorf("Expected nil, got %v", err)
	}

	expected := []string{"clear", "copy", "present"}
	if ops := fx.backend.Ops(); !slices.Equal(ops, expected) {
		t.Errorf("Expected a single present, got %v", ops)
	}
	if fx.comp.Frames() != 1 {
		t.Errorf("Expected 1 frame, got %d", fx.comp.Frames())
	}
}

func TestRenderClosesOnPanic(t *testing.T) {
	fx := newFixture(t)

	expectPanic(t, "Render with unknown texture", func() {
		_ = fx.comp.Render(func(f *Frame) error {
			f.AddBackground(99)
			return nil
		})
	})

	if ops := fx.backend.Ops(); ops[len(ops)-1] != "present" {
		t.Errorf("Expected the frame to be presented, got %v", ops)
	}
	if fx.comp.Frames() != 1 {
		t.Errorf("Expected 1 frame, got %d", fx.comp.Frames())
	}
}

func TestAddRegion(t *testing.T) {
	fx := newFixture(t)
	src := image.Rect(0, 0, 8, 8)
	dst := image.Rect(10, 10, 50, 50)

	f := fx.comp.Open()
	f.AddRegion(2, &src, &dst)
	f.AddRegion(3, &src, nil)
	f.Close()

	copies := fx.backend.Copies()
	if *copies[0].Src != src || *copies[0].Dst != dst {
		t.Errorf("Expected %v -> %v, got %v -> %v", src, dst, *copies[0].Src, *copies[0].Dst)
	}
	if copies[1].Dst != nil {
		t.Errorf("Expected nil destination, got %v", copies[1].Dst)
	}
}
