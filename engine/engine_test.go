package engine

import (
	"errors"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/clock"
	"github.com/Carmen-Shannon/oxy-gl/engine/device/devicetest"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/binder"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedWindow is a window that stays open for a fixed number of polls and
// reports timestamps from a script.
type scriptedWindow struct {
	polls      int
	maxPolls   int
	timestamps []time.Duration
	swaps      int
	closed     bool
	onResize   func(width, height int)
}

var _ window.Window = &scriptedWindow{}

func (w *scriptedWindow) SetResizeCallback(callback func(width, height int)) { w.onResize = callback }
func (w *scriptedWindow) SetKeyDownCallback(func(keyCode uint32))           {}
func (w *scriptedWindow) SetKeyUpCallback(func(keyCode uint32))             {}
func (w *scriptedWindow) IsRunning() bool                                   { return !w.closed && w.polls < w.maxPolls }
func (w *scriptedWindow) SwapBuffers()                                      { w.swaps++ }
func (w *scriptedWindow) RequestClose()                                     { w.closed = true }
func (w *scriptedWindow) Close() error                                      { w.closed = true; return nil }
func (w *scriptedWindow) Width() int                                        { return 640 }
func (w *scriptedWindow) Height() int                                       { return 480 }

func (w *scriptedWindow) PollEvents() bool {
	if !w.IsRunning() {
		return false
	}
	w.polls++
	return true
}

func (w *scriptedWindow) Timestamp() time.Duration {
	i := w.polls - 1
	if i >= len(w.timestamps) {
		i = len(w.timestamps) - 1
	}
	return w.timestamps[i]
}

func newRenderer(t *testing.T, dev *devicetest.Device, uniforms renderer.UniformProducer) renderer.Renderer {
	t.Helper()
	logger, _ := test.NewNullLogger()
	r, err := renderer.NewRenderer(dev,
		shader.Document{ID: "vs", Kind: "vert", Source: "attribute vec2 position;\nuniform float time;\nvoid main() {}\n"},
		shader.Document{ID: "fs", Kind: "frag", Source: "void main() {}\n"},
		renderer.WithLogger(logger),
		renderer.WithAttributeProducer(func(clock.FrameTime) binder.Attributes {
			return binder.Attributes{"position": {Data: []float32{0, 0, 1, 0, 0, 1}, Size: 2}}
		}),
		renderer.WithUniformProducer(uniforms),
	)
	require.NoError(t, err)
	return r
}

func timeUniform(ft clock.FrameTime) binder.Uniforms {
	return binder.Uniforms{"time": binder.Float(float32(ft.Time))}
}

func TestRunDrivesFrames(t *testing.T) {
	dev := devicetest.New()
	logger, _ := test.NewNullLogger()
	win := &scriptedWindow{
		maxPolls: 4,
		timestamps: []time.Duration{
			2 * time.Second,
			2*time.Second + 20*time.Millisecond,
			5 * time.Second,
			5*time.Second + 10*time.Millisecond,
		},
	}

	var seen []clock.FrameTime
	e := NewEngine(
		WithWindow(win),
		WithRenderer(newRenderer(t, dev, timeUniform)),
		WithLogger(logger),
		WithTickCallback(func(ft clock.FrameTime) error {
			seen = append(seen, ft)
			return nil
		}),
	)

	require.NoError(t, e.Run())
	assert.Len(t, dev.Draws, 4)
	assert.Equal(t, 4, win.swaps)
	assert.Equal(t, [][4]int{{0, 0, 640, 480}}, dev.Viewports)

	require.Len(t, seen, 4)
	assert.Zero(t, seen[0].Elapsed)
	assert.InDelta(t, 0.02, seen[1].Elapsed, 1e-9)
	assert.InDelta(t, 0.1, seen[2].Elapsed, 1e-9)
	assert.InDelta(t, 0.13, seen[3].Time, 1e-9)
	assert.Equal(t, uint64(4), e.Clock().Now().Frame)
}

func TestRunStopsOnFrameError(t *testing.T) {
	dev := devicetest.New()
	logger, hook := test.NewNullLogger()
	win := &scriptedWindow{maxPolls: 10, timestamps: []time.Duration{0}}

	e := NewEngine(
		WithWindow(win),
		WithLogger(logger),
		WithRenderer(newRenderer(t, dev, func(ft clock.FrameTime) binder.Uniforms {
			if ft.Frame == 3 {
				return binder.Uniforms{"time": {0, 1}}
			}
			return timeUniform(ft)
		})),
	)

	err := e.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, binder.ErrUniformArityMismatch))
	assert.Contains(t, err.Error(), "frame 3")
	assert.Len(t, dev.Draws, 2)
	assert.Equal(t, 2, win.swaps)
	assert.Equal(t, "frame failed, stopping engine", hook.LastEntry().Message)
}

func TestRunStopsOnTickCallbackError(t *testing.T) {
	dev := devicetest.New()
	logger, _ := test.NewNullLogger()
	win := &scriptedWindow{maxPolls: 10, timestamps: []time.Duration{0}}
	boom := errors.New("boom")

	e := NewEngine(WithWindow(win), WithLogger(logger), WithRenderer(newRenderer(t, dev, timeUniform)))
	e.SetTickCallback(func(ft clock.FrameTime) error {
		if ft.Frame == 2 {
			return boom
		}
		return nil
	})

	err := e.Run()
	assert.True(t, errors.Is(err, boom))
	assert.Len(t, dev.Draws, 1)
}

func TestQuit(t *testing.T) {
	dev := devicetest.New()
	logger, _ := test.NewNullLogger()
	win := &scriptedWindow{maxPolls: 100, timestamps: []time.Duration{0}}

	var e Engine
	e = NewEngine(
		WithWindow(win),
		WithLogger(logger),
		WithRenderer(newRenderer(t, dev, timeUniform)),
		WithTickCallback(func(ft clock.FrameTime) error {
			if ft.Frame == 5 {
				e.Quit()
			}
			return nil
		}),
	)

	require.NoError(t, e.Run())
	// the frame that asked to quit still completes
	assert.Len(t, dev.Draws, 5)
	assert.Equal(t, 5, win.polls)
}

func TestRunRequiresWindowAndRenderer(t *testing.T) {
	logger, _ := test.NewNullLogger()
	assert.ErrorIs(t, NewEngine(WithLogger(logger)).Run(), ErrNotConfigured)
	assert.ErrorIs(t, NewEngine(WithLogger(logger), WithWindow(&scriptedWindow{})).Run(), ErrNotConfigured)
}

func TestResizeCallbackReachesRenderer(t *testing.T) {
	dev := devicetest.New()
	logger, _ := test.NewNullLogger()
	win := &scriptedWindow{}
	r := newRenderer(t, dev, timeUniform)

	NewEngine(WithWindow(win), WithRenderer(r), WithLogger(logger))
	require.NotNil(t, win.onResize)
	win.onResize(1024, 768)

	w, h := r.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestRenderFrameLimit(t *testing.T) {
	dev := devicetest.New()
	logger, _ := test.NewNullLogger()
	win := &scriptedWindow{maxPolls: 3, timestamps: []time.Duration{0}}

	e := NewEngine(
		WithWindow(win),
		WithLogger(logger),
		WithRenderer(newRenderer(t, dev, timeUniform)),
		WithRenderFrameLimit(10),
		WithMaxStep(50*time.Millisecond),
	).(*engine)
	assert.Equal(t, 100*time.Millisecond, e.renderFrameLimit)
	assert.Equal(t, 50*time.Millisecond, e.Clock().MaxStep())

	var slept []time.Duration
	e.sleep = func(d time.Duration) { slept = append(slept, d) }

	require.NoError(t, e.Run())
	require.Len(t, slept, 3)
	for _, d := range slept {
		assert.True(t, d > 0 && d <= 100*time.Millisecond)
	}

	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}
