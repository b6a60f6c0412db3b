package dispatch_test

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cecinput/cecinput/cec"
	"github.com/cecinput/cecinput/dispatch"
)

type recorder struct {
	mu   sync.Mutex
	cmds []dispatch.Command
}

func (r *recorder) Execute(cmd dispatch.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, cmd)
}

func (r *recorder) get() []dispatch.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]dispatch.Command(nil), r.cmds...)
}

func newQueue(interval time.Duration) *dispatch.Queue {
	return dispatch.NewQueue(interval, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func runAsync(q *dispatch.Queue, exec dispatch.Executor, probe func() bool) <-chan dispatch.Outcome {
	done := make(chan dispatch.Outcome, 1)
	go func() { done <- q.Run(exec, probe) }()
	return done
}

func waitRunning(t *testing.T, q *dispatch.Queue) {
	t.Helper()
	require.Eventually(t, q.Running, time.Second, time.Millisecond)
}

func TestQueue_FIFO(t *testing.T) {
	q := newQueue(time.Hour)
	rec := &recorder{}

	q.Start()
	require.True(t, q.Push(dispatch.Command{Kind: dispatch.Standby}))
	require.True(t, q.Push(dispatch.Press(cec.KeyPlay)))
	require.True(t, q.Push(dispatch.Command{Kind: dispatch.Exit}))

	out := q.Run(rec, nil)

	assert.False(t, out.Restart)
	assert.Equal(t, []dispatch.Command{
		{Kind: dispatch.Standby},
		dispatch.Press(cec.KeyPlay),
	}, rec.get())
	assert.False(t, q.Running())
}

func TestQueue_PushAfterStopIsDropped(t *testing.T) {
	q := newQueue(time.Hour)
	assert.False(t, q.Push(dispatch.Command{Kind: dispatch.Standby}), "not started")

	q.Start()
	q.Push(dispatch.Command{Kind: dispatch.Exit})
	q.Run(&recorder{}, nil)

	assert.False(t, q.Push(dispatch.Press(cec.KeyUp)))
	assert.Equal(t, 0, q.Len())
}

func TestQueue_RestartDiscardsRemaining(t *testing.T) {
	q := newQueue(time.Hour)
	rec := &recorder{}

	q.Start()
	q.Push(dispatch.Command{Kind: dispatch.Active})
	q.Push(dispatch.Command{Kind: dispatch.Restart})
	q.Push(dispatch.Command{Kind: dispatch.Inactive})

	out := q.Run(rec, nil)

	assert.True(t, out.Restart)
	assert.False(t, out.ProbeFailed)
	assert.Equal(t, []dispatch.Command{{Kind: dispatch.Active}}, rec.get())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_WakesOnPush(t *testing.T) {
	q := newQueue(time.Hour)
	rec := &recorder{}
	done := runAsync(q, rec, nil)
	waitRunning(t, q)

	q.Push(dispatch.Press(cec.KeySelect))
	require.Eventually(t, func() bool { return len(rec.get()) == 1 }, time.Second, time.Millisecond)

	q.Push(dispatch.Command{Kind: dispatch.Exit})
	select {
	case out := <-done:
		assert.False(t, out.Restart)
	case <-time.After(time.Second):
		t.Fatal("queue did not stop")
	}
}

func TestQueue_ProbeOnIdle(t *testing.T) {
	q := newQueue(5 * time.Millisecond)
	var probes atomic.Int32
	probe := func() bool {
		return probes.Add(1) < 3
	}

	done := runAsync(q, &recorder{}, probe)
	select {
	case out := <-done:
		assert.True(t, out.Restart)
		assert.True(t, out.ProbeFailed)
	case <-time.After(2 * time.Second):
		t.Fatal("probe failure did not stop the queue")
	}
	assert.Equal(t, int32(3), probes.Load())
	assert.False(t, q.Push(dispatch.Command{Kind: dispatch.Standby}))
}

func TestQueue_ConcurrentProducersKeepPerProducerOrder(t *testing.T) {
	q := newQueue(time.Hour)
	rec := &recorder{}
	done := runAsync(q, rec, nil)
	waitRunning(t, q)

	const producers, per = 4, 25
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				q.Push(dispatch.Press(cec.UserControlCode(p*per + i)))
			}
		}(p)
	}
	wg.Wait()
	q.Push(dispatch.Command{Kind: dispatch.Exit})
	<-done

	got := rec.get()
	require.Len(t, got, producers*per)
	last := map[int]int{}
	for _, c := range got {
		p := int(c.Key) / per
		i := int(c.Key) % per
		if prev, ok := last[p]; ok {
			assert.Greater(t, i, prev)
		}
		last[p] = i
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "standby", dispatch.Command{Kind: dispatch.Standby}.String())
	assert.Equal(t, "keypress(play)", dispatch.Press(cec.KeyPlay).String())
	assert.Equal(t, "kind(42)", dispatch.Kind(42).String())
}
