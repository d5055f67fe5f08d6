package fifo_test

import (
	"testing"
	"time"

	"github.com/AIS-Hub/AISHub/internal/fifo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopOrder(t *testing.T) {
	f := fifo.New(4, 16)
	require.True(t, f.Push([]byte("one"), 0, time.Now(), false))
	require.True(t, f.Push([]byte("two"), 1, time.Now(), false))

	require.True(t, f.Wait())
	b, ok := f.Front()
	require.True(t, ok)
	assert.Equal(t, "one", string(b.Data))
	f.Pop(1)

	b, ok = f.Front()
	require.True(t, ok)
	assert.Equal(t, "two", string(b.Data))
}

func TestPushNonBlockingOverrun(t *testing.T) {
	f := fifo.New(1, 16)
	require.True(t, f.Push([]byte("a"), 0, time.Now(), false))
	require.False(t, f.Push([]byte("b"), 1, time.Now(), false))
	assert.Equal(t, int64(1), f.Overruns())
}

func TestHaltUnblocksWaiters(t *testing.T) {
	f := fifo.New(2, 16)
	done := make(chan bool, 1)
	go func() {
		done <- f.Wait()
	}()
	time.Sleep(20 * time.Millisecond)
	f.Halt()
	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after Halt")
	}
	assert.True(t, f.Halted())
	assert.False(t, f.Push([]byte("x"), 0, time.Now(), true))
}

func TestWaitTimesOutWhenEmpty(t *testing.T) {
	f := fifo.New(2, 16)
	start := time.Now()
	ok := waitWithShortTimeout(f)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func waitWithShortTimeout(f *fifo.SampleFIFO) bool {
	result := make(chan bool, 1)
	go func() { result <- f.Wait() }()
	select {
	case ok := <-result:
		return ok
	case <-time.After(2 * time.Second):
		f.Halt()
		return false
	}
}
