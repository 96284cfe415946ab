/*
File: executor_test.go
Description: Tests for the in-process executor and the built-in targets.
Covers panic-to-crash conversion, error-to-crash conversion, timeout
classification, context cancellation, signal collection, and latency
measurement.
*/

package execution

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adaptixlabs/adaptix-fuzzer/pkg/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTarget is a configurable test double.
type fakeTarget struct {
	name string
	run  func(data []byte, trace func(string)) error
}

func (t *fakeTarget) Name() string { return t.name }

func (t *fakeTarget) Run(data []byte, trace func(string)) error {
	return t.run(data, trace)
}

// TestNewInProcessExecutor verifies constructor validation and defaults.
func TestNewInProcessExecutor(t *testing.T) {
	_, err := NewInProcessExecutor(nil, time.Second)
	assert.Error(t, err)

	e, err := NewInProcessExecutor(NewCodecTarget(), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, e.timeout)
}

// TestExecuteSuccess verifies the success path collects signals and latency.
func TestExecuteSuccess(t *testing.T) {
	target := &fakeTarget{
		name: "ok",
		run: func(_ []byte, trace func(string)) error {
			trace("path:a")
			trace("path:a")
			trace("path:b")
			return nil
		},
	}
	e, err := NewInProcessExecutor(target, time.Second)
	require.NoError(t, err)

	result, err := e.Execute(context.Background(), []byte{1})
	require.NoError(t, err)

	assert.Equal(t, interfaces.StatusSuccess, result.Status)
	assert.Equal(t, uint64(2), result.Signals["path:a"])
	assert.Equal(t, uint64(1), result.Signals["path:b"])
	assert.GreaterOrEqual(t, result.LatencyMs, 0.0)
	assert.Nil(t, result.CrashInfo)
}

// TestExecutePanicBecomesCrash verifies a target panic is reported as a crash
// with message and stack trace, not propagated.
func TestExecutePanicBecomesCrash(t *testing.T) {
	target := &fakeTarget{
		name: "panicky",
		run: func(_ []byte, _ func(string)) error {
			panic("index out of range")
		},
	}
	e, err := NewInProcessExecutor(target, time.Second)
	require.NoError(t, err)

	result, err := e.Execute(context.Background(), []byte{1})
	require.NoError(t, err)

	assert.Equal(t, interfaces.StatusCrash, result.Status)
	require.NotNil(t, result.CrashInfo)
	assert.Contains(t, result.CrashInfo.Message, "index out of range")
	assert.NotEmpty(t, result.CrashInfo.StackTrace)
}

// TestExecuteErrorBecomesCrash verifies a returned error is classified as a
// crash with the error text as message.
func TestExecuteErrorBecomesCrash(t *testing.T) {
	target := &fakeTarget{
		name: "failing",
		run: func(_ []byte, _ func(string)) error {
			return errors.New("invariant violated")
		},
	}
	e, err := NewInProcessExecutor(target, time.Second)
	require.NoError(t, err)

	result, err := e.Execute(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, interfaces.StatusCrash, result.Status)
	require.NotNil(t, result.CrashInfo)
	assert.Equal(t, "invariant violated", result.CrashInfo.Message)
}

// TestExecuteTimeout verifies a hung target is classified as a timeout.
func TestExecuteTimeout(t *testing.T) {
	target := &fakeTarget{
		name: "hung",
		run: func(_ []byte, _ func(string)) error {
			time.Sleep(500 * time.Millisecond)
			return nil
		},
	}
	e, err := NewInProcessExecutor(target, 20*time.Millisecond)
	require.NoError(t, err)

	result, err := e.Execute(context.Background(), []byte{1})
	require.NoError(t, err)
	assert.Equal(t, interfaces.StatusTimeout, result.Status)
}

// TestExecuteTimeoutSignalsAreStable verifies the signal map returned on the
// timeout path is a stable copy: a target still tracing after classification
// must not be able to mutate what the caller iterates.
func TestExecuteTimeoutSignalsAreStable(t *testing.T) {
	stop := make(chan struct{})
	target := &fakeTarget{
		name: "chatty",
		run: func(_ []byte, trace func(string)) error {
			for {
				select {
				case <-stop:
					return nil
				default:
					trace("chatty:tick")
				}
			}
		},
	}
	e, err := NewInProcessExecutor(target, 20*time.Millisecond)
	require.NoError(t, err)

	result, err := e.Execute(context.Background(), []byte{1})
	require.NoError(t, err)
	require.Equal(t, interfaces.StatusTimeout, result.Status)

	// The orphaned goroutine is still tracing; reading and writing the
	// returned map must be safe regardless.
	total := uint64(0)
	for signal, count := range result.Signals {
		total += count
		result.Signals[signal] = 0
	}
	assert.Greater(t, total, uint64(0))

	close(stop)
}

// TestExecuteContextCancelled verifies cancellation surfaces the context
// error alongside a timeout status.
func TestExecuteContextCancelled(t *testing.T) {
	target := &fakeTarget{
		name: "slow",
		run: func(_ []byte, _ func(string)) error {
			time.Sleep(500 * time.Millisecond)
			return nil
		},
	}
	e, err := NewInProcessExecutor(target, time.Second)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	result, err := e.Execute(ctx, []byte{1})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, interfaces.StatusTimeout, result.Status)
}

// TestCodecTarget walks the codec target through its signal paths.
func TestCodecTarget(t *testing.T) {
	target := NewCodecTarget()
	assert.Equal(t, "codec-roundtrip", target.Name())

	collect := func(data []byte) (map[string]int, error) {
		signals := map[string]int{}
		err := target.Run(data, func(s string) { signals[s]++ })
		return signals, err
	}

	// Empty input.
	signals, err := collect(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, signals["codec:empty"])

	// Well-formed record: marker 2, two payload bytes.
	signals, err = collect([]byte{0x02, 0xAA, 0xBB})
	require.NoError(t, err)
	assert.Equal(t, 1, signals["codec:marker_ok"])
	assert.Equal(t, 1, signals["codec:decoded"])
	assert.Equal(t, 1, signals["codec:roundtrip_ok"])

	// Declared length exceeds the buffer.
	signals, err = collect([]byte{0x09, 0x01})
	require.NoError(t, err)
	assert.Equal(t, 1, signals["codec:length_overrun"])

	// Trailing bytes past the field.
	signals, err = collect([]byte{0x01, 0xAA, 0xFF, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, 1, signals["codec:trailing_bytes"])

	// Incomplete varint marker.
	signals, err = collect([]byte{0xFF})
	require.NoError(t, err)
	assert.Equal(t, 1, signals["codec:bad_marker"])
}

// TestCodecTargetRoundTripMismatch verifies a non-minimal varint encoding is
// reported as a crash-class error.
func TestCodecTargetRoundTripMismatch(t *testing.T) {
	target := NewCodecTarget()

	// 0x81 0x00 is an overlong encoding of 1: re-encoding produces 0x01, so
	// the round trip cannot match.
	signals := map[string]int{}
	err := target.Run([]byte{0x81, 0x00, 0xAA}, func(s string) { signals[s]++ })
	require.Error(t, err)
	assert.Equal(t, 1, signals["codec:roundtrip_mismatch"])
}

// TestCacheTarget drives the cache target through puts, hits, misses,
// deletes, and eviction.
func TestCacheTarget(t *testing.T) {
	target := NewCacheTarget(2)
	assert.Equal(t, "lru-cache", target.Name())

	signals := map[string]int{}
	trace := func(s string) { signals[s]++ }

	// put k1, put k2, put k3 (evicts k1), get k1 (miss), get k3 (hit),
	// delete k2, delete k2 (miss). Ops: byte%3 -> 0=put, 1=get, 2=delete.
	ops := []byte{
		0, 1, // put 1
		0, 2, // put 2
		0, 3, // put 3, evicts 1
		1, 1, // get 1: miss
		1, 3, // get 3: hit
		2, 2, // delete 2
		2, 2, // delete 2: miss
	}
	require.NoError(t, target.Run(ops, trace))

	assert.Equal(t, 3, signals["cache:put"])
	assert.Equal(t, 1, signals["cache:evict"])
	assert.Equal(t, 1, signals["cache:get_miss"])
	assert.Equal(t, 1, signals["cache:get_hit"])
	assert.Equal(t, 1, signals["cache:delete"])
	assert.Equal(t, 1, signals["cache:delete_miss"])
	assert.Equal(t, 1, signals["cache:consistent"])

	// Empty input.
	signals = map[string]int{}
	require.NoError(t, target.Run(nil, trace))
	assert.Equal(t, 1, signals["cache:empty"])
}
