package rod_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/fwojciec/pageqa"
	"github.com/fwojciec/pageqa/rod"
	gorod "github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLauncher hands out unconnected browsers and records which were shut
// down.
type fakeLauncher struct {
	mu       sync.Mutex
	launched []*gorod.Browser
	stopped  map[*gorod.Browser]int
	fail     bool
}

func (l *fakeLauncher) launch() (*gorod.Browser, func() error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fail {
		return nil, nil, errors.New("no chrome")
	}
	b := gorod.New()
	l.launched = append(l.launched, b)
	return b, func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.stopped == nil {
			l.stopped = make(map[*gorod.Browser]int)
		}
		l.stopped[b]++
		return nil
	}, nil
}

func (l *fakeLauncher) stops(b *gorod.Browser) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped[b]
}

func newManager(t *testing.T, l *fakeLauncher, maxPages int64) *rod.BrowserManager {
	t.Helper()
	m, err := rod.NewBrowserManager(rod.WithLauncher(l.launch), rod.WithMaxPages(maxPages))
	require.NoError(t, err)
	return m
}

func TestBrowserManager_RecyclesAfterMaxPages(t *testing.T) {
	t.Parallel()

	l := &fakeLauncher{}
	m := newManager(t, l, 2)
	defer m.Close()

	first, release1, err := m.Acquire()
	require.NoError(t, err)
	release1()

	same, release2, err := m.Acquire()
	require.NoError(t, err)
	assert.Same(t, first, same)
	release2()

	second, release3, err := m.Acquire()
	require.NoError(t, err)
	defer release3()

	assert.NotSame(t, first, second)
	assert.Equal(t, 1, l.stops(first))
	assert.Zero(t, l.stops(second))
}

func TestBrowserManager_KeepsReplacedBrowserUntilPagesRelease(t *testing.T) {
	t.Parallel()

	l := &fakeLauncher{}
	m := newManager(t, l, 2)
	defer m.Close()

	first, releaseA, err := m.Acquire()
	require.NoError(t, err)
	_, releaseB, err := m.Acquire()
	require.NoError(t, err)
	releaseB()

	// A page is still open on the first browser when it is replaced.
	second, releaseC, err := m.Acquire()
	require.NoError(t, err)
	require.NotSame(t, first, second)
	assert.Zero(t, l.stops(first))

	releaseA()
	assert.Equal(t, 1, l.stops(first))

	releaseA()
	assert.Equal(t, 1, l.stops(first), "release is idempotent")

	releaseC()
	assert.Zero(t, l.stops(second))
}

func TestBrowserManager_ConcurrentAcquireNeverStopsBusyBrowser(t *testing.T) {
	t.Parallel()

	l := &fakeLauncher{}
	m := newManager(t, l, 3)
	defer m.Close()

	var wg sync.WaitGroup
	for range 40 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, release, err := m.Acquire()
			if !assert.NoError(t, err) {
				return
			}
			assert.Zero(t, l.stops(b), "browser stopped while a page was open")
			release()
		}()
	}
	wg.Wait()
}

func TestBrowserManager_KeepsOldBrowserWhenRelaunchFails(t *testing.T) {
	t.Parallel()

	l := &fakeLauncher{}
	m := newManager(t, l, 1)
	defer m.Close()

	first, release, err := m.Acquire()
	require.NoError(t, err)
	release()

	l.mu.Lock()
	l.fail = true
	l.mu.Unlock()

	same, release, err := m.Acquire()
	require.NoError(t, err)
	defer release()
	assert.Same(t, first, same)
	assert.Zero(t, l.stops(first))
}

func TestBrowserManager_Close(t *testing.T) {
	t.Parallel()

	l := &fakeLauncher{}
	m := newManager(t, l, 10)

	b, release, err := m.Acquire()
	require.NoError(t, err)
	release()

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Equal(t, 1, l.stops(b))

	_, _, err = m.Acquire()
	require.Error(t, err)
	assert.Equal(t, pageqa.EFETCH, pageqa.ErrorCode(err))
}

func TestNewBrowserManager_LaunchFailure(t *testing.T) {
	t.Parallel()

	_, err := rod.NewBrowserManager(rod.WithLauncher((&fakeLauncher{fail: true}).launch))

	require.Error(t, err)
}
