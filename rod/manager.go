package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/pageqa"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// LaunchFunc starts a browser and returns it with a function that shuts it
// down.
type LaunchFunc func() (*rod.Browser, func() error, error)

// generation is one launched browser and the pages currently open on it.
type generation struct {
	browser  *rod.Browser
	shutdown func() error
	inFlight int
	retired  bool
	stopped  bool
}

// stop shuts the browser down once.
func (g *generation) stop() error {
	if g.stopped {
		return nil
	}
	g.stopped = true
	return g.shutdown()
}

// BrowserManager owns the headless Chrome process shared by all fetches.
// Chrome's memory grows with every page it renders, so the browser is
// replaced with a fresh one after maxPages pages. A replaced browser stays
// up until the last page opened on it is released.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	launch   LaunchFunc
	maxPages int64

	mu      sync.Mutex
	current *generation
	pages   int64
	closed  bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the number of pages after which the browser is
// recycled. Defaults to DefaultMaxPages.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithLauncher replaces the function that starts browsers. Defaults to
// launching headless Chrome.
func WithLauncher(launch LaunchFunc) ManagerOption {
	return func(bm *BrowserManager) {
		bm.launch = launch
	}
}

// NewBrowserManager launches a headless Chrome browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		launch:   launchChrome,
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(bm)
	}

	g, err := bm.start()
	if err != nil {
		return nil, err
	}
	bm.current = g

	return bm, nil
}

// Acquire returns the browser to open one page on, first replacing the
// current browser if it has served maxPages pages. The returned release
// function must be called once the page is closed. Returns EFETCH once the
// manager is closed.
func (bm *BrowserManager) Acquire() (*rod.Browser, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed || bm.current == nil {
		return nil, nil, pageqa.Errorf(pageqa.EFETCH, "browser is closed")
	}

	if bm.pages >= bm.maxPages {
		bm.recycle()
	}

	g := bm.current
	g.inFlight++
	bm.pages++

	var once sync.Once
	release := func() {
		once.Do(func() { bm.release(g) })
	}
	return g.browser, release, nil
}

// Close shuts the current browser down. Pages still open on it fail;
// browsers already replaced shut down when their last page is released.
// It is safe to call more than once.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	g := bm.current
	bm.current = nil
	if g == nil {
		return nil
	}
	g.retired = true
	return g.stop()
}

func (bm *BrowserManager) start() (*generation, error) {
	browser, shutdown, err := bm.launch()
	if err != nil {
		return nil, err
	}
	return &generation{browser: browser, shutdown: shutdown}, nil
}

// recycle swaps in a fresh browser. The old one is kept if the new one
// fails to launch, and is shut down now only if no page is open on it.
// Must be called with mu held.
func (bm *BrowserManager) recycle() {
	next, err := bm.start()
	if err != nil {
		return
	}

	old := bm.current
	bm.current = next
	bm.pages = 0

	old.retired = true
	if old.inFlight == 0 {
		_ = old.stop()
	}
}

func (bm *BrowserManager) release(g *generation) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	g.inFlight--
	if g.retired && g.inFlight == 0 {
		_ = g.stop()
	}
}

func launchChrome() (*rod.Browser, func() error, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connecting to browser: %w", err)
	}

	shutdown := func() error {
		err := browser.Close()
		l.Kill()
		return err
	}
	return browser, shutdown, nil
}
