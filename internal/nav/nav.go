// Package nav tracks the navigation bar state.
package nav

import "strings"

const DefaultThreshold = 10

type Link struct {
	Label string
	Href  string
}

// Target returns the anchor id a link points at
func (l Link) Target() string {
	return strings.TrimPrefix(l.Href, "#")
}

// ScrollLock blocks document scrolling while any holder keeps it.
// Each Acquire returns its own release func; releasing twice is a no-op.
type ScrollLock struct {
	holders int
}

func (l *ScrollLock) Acquire() (release func()) {
	l.holders++
	released := false
	return func() {
		if released {
			return
		}
		released = true
		l.holders--
	}
}

func (l *ScrollLock) Held() bool { return l.holders > 0 }

// Navbar is the fixed top bar with its mobile menu
type Navbar struct {
	Threshold float64
	Links     []Link
	CTA       Link

	lock     *ScrollLock
	release  func()
	scrolled bool
	open     bool
}

func New(threshold float64, links []Link, cta Link, lock *ScrollLock) *Navbar {
	if lock == nil {
		lock = &ScrollLock{}
	}
	return &Navbar{Threshold: threshold, Links: links, CTA: cta, lock: lock}
}

// Update records the scroll position and reports a change of the scrolled state
func (n *Navbar) Update(scrollY float64) bool {
	scrolled := scrollY > n.Threshold
	changed := scrolled != n.scrolled
	n.scrolled = scrolled
	return changed
}

func (n *Navbar) ToggleMenu() {
	if n.open {
		n.CloseMenu()
		return
	}
	n.open = true
	n.release = n.lock.Acquire()
}

func (n *Navbar) CloseMenu() {
	n.open = false
	if n.release != nil {
		n.release()
		n.release = nil
	}
}

// Click follows a link: the menu closes and the anchor id is returned
func (n *Navbar) Click(l Link) string {
	n.CloseMenu()
	return l.Target()
}

// Teardown releases anything the bar holds
func (n *Navbar) Teardown() { n.CloseMenu() }

func (n *Navbar) Scrolled() bool { return n.scrolled }
func (n *Navbar) MenuOpen() bool { return n.open }
func (n *Navbar) Lock() *ScrollLock { return n.lock }
