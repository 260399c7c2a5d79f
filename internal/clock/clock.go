// Package clock abstracts timers so session logic can run against a fake clock.
package clock

import (
	"sort"
	"time"
)

type Timer interface {
	Stop() bool
}

// Scheduler schedules callbacks. Implementations decide which goroutine runs fn.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
	Now() time.Time
}

// Loop is a real-time Scheduler that hands expired callbacks to post, so they run
// on the goroutine that owns the state they touch.
type Loop struct {
	post func(func())
}

func NewLoop(post func(func())) *Loop {
	return &Loop{post: post}
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, func() { l.post(fn) })
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// Fake is a manually advanced Scheduler for tests. Callbacks run synchronously
// inside Advance. It is not safe for concurrent use.
type Fake struct {
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.seq++
	t := &fakeTimer{at: f.now.Add(d), seq: f.seq, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due callbacks in time order.
// Callbacks scheduled while advancing fire too if they fall inside the window.
func (f *Fake) Advance(d time.Duration) {
	target := f.now.Add(d)
	for {
		next := f.nextDue(target)
		if next == nil {
			break
		}
		f.now = next.at
		next.fired = true
		next.fn()
	}
	f.now = target
	f.compact()
}

// Pending counts timers that have neither fired nor been stopped.
func (f *Fake) Pending() int {
	n := 0
	for _, t := range f.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (f *Fake) nextDue(target time.Time) *fakeTimer {
	var due []*fakeTimer
	for _, t := range f.timers {
		if !t.fired && !t.stopped && !t.at.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})
	return due[0]
}

func (f *Fake) compact() {
	live := f.timers[:0]
	for _, t := range f.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	f.timers = live
}
