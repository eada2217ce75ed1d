// File: loop/stat.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Asynchronous stat dispatch: the blocking syscall runs on a runtime.StatPool
// worker goroutine (adapted from the teacher's executor design) and the
// result is handed back to the loop thread through postTask, preserving the
// "callbacks only run on the loop thread" rule of spec.md §5.

package loop

// StatRequest is the in-flight slot for a single asynchronous stat. At most
// one request may be outstanding per slot, matching spec.md §3's PollContext
// invariant; fspoll enforces this by never reusing a slot until its
// callback has fired.
type StatRequest struct {
	loop *Loop
	path string
	cb   func(req *StatRequest, snap StatSnapshot, err error)
}

// FsStat dispatches an asynchronous stat of path. cb is invoked on the loop
// thread exactly once, with either a populated StatSnapshot and nil err, or
// a zero StatSnapshot and non-nil err.
func (l *Loop) FsStat(req *StatRequest, path string, cb func(req *StatRequest, snap StatSnapshot, err error)) error {
	req.loop = l
	req.path = path
	req.cb = cb
	err := l.statPool.Submit(func() {
		snap, statErr := platformStat(path)
		l.postTask(func() {
			req.cb(req, snap, statErr)
		})
	})
	return err
}
