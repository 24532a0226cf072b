package common

import (
	"os"
	"strconv"
)

// TempTracker hands out uniquely-named temporary file paths scoped to one
// sort invocation and removes them all on release. It replaces the
// original implementation's raw parallel-vector bookkeeping (spec.md §9)
// with a single owned list per sort invocation: each Sort call creates
// one TempTracker and allocates every temp file of that sort through it.
// Each level deletes and forgets its own temp files once they are
// consumed; the deferred Release in Sort removes whatever is still
// tracked, on the normal and the error path alike.
type TempTracker struct {
	prefix  string
	counter int64
	names   []string
}

// NewTempTracker scopes temp file names under outputPath as a prefix, so
// that two sorter instances writing to different outputs never collide.
func NewTempTracker(outputPath string) *TempTracker {
	return &TempTracker{prefix: outputPath}
}

// New allocates a new temp file name of the given kind (e.g. "temp",
// "sorted", "part", "merged") using a monotonic counter, and tracks it
// for later release. It does not create the file.
func (t *TempTracker) New(kind string) string {
	name := t.prefix + "." + kind + strconv.FormatInt(t.counter, 10)
	t.counter++
	t.names = append(t.names, name)
	return name
}

// MergedName allocates a name in the "merged_K" form used for k-way
// merge output at each level, without going through New's "merged" + N
// concatenation (kept distinct so callers can tell intermediate merge
// files apart from split/partition temp files in a directory listing).
func (t *TempTracker) MergedName() string {
	name := t.prefix + ".merged_" + strconv.FormatInt(t.counter, 10)
	t.counter++
	t.names = append(t.names, name)
	return name
}

// Forget removes a single name from the tracked list without deleting
// the file, for the case where ownership of that file is handed off
// (e.g. the last surviving sorted file is renamed into the final output
// rather than deleted).
func (t *TempTracker) Forget(name string) {
	for i, n := range t.names {
		if n == name {
			t.names = append(t.names[:i], t.names[i+1:]...)
			return
		}
	}
}

// Release deletes every tracked temp file. Safe to call multiple times;
// missing files are ignored. Callers must close any open handle on a
// temp file before calling Release, since deletion must follow close for
// portability across filesystems (spec.md §5).
func (t *TempTracker) Release() {
	for _, n := range t.names {
		os.Remove(n)
	}
	t.names = t.names[:0]
}

