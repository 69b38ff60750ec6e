package config

// Vocabulary of runtime function names the safety analyzer recognizes.
// Matching is by name: the analyzer is a conservative leak detector, not a
// provenance tracker.

// AllocationFuncs register a pending heap allocation when called.
var AllocationFuncs = []string{"malloc", "alloc", "allocate"}

// ReleaseFuncs close out a pending heap allocation.
var ReleaseFuncs = []string{"free", "dealloc", "deallocate"}

// AcquireFuncs register a pending external resource.
var AcquireFuncs = []string{"open", "acquire", "socket"}

// DisposeFuncs close out a pending external resource.
var DisposeFuncs = []string{"close", "release", "dispose"}

// UnsafeFuncs are primitives that require an enclosing unsafe block.
var UnsafeFuncs = []string{"unsafe_ptr_read", "unsafe_ptr_write"}

// BlockingFuncs may block for unbounded time and are forbidden inside
// realtime functions.
var BlockingFuncs = []string{"sleep", "block_on", "lock", "join"}

// Contains reports whether name is in the vocabulary vs.
func Contains(vs []string, name string) bool {
	for _, v := range vs {
		if v == name {
			return true
		}
	}
	return false
}
