package wasmdecode

// Arena allocates byte buffers whose lifetimes end together. Alloc
// returns a zeroed slice of length and capacity n. Implementations
// reclaim all allocations at once; individual buffers are never freed.
//
// Package arena provides the standard implementation. The interface is
// satisfied by any bump or pool allocator with the same bulk-release
// contract.
type Arena interface {
	Alloc(n int) []byte
}
