package main

import (
	"fmt"
	"os"

	ownedbuf "Owned_Buffer"
	"Owned_Buffer/alloc"
)

// Demonstrates the ownership contract: in-place mutation, duplication
// into a container, and a move that leaves the source empty.
func main() {
	pool := alloc.NewAllocator(alloc.Pool, alloc.NewOptions())

	b, err := ownedbuf.NewFromString(pool, "abc")
	if err != nil {
		fmt.Println("alloc failed:", err)
		return
	}
	b.SetAt(0, '0')
	fmt.Print("mutated: ")
	b.WriteTo(os.Stdout) // 0bc
	fmt.Println()
	b.Release()

	cache := ownedbuf.NewBufferCache(ownedbuf.DefaultCacheOptions())
	defer cache.Close()

	s, err := ownedbuf.NewFromString(pool, "hello")
	if err != nil {
		fmt.Println("alloc failed:", err)
		return
	}
	defer s.Release()

	// Copy in: the caller keeps ownership of s.
	if err := cache.PutCopy("copied", s); err != nil {
		fmt.Println("put failed:", err)
		return
	}
	// Move in: s is left empty.
	if err := cache.Put("moved", s); err != nil {
		fmt.Println("put failed:", err)
		return
	}

	for _, key := range []string{"copied", "moved"} {
		v, err := cache.Get(key)
		if err != nil {
			fmt.Println("get failed:", err)
			return
		}
		fmt.Printf("%s: %s\n", key, v) // both render hello
		v.Release()
	}
	fmt.Printf("source after move: %q (len %d)\n", s.String(), s.Len())

	fmt.Println("cache stats:", cache.Stats())
	fmt.Println("pool stats:", pool.Stats())
}
