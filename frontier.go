package site2pdf

import (
	"sync"

	"github.com/alnah/go-site2pdf/internal/urlutil"
)

// queueItem is one pending visitation.
type queueItem struct {
	url   string
	depth int
}

// crawlFrontier owns the mutable crawl state for one discovery run: the FIFO
// queue of pending URLs, the set of URLs ever enqueued, and the content
// hashes already claimed by a visited page. All mutation happens under one
// mutex so concurrent discovery of the same URL from two parents cannot
// double-enqueue. The frontier is created per crawl and discarded when
// discovery finishes.
type crawlFrontier struct {
	mu         sync.Mutex
	queue      []queueItem
	known      map[string]bool   // dedupe key -> enqueued or visited
	seenHashes map[string]string // content hash -> canonical URL
}

func newCrawlFrontier() *crawlFrontier {
	return &crawlFrontier{
		known:      make(map[string]bool),
		seenHashes: make(map[string]string),
	}
}

// claim marks a URL as known, returning false when it already was. Every
// discovered link is claimed exactly once, before any filter runs, so a URL
// reached from several parents is judged (and counted) a single time.
func (f *crawlFrontier) claim(url string) bool {
	key := urlutil.DedupeKey(url)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.known[key] {
		return false
	}
	f.known[key] = true
	return true
}

// push appends an already-claimed URL to the queue.
func (f *crawlFrontier) push(url string, depth int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, queueItem{url: url, depth: depth})
}

// enqueue claims and queues a URL at the given depth. Marking happens at
// enqueue time, not visit time, to prevent duplicate enqueues. Returns false
// if the URL was already known.
func (f *crawlFrontier) enqueue(url string, depth int) bool {
	if !f.claim(url) {
		return false
	}
	f.push(url, depth)
	return true
}

// dequeue pops the next pending visitation in FIFO order.
func (f *crawlFrontier) dequeue() (queueItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return queueItem{}, false
	}
	item := f.queue[0]
	f.queue = f.queue[1:]
	return item, true
}

// claimHash records url as the canonical owner of hash. If the hash is
// already owned, the existing owner is returned with true: the first page
// reaching a hash wins, later pages become duplicates.
func (f *crawlFrontier) claimHash(hash, url string) (owner string, duplicate bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if existing, ok := f.seenHashes[hash]; ok {
		return existing, true
	}
	f.seenHashes[hash] = url
	return url, false
}

// pending returns the number of queued visitations.
func (f *crawlFrontier) pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// drain empties the queue and returns what was still waiting, so an early
// stop can report the URLs discovery never reached.
func (f *crawlFrontier) drain() []queueItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	remaining := f.queue
	f.queue = nil
	return remaining
}
