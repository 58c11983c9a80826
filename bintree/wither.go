package bintree

import (
	"context"

	"github.com/guiguan/caster"

	"github.com/jbrowse-go/bintree/tree"
)

// witherPipeline is a single goroutine consuming a FIFO request channel,
// the Go-idiomatic rendering of the teacher's single-writer future chain
// (btree's path-copy inserts serialize through one owner; here generation
// advances and wither passes serialize through one goroutine instead).
// Completion is broadcast with guiguan/caster, grounded on
// textfile.Load's use of caster.New(nil) / cast.Pub to announce
// asynchronous background completion to any number of listeners without
// the producer blocking on subscriber presence.
type witherPipeline struct {
	it   *IntervalTree
	reqs chan witherRequest
	cast *caster.Caster
}

type witherRequest struct {
	wither bool
	done   chan struct{}
}

func newWitherPipeline(it *IntervalTree) *witherPipeline {
	wp := &witherPipeline{
		it:   it,
		reqs: make(chan witherRequest, 64),
		cast: caster.New(nil),
	}
	go wp.run()
	return wp
}

func (wp *witherPipeline) run() {
	for req := range wp.reqs {
		wp.it.mu.Lock()
		wp.it.gen++
		gen := wp.it.gen
		var indices []*tree.Index
		if req.wither {
			indices = make([]*tree.Index, 0, len(wp.it.indices))
			for _, idx := range wp.it.indices {
				indices = append(indices, idx)
			}
		}
		wp.it.mu.Unlock()

		for _, idx := range indices {
			idx.Wither(gen)
		}
		if req.wither {
			T().Debugf("bintree: wither pass at generation %d over %d chromosome(s)", gen, len(indices))
		}
		wp.cast.Pub(gen)
		if req.done != nil {
			close(req.done)
		}
	}
}

func (wp *witherPipeline) submit(wither, wait bool) {
	req := witherRequest{wither: wither}
	if wait {
		req.done = make(chan struct{})
	}
	wp.reqs <- req
	if wait {
		<-req.done
	}
}

// AdvanceGen bumps the generation counter without a wither pass, so a later
// wither pass can tell which subtrees were touched since. Traverse advances
// the counter through the same path when no pipeline is running.
// When the tree was built with LifeSpan == 0 there is no pipeline running,
// so the counter is advanced synchronously instead. wait blocks the caller
// until the pipeline has actually applied this request — production
// callers fire-and-forget (wait=false); tests that need to assert tree
// shape right after a pass pass wait=true.
func (it *IntervalTree) AdvanceGen(wait bool) {
	if it.wither == nil {
		it.mu.Lock()
		it.gen++
		it.mu.Unlock()
		return
	}
	it.wither.submit(false, wait)
}

// Wither requests an out-of-band wither pass over every registered
// chromosome, beyond the one each Traverse schedules, for callers
// (and tests) that want to force eviction without waiting on traffic. It is
// a no-op when the tree was built with LifeSpan == 0.
func (it *IntervalTree) Wither(wait bool) {
	if it.wither == nil {
		return
	}
	it.wither.submit(true, wait)
}

// Subscribe returns a channel of generation numbers completed by the wither
// pipeline, for callers that want to wait deterministically for a pass
// instead of polling. ok is false when the tree has no pipeline running
// (LifeSpan == 0).
func (it *IntervalTree) Subscribe() (ch <-chan interface{}, unsub func(), ok bool) {
	if it.wither == nil {
		return nil, nil, false
	}
	subCh, ok := it.wither.cast.Sub(context.Background(), 0)
	if !ok {
		return nil, nil, false
	}
	return subCh, func() { it.wither.cast.Unsub(subCh) }, true
}
