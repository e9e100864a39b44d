//
// Copyright (C) 2024 Charles E. Vejnar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://www.mozilla.org/MPL/2.0/.
//

package main

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"git.sr.ht/~vejnar/TeloBP/lib/boundary"
	"git.sr.ht/~vejnar/TeloBP/lib/fastx"
	"git.sr.ht/~vejnar/TeloBP/lib/graph"
	"git.sr.ht/~vejnar/TeloBP/lib/strand"
)

const batchLength = 10

// item is a record and the results computed on it by a worker.
type item struct {
	Record  *fastx.Record
	Hint    strand.Call
	Results []boundary.Result
	Graph   *graph.Collector
}

type batch struct {
	ID    uint64
	Items []*item
}

// runPipeline reads items with next, processes them with nWorker goroutines and
// emits them in input order. It returns the number of items read.
func runPipeline(next func() (*item, error), nWorker int, process func(*item), emit func(*item) error) (nRecord uint64, err error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	// Start sync errgroup
	g, gctx := errgroup.WithContext(ctx)

	chBatch := make(chan *batch, nWorker*10)
	chFinal := make(chan *batch, nWorker*10)

	// Read
	g.Go(func() error {
		defer close(chBatch)
		b := &batch{}
		for {
			it, err := next()
			if err == io.EOF {
				break
			} else if err != nil {
				return err
			}
			b.Items = append(b.Items, it)
			nRecord++
			if len(b.Items) == batchLength {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case chBatch <- b:
				}
				b = &batch{ID: b.ID + 1}
			}
		}
		// Send last batch
		if len(b.Items) > 0 {
			select {
			case <-gctx.Done():
				return gctx.Err()
			case chBatch <- b:
			}
		}
		return nil
	})

	// Spawn worker goroutine(s)
	g.Go(func() error {
		defer close(chFinal)
		wg, wgctx := errgroup.WithContext(gctx)
		for i := 0; i < max(1, nWorker); i++ {
			wg.Go(func() error {
				for b := range chBatch {
					for _, it := range b.Items {
						process(it)
					}
					select {
					case <-wgctx.Done():
						return wgctx.Err()
					case chFinal <- b:
					}
				}
				return nil
			})
		}
		return wg.Wait()
	})

	// Emit in input order
	pending := make(map[uint64]*batch)
	var nextID uint64
	var emitErr error
	for b := range chFinal {
		if emitErr != nil {
			continue
		}
		pending[b.ID] = b
		for {
			nb, ok := pending[nextID]
			if !ok {
				break
			}
			delete(pending, nextID)
			for _, it := range nb.Items {
				if emitErr = emit(it); emitErr != nil {
					cancel()
					break
				}
			}
			nextID++
			if emitErr != nil {
				break
			}
		}
	}

	err = g.Wait()
	if emitErr != nil {
		return nRecord, emitErr
	}
	return nRecord, err
}
