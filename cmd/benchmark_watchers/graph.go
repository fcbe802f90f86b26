package main

import (
	"encoding/binary"
	"math"
	"math/rand"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"github.com/delaneyj/reactivity/observer"
	"github.com/delaneyj/reactivity/watcher"
)

type benchmarkTestConfig struct {
	name           string  // friendly name for the test, should be unique
	width          int64   // width of dependency graph to construct
	totalLayers    int64   // depth of dependency graph to construct
	staticFraction float64 // fraction of nodes that always read all their sources
	nSources       int64   // construct a graph with number of sources in each node
	readFraction   float64 // fraction of [0, 1] elements in the last layer from which to read values in each test iteration
	iterations     int64   // number of test iterations
}

// node is anything in the graph that yields an int: a reactive key of the
// source object or a computed.
type node func() int

type benchmarkGraph struct {
	sources *observer.Object
	keys    []string
	layers  [][]node
}

func (g *benchmarkGraph) write(i, v int) {
	g.sources.Put(g.keys[i], v)
}

type benchmarkMakeGraphConfig struct {
	counter                      *int64
	width, totalLayers, nSources int64
	staticFraction               float64
}

func benchmarkMakeGraph(cfg *benchmarkMakeGraphConfig) *benchmarkGraph {
	sys := observer.NewSystem(observer.Config{Production: true})
	g := &benchmarkGraph{
		sources: observer.NewObject(),
		keys:    make([]string, cfg.width),
	}
	sources := make([]node, cfg.width)
	for i := range sources {
		key := "s" + strconv.Itoa(i)
		g.keys[i] = key
		g.sources.Put(key, i)
		sources[i] = func() int {
			return g.sources.Get(key).(int)
		}
	}
	sys.Observe(g.sources, false)

	g.layers = makeBenchmarkDependentRows(&benchmarkMakeDependentRowsConfig{
		sys:            sys,
		sources:        sources,
		numRows:        cfg.totalLayers - 1,
		counter:        cfg.counter,
		staticFraction: cfg.staticFraction,
		nSources:       cfg.nSources,
	})
	return g
}

type benchmarkRunGraphConfig struct {
	graph        *benchmarkGraph
	iteration    int64
	readFraction float64
}

// benchmarkRunGraph writes one source per iteration and reads some or all
// of the leaves. It returns the final sum of the read leaves and a digest
// of every leaf value read along the way.
func benchmarkRunGraph(cfg *benchmarkRunGraphConfig) (int, uint64) {
	random := rand.New(rand.NewSource(0))
	leaves := cfg.graph.layers[len(cfg.graph.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - cfg.readFraction)))
	readLeaves := benchmarkRemoveElems(leaves, skipCount, random)

	d := xxhash.New()
	var buf [8]byte
	for i := 0; i < int(cfg.iteration); i++ {
		sourceDex := i % len(cfg.graph.keys)
		cfg.graph.write(sourceDex, i+sourceDex)

		for _, leaf := range readLeaves {
			binary.LittleEndian.PutUint64(buf[:], uint64(leaf()))
			d.Write(buf[:])
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		sum += leaf()
	}
	return sum, d.Sum64()
}

func benchmarkRemoveElems[T any](src []T, rmCount int, rand *rand.Rand) []T {
	copyWithRemovals := make([]T, len(src))
	copy(copyWithRemovals, src)
	for i := 0; i < rmCount; i++ {
		rmDex := rand.Intn(len(copyWithRemovals))
		copyWithRemovals[rmDex] = copyWithRemovals[len(copyWithRemovals)-1]
		copyWithRemovals = copyWithRemovals[:len(copyWithRemovals)-1]
	}
	return copyWithRemovals
}

type benchmarkMakeDependentRowsConfig struct {
	sys               *observer.System
	sources           []node
	numRows, nSources int64
	counter           *int64
	staticFraction    float64
}

func makeBenchmarkDependentRows(cfg *benchmarkMakeDependentRowsConfig) [][]node {
	prevRow := cfg.sources
	random := rand.New(rand.NewSource(0))
	rows := make([][]node, cfg.numRows)
	for l := range rows {
		rows[l] = makeBenchmarkRow(&benchmarkRowConfig{
			sys:            cfg.sys,
			sources:        prevRow,
			counter:        cfg.counter,
			staticFraction: cfg.staticFraction,
			nSources:       cfg.nSources,
			rand:           random,
		})
		prevRow = rows[l]
	}
	return rows
}

type benchmarkRowConfig struct {
	sys            *observer.System
	sources        []node
	counter        *int64
	staticFraction float64
	nSources       int64
	rand           *rand.Rand
}

func makeBenchmarkRow(cfg *benchmarkRowConfig) []node {
	row := make([]node, len(cfg.sources))
	for myDex := range cfg.sources {
		mySources := make([]node, 0, cfg.nSources)
		for sourceDex := 0; sourceDex < int(cfg.nSources); sourceDex++ {
			mySources = append(mySources, cfg.sources[(myDex+sourceDex)%len(cfg.sources)])
		}

		var c *watcher.Computed
		if cfg.rand.Float64() < cfg.staticFraction {
			c = watcher.NewComputed(cfg.sys, func() any {
				*cfg.counter++
				sum := 0
				for _, source := range mySources {
					sum += source()
				}
				return sum
			})
		} else {
			first := mySources[0]
			tail := mySources[1:]
			c = watcher.NewComputed(cfg.sys, func() any {
				*cfg.counter++
				sum := first()
				shouldDrop := sum&0x1 > 0
				dropDex := sum % len(tail)

				for i := 0; i < len(tail); i++ {
					if shouldDrop && i == dropDex {
						continue
					}
					sum += tail[i]()
				}
				return sum
			})
		}
		row[myDex] = func() int {
			return c.Value().(int)
		}
	}
	return row
}
