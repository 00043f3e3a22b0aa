package koref

import (
	"path/filepath"
	"sync"
	"testing"
)

var (
	fixtureMu    sync.Mutex
	fixtureCache = map[string]map[string]*Document{}
)

// fixture returns the document with the given newdoc id from testdata/file.
func fixture(t *testing.T, file, id string) *Document {
	t.Helper()
	fixtureMu.Lock()
	defer fixtureMu.Unlock()
	docs, ok := fixtureCache[file]
	if !ok {
		path := filepath.Join("testdata", file)
		list, err := ReadCoNLLUFile(path)
		if err != nil {
			t.Fatalf("ReadCoNLLUFile(%q): %v", path, err)
		}
		docs = make(map[string]*Document, len(list))
		for _, d := range list {
			docs[d.ID] = d
		}
		fixtureCache[file] = docs
	}
	d, ok := docs[id]
	if !ok {
		t.Fatalf("%s: no document %q", file, id)
	}
	return d
}

// analyze returns a fresh Analysis of the fixture document.
func analyze(t *testing.T, file, id string) *Analysis {
	t.Helper()
	return New().Analyze(fixture(t, file, id))
}

func indexes(ts []*Token) []int {
	out := make([]int, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Index)
	}
	return out
}
