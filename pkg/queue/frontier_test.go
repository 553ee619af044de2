package queue

import (
	"fmt"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sriram-PR/bizdna/pkg/models"
)

func add(f *Frontier, rawURL string, depth int) {
	u, _ := url.Parse(rawURL)
	f.Add(&models.WorkItem{URL: rawURL, Depth: depth}, u.Path)
}

func drain(f *Frontier) []string {
	var out []string
	for {
		item, ok := f.Pop()
		if !ok {
			return out
		}
		out = append(out, item.URL)
	}
}

func TestFrontier_EmptyPop(t *testing.T) {
	f := NewFrontier(nil)
	item, ok := f.Pop()
	assert.False(t, ok)
	assert.Nil(t, item)
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_PriorityPathsFirst(t *testing.T) {
	f := NewFrontier([]string{"/about", "/services", "/CONTACT"})

	add(f, "https://acme.test/blog/post-1", 1)
	add(f, "https://acme.test/about-us", 1)
	add(f, "https://acme.test/gallery", 1)
	add(f, "https://acme.test/Contact", 1)
	add(f, "https://acme.test/services/drains", 1)

	assert.Equal(t, []string{
		"https://acme.test/about-us",
		"https://acme.test/Contact",
		"https://acme.test/services/drains",
		"https://acme.test/blog/post-1",
		"https://acme.test/gallery",
	}, drain(f))
}

func TestFrontier_BreadthFirstWithinClass(t *testing.T) {
	f := NewFrontier([]string{"/about"})
	add(f, "https://acme.test/deep", 2)
	add(f, "https://acme.test/shallow", 1)
	add(f, "https://acme.test/about/history", 2)
	add(f, "https://acme.test/about", 1)

	assert.Equal(t, []string{
		"https://acme.test/about",
		"https://acme.test/about/history",
		"https://acme.test/shallow",
		"https://acme.test/deep",
	}, drain(f))
}

func TestFrontier_SeedBeforePriorityPaths(t *testing.T) {
	f := NewFrontier([]string{"/about", "/services"})
	add(f, "https://acme.test/about", 1)
	add(f, "https://acme.test/services", 1)
	add(f, "https://acme.test/", 0)
	add(f, "https://acme.test/blog", 1)

	assert.Equal(t, []string{
		"https://acme.test/",
		"https://acme.test/about",
		"https://acme.test/services",
		"https://acme.test/blog",
	}, drain(f))
}

func TestFrontier_InterleavedAddPop(t *testing.T) {
	f := NewFrontier([]string{"/team"})
	add(f, "https://acme.test/", 0)
	first, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://acme.test/", first.URL)

	add(f, "https://acme.test/news", 1)
	add(f, "https://acme.test/team", 1)
	next, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://acme.test/team", next.URL)
	assert.Equal(t, 1, f.Len())
}

func TestFrontier_ConcurrentAdd(t *testing.T) {
	f := NewFrontier([]string{"/faq"})
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			add(f, fmt.Sprintf("https://acme.test/p%d", i), 1)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 50, f.Len())
	assert.Len(t, drain(f), 50)
}
