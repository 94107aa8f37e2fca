package uisound

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/gopxl/beep"
)

const resampleQuality = 4

// inflightLoad is one pending fetch+decode, shared by every concurrent
// requester of the same URL. buf and err are written before done closes.
type inflightLoad struct {
	done chan struct{}
	buf  *beep.Buffer
	err  error
}

// BufferCache loads audio resources into decoded, engine-rate buffers. The
// entry count is bounded with FIFO eviction, and concurrent loads of the
// same URL share a single fetch+decode.
type BufferCache struct {
	mu       sync.Mutex
	entries  map[string]*beep.Buffer
	order    []string
	inflight map[string]*inflightLoad
	max      int
	rate     beep.SampleRate
	fetcher  Fetcher
	formats  *FormatResolver
}

// NewBufferCache creates a cache holding at most max decoded buffers. A max
// below 1 disables the bound. Nil fetcher or formats fall back to the
// defaults.
func NewBufferCache(rate beep.SampleRate, max int, fetcher Fetcher, formats *FormatResolver) *BufferCache {
	if fetcher == nil {
		fetcher = newDefaultFetcher()
	}
	if formats == nil {
		formats = NewFormatResolver(DefaultDecoders())
	}
	return &BufferCache{
		entries:  make(map[string]*beep.Buffer),
		inflight: make(map[string]*inflightLoad),
		max:      max,
		rate:     rate,
		fetcher:  fetcher,
		formats:  formats,
	}
}

// Load returns the decoded buffer for url, fetching and decoding it on
// first use. A hit returns immediately. If a load for the same url is
// already in flight the call awaits that load's result instead of starting
// another; ctx cancellation abandons the wait but not the shared load.
// Transport failures surface as *LoadError, undecodable payloads as
// *DecodeError.
func (c *BufferCache) Load(ctx context.Context, url string) (*beep.Buffer, error) {
	c.mu.Lock()
	if buf, ok := c.entries[url]; ok {
		c.mu.Unlock()
		return buf, nil
	}
	if fl, ok := c.inflight[url]; ok {
		c.mu.Unlock()
		select {
		case <-fl.done:
			return fl.buf, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	fl := &inflightLoad{done: make(chan struct{})}
	c.inflight[url] = fl
	c.mu.Unlock()

	buf, err := c.loadOnce(ctx, url)

	c.mu.Lock()
	// Clear may have dropped the tracker; then the result still resolves
	// the waiters but is not inserted.
	if c.inflight[url] == fl {
		delete(c.inflight, url)
		if err == nil {
			c.insertLocked(url, buf)
		}
	}
	c.mu.Unlock()

	fl.buf, fl.err = buf, err
	close(fl.done)
	return buf, err
}

// Clear drops all cached entries and in-flight trackers. Buffers held by
// currently playing renders are unaffected; they keep their own reference.
func (c *BufferCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*beep.Buffer)
	c.order = nil
	c.inflight = make(map[string]*inflightLoad)
}

// Len reports the number of cached entries.
func (c *BufferCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Contains reports whether url is currently cached.
func (c *BufferCache) Contains(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[url]
	return ok
}

func (c *BufferCache) loadOnce(ctx context.Context, url string) (*beep.Buffer, error) {
	data, status, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, &LoadError{URL: url, Status: status, Err: err}
	}
	return c.decode(url, data)
}

// decode picks the decoder by file extension, decodes, and resamples to
// the engine rate so every cached buffer is directly mixable.
func (c *BufferCache) decode(url string, data []byte) (*beep.Buffer, error) {
	ext := strings.TrimPrefix(path.Ext(url), ".")
	dec, ok := c.formats.decoderFor(ext)
	if !ok {
		return nil, &DecodeError{URL: url, Err: fmt.Errorf("no decoder for container %q", ext)}
	}

	stream, format, err := dec(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != c.rate {
		src = beep.Resample(resampleQuality, format.SampleRate, c.rate, stream)
	}

	buf := beep.NewBuffer(beep.Format{SampleRate: c.rate, NumChannels: 2, Precision: 2})
	buf.Append(src)
	if err := stream.Err(); err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}
	return buf, nil
}

// insertLocked adds an entry, evicting the oldest-inserted one first when
// the cache is full.
func (c *BufferCache) insertLocked(url string, buf *beep.Buffer) {
	if c.max > 0 && len(c.entries) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[url] = buf
	c.order = append(c.order, url)
}
