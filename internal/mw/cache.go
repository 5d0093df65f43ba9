package mw

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type cachedResponse struct {
	status  int
	headers http.Header
	body    []byte
}

// ResponseCache stores rendered GET responses.
type ResponseCache interface {
	Get(ctx context.Context, key string) (cachedResponse, bool)
	Set(ctx context.Context, key string, resp cachedResponse, ttl time.Duration)
	// Purge drops every cached response.
	Purge(ctx context.Context)
}

// MemoryCache keeps responses in process.
type MemoryCache struct {
	c *cache.Cache
}

// NewMemoryCache creates an in-process cache that sweeps expired entries every cleanup.
func NewMemoryCache(cleanup time.Duration) *MemoryCache {
	return &MemoryCache{c: cache.New(cache.NoExpiration, cleanup)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (cachedResponse, bool) {
	v, found := m.c.Get(key)
	if !found {
		return cachedResponse{}, false
	}
	return v.(cachedResponse), true
}

func (m *MemoryCache) Set(_ context.Context, key string, resp cachedResponse, ttl time.Duration) {
	m.c.Set(key, resp, ttl)
}

func (m *MemoryCache) Purge(context.Context) {
	m.c.Flush()
}

// RedisCache shares responses between instances. Errors are logged and
// treated as misses.
type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache stores responses in rdb under keys starting with prefix.
func NewRedisCache(rdb *redis.Client, prefix string) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (r *RedisCache) key(k string) string {
	return r.prefix + ":" + k
}

func (r *RedisCache) Get(ctx context.Context, key string) (cachedResponse, bool) {
	bs, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redis cache get failed: %v", err)
		}
		return cachedResponse{}, false
	}
	return decodePayload(bs)
}

func (r *RedisCache) Set(ctx context.Context, key string, resp cachedResponse, ttl time.Duration) {
	payload, err := encodePayload(resp)
	if err != nil {
		return
	}
	if err := r.rdb.SetEx(ctx, r.key(key), payload, ttl).Err(); err != nil {
		log.Printf("redis cache set failed: %v", err)
	}
}

func (r *RedisCache) Purge(ctx context.Context) {
	iter := r.rdb.Scan(ctx, 0, r.prefix+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		log.Printf("redis cache scan failed: %v", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("redis cache purge failed: %v", err)
	}
}

// encodePayload packs [4 bytes status][4 bytes header length][header JSON][body].
func encodePayload(resp cachedResponse) ([]byte, error) {
	hdr, err := json.Marshal(resp.headers)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdr)+len(resp.body))
	binary.BigEndian.PutUint32(out[0:4], uint32(resp.status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdr)))
	copy(out[8:], hdr)
	copy(out[8+len(hdr):], resp.body)
	return out, nil
}

func decodePayload(bs []byte) (cachedResponse, bool) {
	if len(bs) < 8 {
		return cachedResponse{}, false
	}
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if 8+hlen > len(bs) {
		return cachedResponse{}, false
	}
	var hdr http.Header
	if err := json.Unmarshal(bs[8:8+hlen], &hdr); err != nil {
		return cachedResponse{}, false
	}
	return cachedResponse{
		status:  int(binary.BigEndian.Uint32(bs[0:4])),
		headers: hdr,
		body:    bs[8+hlen:],
	}, true
}

type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w bodyCacheWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w bodyCacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves GET requests from store, filling it on a successful miss.
func Cache(store ResponseCache, duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := c.Request.RequestURI
		if cached, found := store.Get(ctx, key); found {
			for k, v := range cached.headers {
				if strings.EqualFold(k, "Content-Length") {
					continue
				}
				c.Writer.Header()[k] = v
			}
			c.Writer.Header().Set("X-Cache", "HIT")
			c.Writer.WriteHeader(cached.status)
			c.Writer.Write(cached.body)
			c.Abort()
			return
		}

		blw := &bodyCacheWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = blw
		c.Writer.Header().Set("X-Cache", "MISS")

		c.Next()

		if blw.Status() >= 200 && blw.Status() < 300 {
			store.Set(ctx, key, cachedResponse{
				status:  blw.Status(),
				headers: blw.Header().Clone(),
				body:    blw.body.Bytes(),
			}, duration)
		}
	}
}

// Invalidate purges store after every successful write request.
func Invalidate(store ResponseCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if c.Writer.Status() < http.StatusBadRequest {
			store.Purge(c.Request.Context())
		}
	}
}
