package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/binary"
    "encoding/json"
    "fmt"
    "log/slog"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/voyager-trip-planner/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
    http.ResponseWriter
    status    int
    buf       bytes.Buffer
    limit     int64
    truncated bool
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
    if !cw.truncated {
        if cw.limit > 0 && int64(cw.buf.Len()+len(b)) > cw.limit {
            cw.truncated = true
            cw.buf.Reset()
        } else {
            cw.buf.Write(b)
        }
    }
    return cw.ResponseWriter.Write(b)
}

// cacheKey scopes entries to the caller so one user's trip can never be
// served to another: prefix:u<id>:sha1(route|path|query).
func cacheKey(prefix string, userID uint64, c echo.Context) string {
    r := c.Request()
    sum := sha1.Sum([]byte(strings.Join([]string{c.Path(), r.URL.Path, r.URL.RawQuery}, "|")))
    return fmt.Sprintf("%s:u%d:%x", prefix, userID, sum[:])
}

// encodePayload packs: [4 bytes status][4 bytes headerLen][headerJSON][body]
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
    hdrJSON, err := json.Marshal(header)
    if err != nil {
        return nil, err
    }
    out := make([]byte, 8+len(hdrJSON)+len(body))
    binary.BigEndian.PutUint32(out[0:4], uint32(status))
    binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
    copy(out[8:8+len(hdrJSON)], hdrJSON)
    copy(out[8+len(hdrJSON):], body)
    return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
    if len(bs) < 8 {
        return 0, nil, nil, false
    }
    status = int(binary.BigEndian.Uint32(bs[0:4]))
    hlen := int(binary.BigEndian.Uint32(bs[4:8]))
    if hlen < 0 || 8+hlen > len(bs) {
        return 0, nil, nil, false
    }
    header = make(http.Header)
    if hlen > 0 {
        if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
            return 0, nil, nil, false
        }
    }
    return status, header, bs[8+hlen:], true
}

// storableHeaders returns the handler-owned headers of h.  Headers written
// by outer middleware (CORS, request id, Vary) belong to a single request
// and are never stored or replayed.
func storableHeaders(h http.Header) http.Header {
    out := make(http.Header, len(h))
    for k, vals := range h {
        ck := http.CanonicalHeaderKey(k)
        switch {
        case ck == echo.HeaderContentLength, ck == echo.HeaderXRequestID, ck == echo.HeaderVary, ck == "X-Cache":
            continue
        case strings.HasPrefix(ck, "Access-Control-"):
            continue
        }
        out[ck] = append([]string(nil), vals...)
    }
    return out
}

// NewRedisCache caches successful GET responses per caller.  It must run
// after Authenticate; requests without a caller pass straight through, as
// does everything when the cache is disabled or rdb is nil.  Saved trips
// never change, so entries are only ever expired by TTL.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client, logger *slog.Logger) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    ttl := cfg.TTL
    if ttl <= 0 {
        ttl = 5 * time.Minute
    }
    maxBody := int64(cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            who, ok := CurrentUser(c)
            if c.Request().Method != http.MethodGet || !ok {
                return next(c)
            }

            ctx := c.Request().Context()
            key := cacheKey(cfg.Prefix, who.ID, c)

            if bs, err := rdb.Get(ctx, key).Bytes(); err == nil {
                if status, hdr, body, ok := decodePayload(bs); ok {
                    out := c.Response().Header()
                    for k, vals := range storableHeaders(hdr) {
                        if _, set := out[k]; set {
                            continue
                        }
                        out[k] = vals
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(status)
                    _, _ = c.Response().Write(body)
                    return nil
                }
            }

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if cw.status == http.StatusOK && !cw.truncated {
                hdr := storableHeaders(c.Response().Header())
                if payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes()); err == nil {
                    if err := rdb.SetEx(context.Background(), key, payload, ttl).Err(); err != nil {
                        logger.Warn("cache store failed", "key", key, "error", err)
                    }
                }
            }
            return nil
        }
    }
}
