package middleware

import (
    "context"
    "errors"
    "net/http"
    "net/http/httptest"
    "testing"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/voyager-trip-planner/internal/config"
    "github.com/iliyamo/voyager-trip-planner/internal/logging"
    "github.com/iliyamo/voyager-trip-planner/internal/model"
    "github.com/iliyamo/voyager-trip-planner/internal/service"
)

type stubAuth struct {
    tokens map[string]model.Identity
    err    error
}

func (s stubAuth) Authenticate(_ context.Context, raw string) (model.Identity, error) {
    if s.err != nil {
        return model.Identity{}, s.err
    }
    who, ok := s.tokens[raw]
    if !ok {
        return model.Identity{}, &service.Error{Kind: service.ErrUnauthorized, Message: "invalid or expired token"}
    }
    return who, nil
}

func newEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
    e := echo.New()
    e.GET("/me", func(c echo.Context) error {
        who, ok := CurrentUser(c)
        if !ok {
            return c.NoContent(http.StatusTeapot)
        }
        return c.JSON(http.StatusOK, who)
    }, mw...)
    return e
}

func TestAuthenticate(t *testing.T) {
    ann := model.Identity{ID: 1, Name: "Ann", Email: "ann@x.io"}
    e := newEcho(Authenticate(stubAuth{tokens: map[string]model.Identity{"good": ann}}, logging.Discard()))

    tests := []struct {
        name   string
        header string
        status int
    }{
        {"valid", "Bearer good", http.StatusOK},
        {"lowercase scheme", "bearer good", http.StatusOK},
        {"missing header", "", http.StatusUnauthorized},
        {"wrong scheme", "Basic good", http.StatusUnauthorized},
        {"unknown token", "Bearer bad", http.StatusUnauthorized},
        {"empty token", "Bearer ", http.StatusUnauthorized},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            req := httptest.NewRequest(http.MethodGet, "/me", nil)
            if tt.header != "" {
                req.Header.Set(echo.HeaderAuthorization, tt.header)
            }
            rec := httptest.NewRecorder()
            e.ServeHTTP(rec, req)

            assert.Equal(t, tt.status, rec.Code)
            if tt.status == http.StatusOK {
                assert.JSONEq(t, `{"id":1,"name":"Ann","email":"ann@x.io"}`, rec.Body.String())
            } else {
                assert.JSONEq(t, `{"error":"invalid or expired token"}`, rec.Body.String())
            }
        })
    }
}

func TestAuthenticateStoreFailure(t *testing.T) {
    e := newEcho(Authenticate(stubAuth{err: &service.Error{Kind: service.ErrStore, Message: "database error", Err: errors.New("boom")}}, logging.Discard()))

    req := httptest.NewRequest(http.MethodGet, "/me", nil)
    req.Header.Set(echo.HeaderAuthorization, "Bearer good")
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusInternalServerError, rec.Code)
    assert.JSONEq(t, `{"error":"database error"}`, rec.Body.String())
}

func TestCurrentUserWithoutAuth(t *testing.T) {
    e := newEcho()
    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
    assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestCacheKeyIsScopedToCaller(t *testing.T) {
    e := echo.New()
    ctxFor := func(target string) echo.Context {
        c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
        c.SetPath("/get-trip/:id")
        return c
    }

    a := cacheKey("cache", 1, ctxFor("/get-trip/5"))
    assert.Equal(t, a, cacheKey("cache", 1, ctxFor("/get-trip/5")))
    assert.NotEqual(t, a, cacheKey("cache", 2, ctxFor("/get-trip/5")))
    assert.NotEqual(t, a, cacheKey("cache", 1, ctxFor("/get-trip/6")))
    assert.NotEqual(t, a, cacheKey("cache", 1, ctxFor("/get-trip/5?x=1")))
    assert.Regexp(t, `^cache:u1:[0-9a-f]{40}$`, a)
}

func TestPayloadRoundTrip(t *testing.T) {
    hdr := http.Header{"Content-Type": {"application/json"}}
    bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"trip":{}}`))
    require.NoError(t, err)

    status, gotHdr, body, ok := decodePayload(bs)
    require.True(t, ok)
    assert.Equal(t, http.StatusOK, status)
    assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
    assert.Equal(t, `{"trip":{}}`, string(body))

    _, _, _, ok = decodePayload(bs[:5])
    assert.False(t, ok)
}

func TestRedisCachePassThrough(t *testing.T) {
    ann := model.Identity{ID: 1, Name: "Ann", Email: "ann@x.io"}
    auth := Authenticate(stubAuth{tokens: map[string]model.Identity{"good": ann}}, logging.Discard())
    unreachable := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
    t.Cleanup(func() { unreachable.Close() })

    tests := []struct {
        name   string
        cfg    config.CacheConfig
        rdb    *redis.Client
        xcache string
    }{
        {"disabled", config.CacheConfig{Enabled: false, Prefix: "cache"}, unreachable, ""},
        {"nil client", config.CacheConfig{Enabled: true, Prefix: "cache"}, nil, ""},
        {"redis down", config.CacheConfig{Enabled: true, Prefix: "cache", TTL: time.Minute}, unreachable, "MISS"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            e := newEcho(auth, NewRedisCache(tt.cfg, tt.rdb, logging.Discard()))

            req := httptest.NewRequest(http.MethodGet, "/me", nil)
            req.Header.Set(echo.HeaderAuthorization, "Bearer good")
            rec := httptest.NewRecorder()
            e.ServeHTTP(rec, req)

            assert.Equal(t, http.StatusOK, rec.Code)
            assert.JSONEq(t, `{"id":1,"name":"Ann","email":"ann@x.io"}`, rec.Body.String())
            assert.Equal(t, tt.xcache, rec.Header().Get("X-Cache"))
        })
    }
}

func TestCaptureWriterDropsOversizedBodies(t *testing.T) {
    rec := httptest.NewRecorder()
    cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
    _, _ = cw.Write([]byte("abc"))
    _, _ = cw.Write([]byte("def"))

    assert.True(t, cw.truncated)
    assert.Zero(t, cw.buf.Len())
    assert.Equal(t, "abcdef", rec.Body.String())
}

func TestRequestLoggerResolvesErrors(t *testing.T) {
    e := echo.New()
    e.Use(RequestLogger(logging.Discard()))
    e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusConflict, "nope") })

    rec := httptest.NewRecorder()
    e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
    assert.Equal(t, http.StatusConflict, rec.Code)
}
