package instagram

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileHTML(name, handle string) string {
	return fmt.Sprintf(`<html><head>
<meta property="og:title" content="%s (@%s) • Instagram photos and videos">
<meta content="https://cdn.example/%s.jpg" property="og:image">
</head><body></body></html>`, name, handle, handle)
}

const loginWallHTML = `<html><head><title>Login • Instagram</title></head>
<body><form action="/accounts/login/">Phone number, username, or email. Password.</form></body></html>`

type fetchLog struct {
	direct int
	proxy  int
}

func newTestResolver(t *testing.T, direct, proxy http.HandlerFunc) (*Resolver, *fetchLog) {
	t.Helper()

	log := &fetchLog{}

	directSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.direct++
		direct(w, r)
	}))
	t.Cleanup(directSrv.Close)

	proxySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.proxy++
		if proxy == nil {
			t.Errorf("unexpected proxy fetch: %s", r.URL.String())
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		proxy(w, r)
	}))
	t.Cleanup(proxySrv.Close)

	r := NewResolver(nil,
		WithEndpoints(directSrv.URL, proxySrv.URL),
		WithFetchTimeout(2*time.Second),
	)
	return r, log
}

func TestResolveInvalidUsername(t *testing.T) {
	r, log := newTestResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("unexpected network call for invalid input")
	}, nil)

	res := r.Resolve(context.Background(), "jane doe!")
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Equal(t, 0, log.direct)
}

func TestResolveNotFoundOn404(t *testing.T) {
	r, log := newTestResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, nil)

	res := r.Resolve(context.Background(), "alice")
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, 1, log.direct)
	assert.Equal(t, 0, log.proxy)
}

func TestResolveFoundDirect(t *testing.T) {
	r, _ := newTestResolver(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))
		fmt.Fprint(w, profileHTML("Alice A", "alice"))
	}, nil)

	res := r.Resolve(context.Background(), "@alice")
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, "Alice A", res.FullName)
	assert.Equal(t, "https://cdn.example/alice.jpg", res.AvatarURL)
	assert.Contains(t, res.ProfileURL, "/alice/")
}

func TestResolve429FallsBackToProxyAndFinds(t *testing.T) {
	r, log := newTestResolver(t,
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, profileHTML("Alice A", "alice"))
		},
	)

	res := r.Resolve(context.Background(), "alice")
	require.Equal(t, StatusFound, res.Status)
	assert.Equal(t, "alice", res.Username)
	assert.Equal(t, 1, log.direct)
	assert.Equal(t, 1, log.proxy)
}

func TestResolveBlockedWhenProxyDoesNotMatch(t *testing.T) {
	r, log := newTestResolver(t,
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		},
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, loginWallHTML)
		},
	)

	res := r.Resolve(context.Background(), "alice")
	assert.Equal(t, StatusBlocked, res.Status)
	assert.Equal(t, 1, log.proxy)
}

func TestResolveLoginWallOn200FallsBackToProxy(t *testing.T) {
	r, log := newTestResolver(t,
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, loginWallHTML)
		},
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, profileHTML("Alice A", "alice"))
		},
	)

	res := r.Resolve(context.Background(), "alice")
	assert.Equal(t, StatusFound, res.Status)
	assert.Equal(t, 1, log.proxy)
}

func TestResolveBlockedWhenProxyFails(t *testing.T) {
	r, _ := newTestResolver(t,
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		},
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
	)

	res := r.Resolve(context.Background(), "alice")
	assert.Equal(t, StatusBlocked, res.Status)
}

func TestResolveNotFoundOn200WithoutMatch(t *testing.T) {
	r, log := newTestResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, profileHTML("Bob B", "bob"))
	}, nil)

	res := r.Resolve(context.Background(), "alice")
	assert.Equal(t, StatusNotFound, res.Status)
	assert.Equal(t, 0, log.proxy)
}

func TestResolveTimeoutIsErrorNotProxy(t *testing.T) {
	r, log := newTestResolver(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}, nil)
	r.timeout = 50 * time.Millisecond

	res := r.Resolve(context.Background(), "alice")
	assert.Equal(t, StatusError, res.Status)
	assert.Equal(t, 0, log.proxy)
}

func TestResolveTransportFailureIsError(t *testing.T) {
	r := NewResolver(nil, WithEndpoints("http://127.0.0.1:0", "http://127.0.0.1:0"))

	res := r.Resolve(context.Background(), "alice")
	assert.Equal(t, StatusError, res.Status)
}
