package callback

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compliance/reconcile"
)

func TestDeliver_PostsVerdict(t *testing.T) {
	received := make(chan Payload, 1)
	var header string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("X-Request-ID")
		var p Payload
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		received <- p
	}))
	defer server.Close()

	n := NewNotifier(time.Second, nil)
	v := reconcile.Reconcile(reconcile.TextReply(`{"verdict": "clear"}`))
	n.Deliver("req-42", server.URL+"/hook", v)
	n.Wait()

	select {
	case p := <-received:
		assert.Equal(t, "req-42", p.RequestID)
		assert.Equal(t, "clear", p.Verdict)
		assert.Equal(t, "none", p.RiskLevel)
		assert.Contains(t, p.Checks.Parties, "us")
	default:
		t.Fatal("callback was not delivered")
	}
	assert.Equal(t, "req-42", header)
}

func TestDeliver_DoesNotBlockCaller(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()

	n := NewNotifier(5*time.Second, nil)
	start := time.Now()
	n.Deliver("req", server.URL, reconcile.Verdict{Verdict: reconcile.VerdictFlag})
	assert.Less(t, time.Since(start), 500*time.Millisecond)

	close(release)
	n.Wait()
}

func TestDeliver_FailuresReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var mu sync.Mutex
	var failed []string
	n := NewNotifier(time.Second, nil, WithFailureHook(func(requestID string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, requestID)
	}))

	n.Deliver("bad-status", server.URL, reconcile.Verdict{})
	n.Deliver("bad-scheme", "ftp://example.com/hook", reconcile.Verdict{})
	n.Deliver("no-host", "http:///hook", reconcile.Verdict{})
	n.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"bad-status", "bad-scheme", "no-host"}, failed)
}

func TestDeliver_TimeoutIsFailure(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	failures := make(chan error, 1)
	n := NewNotifier(50*time.Millisecond, nil, WithFailureHook(func(_ string, err error) {
		failures <- err
	}))
	n.Deliver("slow", server.URL, reconcile.Verdict{})
	n.Wait()

	require.Len(t, failures, 1)
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com/cb"))
	assert.NoError(t, ValidateURL("http://localhost:8080"))
	assert.Error(t, ValidateURL("example.com/cb"))
	assert.Error(t, ValidateURL("javascript:alert(1)"))
	assert.Error(t, ValidateURL("://bad"))
}
