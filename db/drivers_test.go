package db

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chapterquiz-server/config"
)

func TestRedisBackend(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	exerciseBackend(t, NewRedisBackendFromClient(client, "quiz:"))

	assert.True(t, srv.Exists("quiz:"+SetUsers))
	raw, err := srv.Get("quiz:" + SetSubmissions)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, "[\n  {"))
}

func TestRedisBackendPingFailure(t *testing.T) {
	srv, err := miniredis.Run()
	require.NoError(t, err)
	addr := srv.Addr()
	srv.Close()

	_, err = NewRedisBackend(context.Background(), addr, "", 0, "quiz:")
	assert.ErrorContains(t, err, "redis ping")
}

func TestOpenRedisDriver(t *testing.T) {
	srv := miniredis.RunT(t)
	store, err := Open(context.Background(), config.StoreConfig{Driver: "redis", RedisAddr: srv.Addr(), KeyPrefix: "quiz:"})
	require.NoError(t, err)
	assert.IsType(t, &RedisBackend{}, store.backend)
	require.NoError(t, store.Close())
}

// fakeS3 answers path-style GetObject and PutObject requests from a map.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.Contains(r.Header.Get("Content-Encoding"), "aws-chunked") {
			body = decodeAWSChunked(body)
		}
		f.objects[r.URL.Path] = body
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write(body)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// decodeAWSChunked strips the chunk framing the SDK uses when it sends a
// trailing checksum.
func decodeAWSChunked(body []byte) []byte {
	var out bytes.Buffer
	reader := bufio.NewReader(bytes.NewReader(body))
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return out.Bytes()
		}
		sizeField := strings.TrimSpace(strings.SplitN(line, ";", 2)[0])
		size, err := strconv.ParseInt(sizeField, 16, 64)
		if err != nil || size == 0 {
			return out.Bytes()
		}
		if _, err := io.CopyN(&out, reader, size); err != nil {
			return out.Bytes()
		}
		_, _ = reader.ReadString('\n')
	}
}

func TestS3Backend(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	t.Setenv("AWS_CONFIG_FILE", os.DevNull)
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", os.DevNull)

	backend, err := NewS3Backend(context.Background(), S3Config{
		Bucket:    "quiz",
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		PathStyle: true,
		Prefix:    "records/",
	})
	require.NoError(t, err)
	exerciseBackend(t, backend)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Contains(t, fake.objects, "/quiz/records/"+SetUsers+".json")
	assert.Contains(t, string(fake.objects["/quiz/records/"+SetObservations+".json"]), `"Pune"`)
}

func TestPostgresBackend(t *testing.T) {
	url := os.Getenv("QUIZ_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("QUIZ_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	backend, err := NewPostgresBackend(ctx, url)
	require.NoError(t, err)
	_, err = backend.pool.Exec(ctx, "DELETE FROM record_sets")
	require.NoError(t, err)
	exerciseBackend(t, backend)
}
