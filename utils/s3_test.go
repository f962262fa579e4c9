package utils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://docs/reports/2024/q1.txt")
	require.NoError(t, err)
	assert.Equal(t, "docs", bucket)
	assert.Equal(t, "reports/2024/q1.txt", key)

	for _, uri := range []string{
		"https://docs/q1.txt",
		"s3://docs",
		"s3://docs/",
		"s3:///q1.txt",
		"://bad",
	} {
		_, _, err := ParseS3URI(uri)
		assert.Error(t, err, uri)
	}
}

// newTestStore points an S3Store at handler with SDK retries disabled, so every
// request the handler sees is one Download attempt
func newTestStore(t *testing.T, handler http.HandlerFunc) (*S3Store, *atomic.Int32) {
	t.Helper()
	var attempts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "us-east-1",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("test", "test", ""),
		Retryer:      aws.NopRetryer{},
	})
	return &S3Store{client: client, maxAttempts: 3, retryDelay: time.Millisecond}, &attempts
}

func writeS3Error(w http.ResponseWriter, status int, code string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>` + code + `</Code><Message>` + code + `</Message></Error>`))
}

func TestDownloadReturnsObject(t *testing.T) {
	store, attempts := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/docs/reports/q1.txt", r.URL.Path)
		_, _ = w.Write([]byte("Quarterly revenue grew."))
	})

	data, err := store.Download(context.Background(), "docs", "reports/q1.txt", 1024)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly revenue grew.", string(data))
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDownloadDoesNotRetryPermanentErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
	}{
		{"missing key", http.StatusNotFound, "NoSuchKey"},
		{"access denied", http.StatusForbidden, "AccessDenied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, attempts := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
				writeS3Error(w, tt.status, tt.code)
			})

			_, err := store.Download(context.Background(), "docs", "a.txt", 1024)
			require.Error(t, err)
			assert.Equal(t, int32(1), attempts.Load())
			assert.NotContains(t, err.Error(), "attempts")
		})
	}
}

func TestDownloadMissingKeyIsTyped(t *testing.T) {
	store, _ := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeS3Error(w, http.StatusNotFound, "NoSuchKey")
	})

	_, err := store.Download(context.Background(), "docs", "a.txt", 0)
	var noSuchKey *types.NoSuchKey
	assert.ErrorAs(t, err, &noSuchKey)
}

func TestDownloadRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	store, attempts := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			writeS3Error(w, http.StatusInternalServerError, "InternalError")
			return
		}
		_, _ = w.Write([]byte("third time lucky"))
	})

	data, err := store.Download(context.Background(), "docs", "a.txt", 1024)
	require.NoError(t, err)
	assert.Equal(t, "third time lucky", string(data))
	assert.Equal(t, int32(3), attempts.Load())
}

func TestDownloadGivesUpAfterMaxAttempts(t *testing.T) {
	store, attempts := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		writeS3Error(w, http.StatusServiceUnavailable, "SlowDown")
	})

	_, err := store.Download(context.Background(), "docs", "a.txt", 1024)
	assert.ErrorContains(t, err, "failed to download object after 3 attempts")
	assert.Equal(t, int32(3), attempts.Load())
}

func TestDownloadRejectsDeclaredOversizedObject(t *testing.T) {
	body := strings.Repeat("a", 64)
	store, attempts := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		_, _ = w.Write([]byte(body))
	})

	_, err := store.Download(context.Background(), "docs", "a.txt", 16)
	assert.ErrorIs(t, err, ErrObjectTooLarge)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestDownloadBoundsUndeclaredObjectSize(t *testing.T) {
	store, attempts := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		// Flushing before the body is complete forces chunked encoding with no Content-Length
		_, _ = w.Write([]byte(strings.Repeat("a", 32)))
		w.(http.Flusher).Flush()
		_, _ = w.Write([]byte(strings.Repeat("b", 32)))
	})

	_, err := store.Download(context.Background(), "docs", "a.txt", 16)
	assert.ErrorIs(t, err, ErrObjectTooLarge)
	assert.Equal(t, int32(1), attempts.Load())

	data, err := store.Download(context.Background(), "docs", "a.txt", 64)
	require.NoError(t, err)
	assert.Len(t, data, 64)
}
