package services

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/go-redis/redis/v8"
)

func newUnreachableRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: "localhost:0",
		Dialer: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return nil, errors.New("redis unreachable")
		},
	})
}

func TestImportJobKey(t *testing.T) {
	if got := ImportJobKey("abc-123"); got != "sales_import:job:abc-123" {
		t.Fatalf("unexpected job key: %q", got)
	}
}

func TestStoreJobMetaReportsWriteFailure(t *testing.T) {
	rdb := newUnreachableRedisClient()
	defer rdb.Close()

	meta := map[string]interface{}{"status": "processing"}
	if err := storeJobMeta(context.Background(), rdb, ImportJobKey("job-1"), meta); err == nil {
		t.Fatal("expected a failed status write to be reported")
	}
}
