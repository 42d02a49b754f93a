package queue

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const ingestKey = "ingest_jobs"

// ErrEmpty reports that no job arrived within the pop timeout.
var ErrEmpty = errors.New("queue empty")

// IngestJob points the worker at one uploaded file destined for an index.
type IngestJob struct {
	Path  string `json:"path"`
	Index string `json:"index"`
}

type Queue struct {
	client *redis.Client
}

func New(url string) (*Queue, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opt)
	return &Queue{client: client}, nil
}

func (q *Queue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}

func (q *Queue) PushIngestJob(ctx context.Context, job IngestJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, ingestKey, payload).Err()
}

func (q *Queue) PopIngestJob(ctx context.Context, timeout time.Duration) (IngestJob, error) {
	res, err := q.client.BRPop(ctx, timeout, ingestKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return IngestJob{}, ErrEmpty
		}
		return IngestJob{}, err
	}
	if len(res) < 2 {
		return IngestJob{}, ErrEmpty
	}
	var job IngestJob
	if err := json.Unmarshal([]byte(res[1]), &job); err != nil {
		return IngestJob{}, err
	}
	return job, nil
}

func (q *Queue) Depth(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, ingestKey).Result()
}

func (q *Queue) Close() error {
	return q.client.Close()
}
