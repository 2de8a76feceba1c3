package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared Store for multi-node deployments. Values live in a
// hash (data + stored-at), generations in a plain counter key. The
// generation check on fetch writes is done server-side in a Lua script so
// two nodes cannot interleave between check and write.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

func NewRedis(rdb *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "sulber:cache:"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

var casScript = redis.NewScript(`
local g = redis.call('GET', KEYS[2])
if not g then g = '0' end
if g ~= ARGV[1] then return 0 end
redis.call('HSET', KEYS[1], 'data', ARGV[2], 'at', ARGV[3])
return 1
`)

func (r *Redis) valueKey(key string) string { return r.prefix + key }
func (r *Redis) genKey(key string) string   { return r.prefix + key + ":gen" }

func (r *Redis) Get(ctx context.Context, key string) (Entry, bool, error) {
	vals, err := r.rdb.HMGet(ctx, r.valueKey(key), "data", "at").Result()
	if err != nil {
		return Entry{}, false, err
	}
	if vals[0] == nil {
		return Entry{}, false, nil
	}
	data, ok := vals[0].(string)
	if !ok {
		return Entry{}, false, errors.New("cache: unexpected value type")
	}

	var storedAt time.Time
	if at, ok := vals[1].(string); ok {
		if nanos, err := strconv.ParseInt(at, 10, 64); err == nil {
			storedAt = time.Unix(0, nanos)
		}
	}
	return Entry{Data: []byte(data), StoredAt: storedAt}, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, data []byte) error {
	pipe := r.rdb.TxPipeline()
	pipe.Incr(ctx, r.genKey(key))
	pipe.HSet(ctx, r.valueKey(key), "data", data, "at", time.Now().UnixNano())
	_, err := pipe.Exec(ctx)
	return err
}

func (r *Redis) Generation(ctx context.Context, key string) (int64, error) {
	gen, err := r.rdb.Get(ctx, r.genKey(key)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *Redis) CompareAndSet(ctx context.Context, key string, gen int64, data []byte) (bool, error) {
	res, err := casScript.Run(ctx, r.rdb,
		[]string{r.valueKey(key), r.genKey(key)},
		strconv.FormatInt(gen, 10), data, time.Now().UnixNano(),
	).Int64()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

func (r *Redis) Invalidate(ctx context.Context, keys ...string) error {
	pipe := r.rdb.TxPipeline()
	for _, key := range keys {
		pipe.Incr(ctx, r.genKey(key))
		pipe.Del(ctx, r.valueKey(key))
	}
	_, err := pipe.Exec(ctx)
	return err
}
