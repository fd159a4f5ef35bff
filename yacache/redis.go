package yacache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yaencoding"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
)

// Redis stores MessagePack-encoded values of type V in a Redis (or DragonFly)
// database.
//
// Example:
//
//	client := yacache.NewRedisClient("localhost", uint16(6379), "", 1, log)
//	store := yacache.NewRedis[Report](client)
//	defer store.Close()
type Redis[V any] struct {
	backendName string
	client      *redis.Client
}

// NewRedis turns an already-configured *redis.Client into a store.
func NewRedis[V any](client *redis.Client) *Redis[V] {
	const (
		dragonfly = "DRAGONFLY"
		server    = "server"
	)

	backendName := "REDIS"

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	info, err := client.Info(ctx, server).Result()
	if err == nil && strings.Contains(info, strings.ToLower(dragonfly)) {
		backendName = dragonfly
	}

	return &Redis[V]{
		backendName: backendName,
		client:      client,
	}
}

// NewRedisClient dials a real Redis instance and performs an initial PING.
//
// On failure the logger's Fatalf terminates the process, mirroring the
// standard library's `log.Fatalf` semantics.
//
// Example:
//
//	client := yacache.NewRedisClient("127.0.0.1", 6379, "", 0, log)
func NewRedisClient(
	host string,
	port uint16,
	password string,
	db int,
	log yalogger.Logger,
) *redis.Client {
	redisAddr := fmt.Sprintf("%s:%s", host, strconv.Itoa(int(port)))

	log = yalogger.Safe(log)

	log.Infof("Redis connecting to addr %s", redisAddr)

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: password,
		DB:       db,
		Network:  "tcp4",
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect redis: %v", err)
	}

	log.Infof("Redis connected to addr %s", redisAddr)

	return client
}

// Raw exposes the underlying *redis.Client for commands outside the Store
// surface.
func (r *Redis[V]) Raw() *redis.Client {
	return r.client
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, bool, yaerrors.Error) {
	var zero V

	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}

	if err != nil {
		return zero, false, yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToGetValue),
			fmt.Sprintf("[%s] failed `GET` by `%s`", r.backendName, key),
		)
	}

	value, yaerr := yaencoding.DecodeMessagePack[V](raw)
	if yaerr != nil {
		return zero, false, yaerr.Wrap(fmt.Sprintf("[%s] failed to decode `%s`", r.backendName, key))
	}

	return value, true, nil
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) yaerrors.Error {
	raw, yaerr := yaencoding.EncodeMessagePack(value)
	if yaerr != nil {
		return yaerr.Wrap(fmt.Sprintf("[%s] failed to encode `%s`", r.backendName, key))
	}

	if ttl < 0 {
		ttl = 0
	}

	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToSet),
			fmt.Sprintf("[%s] failed `SET` by `%s`", r.backendName, key),
		)
	}

	return nil
}

func (r *Redis[V]) Del(ctx context.Context, key string) yaerrors.Error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToDelValue),
			fmt.Sprintf("[%s] failed `DEL` by `%s`", r.backendName, key),
		)
	}

	return nil
}

func (r *Redis[V]) Ping(ctx context.Context) yaerrors.Error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedPing),
			fmt.Sprintf("[%s] failed `PING`", r.backendName),
		)
	}

	return nil
}

// Close closes the underlying client. Stores sharing one client should only
// close it once.
func (r *Redis[V]) Close() yaerrors.Error {
	if err := r.client.Close(); err != nil {
		return yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToCloseBackend),
			fmt.Sprintf("[%s] failed `CLOSE`", r.backendName),
		)
	}

	return nil
}
