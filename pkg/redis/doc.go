// Package redis connects to the Redis server that backs the shared webhook
// replay store.
//
// Connect retries the initial ping so services can start before Redis is
// ready:
//
//	client, err := redis.Connect(ctx, redis.Config{URL: "redis://localhost:6379/0", RetryAttempts: 3})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := webhook.NewRedisReplayStore(client, webhook.DefaultRedisPrefix)
//
// Healthcheck returns a probe suitable for readiness endpoints.
package redis
