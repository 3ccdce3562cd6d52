// Package redis connects to Redis for server-side flash storage.
//
// Connect retries the initial ping so the service can start alongside a Redis
// container that is still booting:
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Healthcheck adapts the client to the readiness probe used by the HTTP
// server.
package redis
