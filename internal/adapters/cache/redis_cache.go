package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	geocodeKeyPrefix  = "geocode:"
	distanceKeyPrefix = "distance:"
)

type redisLocation struct {
	Address string   `json:"address"`
	Lon     *float64 `json:"lon,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
}

type redisDistance struct {
	Meters  float64 `json:"m"`
	Seconds float64 `json:"s"`
}

// RedisGeocodeCache stores address -> location entries as JSON strings with a TTL.
// A zero TTL keeps entries until evicted.
type RedisGeocodeCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client, TTL: ttl}
}

func (r *RedisGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Location, err error) {
	defer obs.Time(ctx, "geocode.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("geocode cache: redis client is nil")
	}

	uniq := uniqueKeys(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Location{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, a := range uniq {
		keys = append(keys, geocodeKeyPrefix+a)
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: redis mget: %w", err)
	}

	out := make(map[string]domain.Location, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		var rl redisLocation
		if err := json.Unmarshal([]byte(s), &rl); err != nil {
			return nil, fmt.Errorf("get geocode cache: decode %q: %w", uniq[i], err)
		}

		loc := domain.Location{Address: rl.Address}
		if rl.Lon != nil && rl.Lat != nil {
			loc.Coordinates = &domain.Coordinates{Lon: *rl.Lon, Lat: *rl.Lat}
		}
		out[uniq[i]] = loc
	}

	return out, nil
}

func (r *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Location) error {
	if r.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := r.Client.TxPipeline()
	for addr, loc := range results {
		if strings.TrimSpace(addr) == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}

		rl := redisLocation{Address: loc.Address}
		if loc.Coordinates != nil {
			lon, lat := loc.Coordinates.Lon, loc.Coordinates.Lat
			rl.Lon, rl.Lat = &lon, &lat
		}

		b, err := json.Marshal(rl)
		if err != nil {
			return fmt.Errorf("insert geocode cache: encode %q: %w", addr, err)
		}
		pipe.Set(ctx, geocodeKeyPrefix+addr, b, r.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: redis exec: %w", err)
	}

	return nil
}

// RedisDistanceCache stores origin->destination metrics as JSON strings with a TTL.
type RedisDistanceCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{Client: client, TTL: ttl}
}

func distanceKey(origin, destination string) string {
	return distanceKeyPrefix + origin + "|" + destination
}

func (r *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, d := range uniq {
		keys = append(keys, distanceKey(origin, d))
	}

	vals, err := r.Client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get distance cache: redis mget: %w", err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}

		var rd redisDistance
		if err := json.Unmarshal([]byte(s), &rd); err != nil {
			return nil, fmt.Errorf("get distance cache: decode %q: %w", uniq[i], err)
		}
		out[uniq[i]] = ports.DistanceResult{DistanceMeters: rd.Meters, DurationSeconds: rd.Seconds}
	}

	return out, nil
}

func (r *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) error {
	if r.Client == nil {
		return errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := r.Client.TxPipeline()
	for dest, res := range results {
		if strings.TrimSpace(dest) == "" {
			return fmt.Errorf("insert distance cache: empty destination key")
		}

		b, err := json.Marshal(redisDistance{Meters: res.DistanceMeters, Seconds: res.DurationSeconds})
		if err != nil {
			return fmt.Errorf("insert distance cache: encode %q: %w", dest, err)
		}
		pipe.Set(ctx, distanceKey(origin, dest), b, r.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache: redis exec: %w", err)
	}

	return nil
}
