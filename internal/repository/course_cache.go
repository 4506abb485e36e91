package repository

import (
	"context"
	"edusync_backend/internal/model"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
)

const courseCacheKeyPrefix = "edusync:course:"

// CourseCache 课程读缓存，Redis 未配置时所有操作均为空操作
type CourseCache struct {
	Redis *redis.Client
	ttl   atomic.Int64
}

func NewCourseCache(rdb *redis.Client, ttl time.Duration) *CourseCache {
	c := &CourseCache{Redis: rdb}
	c.ttl.Store(int64(ttl))
	return c
}

func courseCacheKey(id string) string {
	return fmt.Sprintf("%s%s", courseCacheKeyPrefix, id)
}

// Get 未命中时返回 (nil, nil)
func (c *CourseCache) Get(ctx context.Context, id string) (*model.Course, error) {
	if c == nil || c.Redis == nil {
		return nil, nil
	}

	val, err := c.Redis.Get(ctx, courseCacheKey(id)).Result()
	if err == redis.Nil {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var course model.Course
	if err := json.Unmarshal([]byte(val), &course); err != nil {
		return nil, err
	}
	return &course, nil
}

func (c *CourseCache) Set(ctx context.Context, course *model.Course) error {
	if c == nil || c.Redis == nil {
		return nil
	}
	ttl := c.TTL()
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(course)
	if err != nil {
		return err
	}
	return c.Redis.Set(ctx, courseCacheKey(course.ID), data, ttl).Err()
}

func (c *CourseCache) TTL() time.Duration {
	return time.Duration(c.ttl.Load())
}

// SetTTL 配置热更新时调用
func (c *CourseCache) SetTTL(ttl time.Duration) {
	if c == nil {
		return
	}
	c.ttl.Store(int64(ttl))
}
