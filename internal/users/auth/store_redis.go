// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: dev@inkwell.blog

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkwellapp/inkwell/internal/platform/apperr"
	"github.com/inkwellapp/inkwell/internal/platform/constants"
)

// # Confirmation Token Repository

// RedisConfirmTokenRepository implements ConfirmTokenRepository using Redis.
type RedisConfirmTokenRepository struct {
	client *redis.Client
}

// NewConfirmTokenRepository creates a new Redis-backed ConfirmTokenRepository.
func NewConfirmTokenRepository(client *redis.Client) *RedisConfirmTokenRepository {
	return &RedisConfirmTokenRepository{client: client}
}

/*
Set stores a confirmation token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (repository *RedisConfirmTokenRepository) Set(context context.Context, token string, userID string, ttl time.Duration) error {
	key := constants.RedisPrefixConfirmToken + token

	if err := repository.client.Set(context, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_confirm_token_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the userID for a given token.

Description: Returns apperr.NotFound if the token is absent or expired.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: Original UserID
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisConfirmTokenRepository) Get(context context.Context, token string) (string, error) {
	key := constants.RedisPrefixConfirmToken + token

	userID, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Confirmation token is invalid or expired")
		}
		return "", fmt.Errorf("redis_confirm_token_get_failed: %w", err)
	}

	return userID, nil
}

/*
Delete removes the token from Redis.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisConfirmTokenRepository) Delete(context context.Context, token string) error {
	key := constants.RedisPrefixConfirmToken + token

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_confirm_token_delete_failed: %w", err)
	}

	return nil
}
