package codegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struktos/struktgen/internal/naming"
)

func TestGenerateMiddleware_Naming(t *testing.T) {
	tests := []struct {
		name  string
		class string
		path  string
		token string
	}{
		{"auth", "AuthMiddleware", "src/infrastructure/middleware/auth.middleware", "AUTH_MIDDLEWARE"},
		{"RateLimit", "RateLimitMiddleware", "src/infrastructure/middleware/rate-limit.middleware", "RATE_LIMIT_MIDDLEWARE"},
		{"RequestIdMiddleware", "RequestIdMiddleware", "src/infrastructure/middleware/request-id.middleware", "REQUEST_ID_MIDDLEWARE"},
	}

	g := newTestGenerator(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := g.GenerateMiddleware(tt.name, MiddlewareOptions{})
			require.NoError(t, err)
			assert.Equal(t, KindMiddleware, a.Kind)
			assert.Equal(t, tt.path, a.LogicalPath)
			assert.Contains(t, a.Content, "export class "+tt.class+" implements IMiddleware {")
			assert.Contains(t, a.Content, "export const "+tt.token+" = '"+tt.class+"';")
		})
	}
}

func TestGenerateMiddleware_Options(t *testing.T) {
	g := newTestGenerator(t, nil)

	t.Run("logger", func(t *testing.T) {
		a, err := g.GenerateMiddleware("Auth", MiddlewareOptions{WithLogger: true})
		require.NoError(t, err)
		assert.Contains(t, a.Content, "import { ILogger, IMiddleware, MiddlewareContext, NextFunction } from '@struktos/core';")
		assert.Contains(t, a.Content, "  constructor(private readonly logger: ILogger) {}\n\n  async invoke(")
		assert.Contains(t, a.Content, "this.logger.info('AuthMiddleware handled request');")
		assert.NotContains(t, a.Content, "startedAt")
	})

	t.Run("timing", func(t *testing.T) {
		a, err := g.GenerateMiddleware("Auth", MiddlewareOptions{WithTiming: true})
		require.NoError(t, err)
		assert.Contains(t, a.Content, "const startedAt = Date.now();")
		assert.Contains(t, a.Content, "ctx.set('authElapsedMs', Date.now() - startedAt);")
		assert.NotContains(t, a.Content, "ILogger")
		assert.NotContains(t, a.Content, "constructor")
	})

	t.Run("logger and timing", func(t *testing.T) {
		a, err := g.GenerateMiddleware("Auth", MiddlewareOptions{WithLogger: true, WithTiming: true})
		require.NoError(t, err)
		assert.Contains(t, a.Content, "this.logger.info('AuthMiddleware handled request', { elapsedMs: Date.now() - startedAt });")
		assert.NotContains(t, a.Content, "ctx.set(")
	})
}

func TestGenerateMiddleware_InvalidName(t *testing.T) {
	g := newTestGenerator(t, nil)
	_, err := g.GenerateMiddleware("rate-limit", MiddlewareOptions{})
	assert.ErrorIs(t, err, naming.ErrInvalidName)
}
