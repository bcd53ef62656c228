package config_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/crowd-lab/crowdsim/pkg/cli/config"
)

func TestRepositoryConfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend", func(t *testing.T) {
		cfg := config.NewRepositoryForTest("memory", "")
		repo, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, repo).NotNil()
		gt.NoError(t, repo.Close(ctx))
	})

	t.Run("sqlite backend", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")
		cfg := config.NewRepositoryForTest("sqlite", path)
		repo, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, repo).NotNil()
		gt.NoError(t, repo.Close(ctx))
	})

	t.Run("sqlite backend requires a path", func(t *testing.T) {
		cfg := config.NewRepositoryForTest("sqlite", "")
		_, err := cfg.Configure(ctx)
		gt.Value(t, err).NotNil()
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := config.NewRepositoryForTest("etcd", "")
		_, err := cfg.Configure(ctx)
		gt.Value(t, err).NotNil()
	})
}

func TestLLMConfigure(t *testing.T) {
	ctx := context.Background()

	t.Run("mock provider needs no credentials", func(t *testing.T) {
		cfg := config.NewLLMForTest("mock")
		oracle, err := cfg.Configure(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, oracle).NotNil()
	})

	t.Run("gemini requires a project", func(t *testing.T) {
		cfg := config.NewLLMForTest("gemini")
		_, err := cfg.Configure(ctx)
		gt.Value(t, err).NotNil()
	})

	t.Run("openai requires an api key", func(t *testing.T) {
		cfg := config.NewLLMForTest("openai")
		_, err := cfg.Configure(ctx)
		gt.Value(t, err).NotNil()
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := config.NewLLMForTest("oracle-of-delphi")
		_, err := cfg.Configure(ctx)
		gt.Value(t, err).NotNil()
	})
}
