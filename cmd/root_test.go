package cmd

import (
	"testing"

	"passkeep/internal/configs"
)

func withTestConfigs(t *testing.T) {
	t.Helper()
	previousConfigs := configs.UserPasskeepSettings.UserConfigsPath
	previousDefault := configs.UserPasskeepSettings.DefaultVaultPath
	configs.UserPasskeepSettings.UserConfigsPath = t.TempDir()
	configs.UserPasskeepSettings.DefaultVaultPath = "/home/jane/.passkeep"
	t.Cleanup(func() {
		configs.UserPasskeepSettings.UserConfigsPath = previousConfigs
		configs.UserPasskeepSettings.DefaultVaultPath = previousDefault
		ResetGlobalState()
	})
}

func TestResolveVaultPathDefaultsWhenFlagUnset(t *testing.T) {
	withTestConfigs(t)
	ResetGlobalState()

	if got := resolveVaultPath(); got != "/home/jane/.passkeep" {
		t.Errorf("Expected the default vault path, got: %s", got)
	}
}

func TestResolveVaultPathPrefersExistingDirectory(t *testing.T) {
	withTestConfigs(t)

	dir := t.TempDir()
	SetVaultPath(dir)

	if got := resolveVaultPath(); got != dir {
		t.Errorf("Expected the flag path, got: %s", got)
	}
}

func TestResolveVaultPathResolvesRegisteredName(t *testing.T) {
	withTestConfigs(t)

	if _, err := configs.RegisterVault("work", "/srv/vaults/work"); err != nil {
		t.Fatalf("RegisterVault failed: %v", err)
	}
	SetVaultPath("work")

	if got := resolveVaultPath(); got != "/srv/vaults/work" {
		t.Errorf("Expected the registered vault path, got: %s", got)
	}
}

func TestResolveVaultPathFallsThroughToLiteralValue(t *testing.T) {
	withTestConfigs(t)

	SetVaultPath("/nonexistent/unregistered")

	if got := resolveVaultPath(); got != "/nonexistent/unregistered" {
		t.Errorf("Expected the literal flag value, got: %s", got)
	}
}
