package layering

import "testing"

// TestNewCompilerDefault tests that NewCompiler works without options.
func TestNewCompilerDefault(t *testing.T) {
	c := NewCompiler(nil)
	if c == nil {
		t.Fatal("NewCompiler returned nil")
	}
	if c.registry == nil {
		t.Error("registry is nil, expected a private LevelRegistry")
	}
	if c.config != nil {
		t.Error("config is set without WithConfiguration")
	}
	if c.logBlocks {
		t.Error("block logging enabled by default")
	}
}

// TestNewCompilerWithOptions tests that options are applied in order.
func TestNewCompilerWithOptions(t *testing.T) {
	registry := NewLevelRegistry()
	first := fixedConfig{desc(CommonOpaque, Grounded, 100, 1)}
	second := fixedConfig{desc(CommonOpaque, Grounded, 100, 2)}

	c := NewCompiler(registry,
		WithConfiguration(first),
		WithConfiguration(second),
		WithBlockLogging(true))

	if c.registry != registry {
		t.Error("registry is not the injected registry")
	}
	if cfg, ok := c.config.(fixedConfig); !ok || cfg[0].RenderingLayerMask != 2 {
		t.Errorf("config = %v, want the last WithConfiguration", c.config)
	}
	if !c.logBlocks {
		t.Error("WithBlockLogging(true) not applied")
	}
}

// TestSharedRegistry tests that compilers sharing a registry see its scale.
func TestSharedRegistry(t *testing.T) {
	registry := NewLevelRegistry()
	a := NewCompiler(registry)
	b := NewCompiler(registry)

	registry.SetScale(3000, 1)
	infos := []LayeringInfo{desc(CommonOpaque, Grounded, 100, 1<<12)}
	a.Compile(infos, 1)
	b.Compile(infos, 1)

	if len(a.Forward()) != 3 || len(b.Forward()) != 3 {
		t.Errorf("got %d and %d forward blocks, want 3 each", len(a.Forward()), len(b.Forward()))
	}
}
