package layering

// CompilerOption configures a Compiler during creation.
//
// Example:
//
//	c := layering.NewCompiler(registry,
//	    layering.WithConfiguration(cfg),
//	    layering.WithBlockLogging(true))
type CompilerOption func(*compilerOptions)

// compilerOptions holds optional configuration for Compiler creation.
type compilerOptions struct {
	config    Configuration
	logBlocks bool
}

// defaultOptions returns the default compiler options.
func defaultOptions() compilerOptions {
	return compilerOptions{
		config:    nil, // Update is a no-op until one is set
		logBlocks: false,
	}
}

// WithConfiguration sets the descriptor source used by Compiler.Update.
func WithConfiguration(cfg Configuration) CompilerOption {
	return func(o *compilerOptions) {
		o.config = cfg
	}
}

// WithBlockLogging logs every emitted block at debug level through Logger.
// Useful when tuning a layering configuration; noisy otherwise.
func WithBlockLogging(enabled bool) CompilerOption {
	return func(o *compilerOptions) {
		o.logBlocks = enabled
	}
}
