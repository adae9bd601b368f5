package lang

// rustProfile returns the default profile for Rust codebases.
func rustProfile() Profile {
	return Profile{
		ID:         Rust,
		Extensions: []string{"rs"},
		ExcludeDirs: []string{
			"target", "build", "dist", "__pycache__",
		},
		ExcludeDotDirs: []string{
			".git", ".idea", ".vscode", ".cargo", ".rustup",
			".cache", ".pytest_cache", ".venv", ".env",
		},
		ExcludeFilenames: []string{"Cargo.lock", ".gitignore", ".gitmodules"},
		MarkerFiles:      []string{"rust-toolchain", "rustfmt.toml"},
		Keywords: keywordSet(
			// Primitive types.
			"bool", "char", "i8", "i16", "i32", "i64", "i128", "isize",
			"u8", "u16", "u32", "u64", "u128", "usize", "f32", "f64", "str",
			// Flow control.
			"as", "async", "await", "break", "const", "continue", "crate",
			"dyn", "else", "enum", "extern", "false", "fn", "for", "if",
			"impl", "in", "let", "loop", "match", "mod", "move", "mut",
			"pub", "ref", "return", "self", "Self", "static", "struct",
			"super", "trait", "true", "type", "unsafe", "use", "where",
			"while",
			// Reserved.
			"abstract", "become", "box", "do", "final", "macro",
			"override", "priv", "typeof", "unsized", "virtual", "yield",
			// Memory-related.
			"drop", "sizeof", "alignof", "offsetof",
		),
	}
}
