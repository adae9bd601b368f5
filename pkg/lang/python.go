package lang

// pythonProfile returns the default profile for Python codebases.
func pythonProfile() Profile {
	return Profile{
		ID:         Python,
		Extensions: []string{"py"},
		ExcludeDirs: []string{
			"venv", "env", "__pycache__", "mypy_cache",
		},
		ExcludeDotDirs: []string{
			".pytest_cache", ".venv", ".env", ".git", ".idea",
			".vscode", ".eggs", ".cache",
		},
		ExcludeFilenames: nil,
		MarkerFiles:      []string{"pyvenv.cfg"},
		Keywords: keywordSet(
			"False", "None", "True",
			"and", "as", "assert", "async", "await", "break",
			"class", "continue", "def", "del", "elif", "else",
			"except", "finally", "for", "from", "global", "if",
			"import", "in", "is", "lambda", "nonlocal", "not",
			"or", "pass", "raise", "return", "try", "while",
			"with", "yield",
		),
	}
}
