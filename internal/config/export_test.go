package config

// StubDarkBackground replaces terminal background detection until restore
// is called.
func StubDarkBackground(dark bool) (restore func()) {
	prev := hasDarkBackground
	hasDarkBackground = func() bool { return dark }
	return func() { hasDarkBackground = prev }
}
