package core

// Logger is the minimal logging surface the render pipeline writes to.
// The standard log package and the web console logger both satisfy it.
type Logger interface {
	Printf(format string, args ...interface{})
}
