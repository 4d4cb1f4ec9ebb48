package core

// Logger logs application events; implementations may ship them to an external service.
// An arg of type session.User sets the reporting person on implementations that support it.
type Logger interface {
	Enable(enabled bool)
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
