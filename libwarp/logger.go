package libwarp

import "github.com/charmbracelet/log"

var logger = log.WithPrefix("libwarp")

// Sets the logger to use for logging messages.
func SetupLogger(l *log.Logger) {
	logger = l
}
