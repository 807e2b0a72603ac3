package logging

import "time"

// Config tunes the event router.
type Config struct {
	BufferSize       int
	MinimumSeverity  Severity
	Fields           map[string]any
	DropWarnInterval time.Duration
}

// DefaultConfig buffers 512 events and keeps info and above.
func DefaultConfig() Config {
	return Config{
		BufferSize:       512,
		MinimumSeverity:  SeverityInfo,
		DropWarnInterval: 5 * time.Second,
	}
}

func (c Config) cloneFields() map[string]any {
	if len(c.Fields) == 0 {
		return nil
	}
	cloned := make(map[string]any, len(c.Fields))
	for k, v := range c.Fields {
		cloned[k] = v
	}
	return cloned
}
