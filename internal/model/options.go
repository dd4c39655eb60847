package model

import "time"

// Options configures the behaviour of the Builder. Options are constructed by
// the public adapter in pkg/model and passed into New.
type Options struct {
	Labeler   func(string) string
	Sanitizer func(string) string
	Clock     func() time.Time
}

func defaultOptions() Options {
	return Options{
		Labeler:   DefaultLabeler,
		Sanitizer: SanitizeHelpText,
		Clock:     time.Now,
	}
}
