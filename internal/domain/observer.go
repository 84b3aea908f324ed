package domain

// Observer receives progress and status callbacks while a run executes.
// Either callback may be nil; use the methods so emission stays nil-safe.
type Observer struct {
	OnProgress func(percent float64)
	OnStatus   func(message string)
}

// Progress forwards a unified-scale progress value when configured.
func (o Observer) Progress(percent float64) {
	if o.OnProgress != nil {
		o.OnProgress(percent)
	}
}

// Status forwards a human-readable phase description when configured.
func (o Observer) Status(message string) {
	if o.OnStatus != nil {
		o.OnStatus(message)
	}
}
