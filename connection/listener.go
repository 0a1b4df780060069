package connection

// Listener receives progress events for one import attempt.
type Listener interface {
	OnStart(taskID string)
	OnStatusChange(status string)
	OnOutput(text string, stdout bool)
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) OnStart(string)        {}
func (NopListener) OnStatusChange(string) {}
func (NopListener) OnOutput(string, bool) {}

// ListenerFuncs adapts optional callbacks to a Listener.
type ListenerFuncs struct {
	Start        func(taskID string)
	StatusChange func(status string)
	Output       func(text string, stdout bool)
}

func (f ListenerFuncs) OnStart(taskID string) {
	if f.Start != nil {
		f.Start(taskID)
	}
}

func (f ListenerFuncs) OnStatusChange(status string) {
	if f.StatusChange != nil {
		f.StatusChange(status)
	}
}

func (f ListenerFuncs) OnOutput(text string, stdout bool) {
	if f.Output != nil {
		f.Output(text, stdout)
	}
}

// outputWriter forwards process output to a listener.
type outputWriter struct {
	listener Listener
	stdout   bool
}

func (w outputWriter) Write(p []byte) (int, error) {
	w.listener.OnOutput(string(p), w.stdout)
	return len(p), nil
}
