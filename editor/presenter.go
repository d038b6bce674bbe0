package editor

// ErrorPresenter shows one alert at a time. Alerts raised while one is
// visible queue behind it in arrival order; each dismissal reveals the next.
// Dismissing is the universal recovery path; the machine resets everything
// else on dismissal.
type ErrorPresenter struct {
	queue []alert
}

type alert struct {
	err             error
	reloadOnDismiss bool
}

// Show queues err. A repeat of the message already at the back of the queue
// is merged into it, keeping any scheduled reload.
func (p *ErrorPresenter) Show(err error, reloadOnDismiss bool) {
	if n := len(p.queue); n > 0 && p.queue[n-1].err.Error() == err.Error() {
		p.queue[n-1].reloadOnDismiss = p.queue[n-1].reloadOnDismiss || reloadOnDismiss
		return
	}
	p.queue = append(p.queue, alert{err: err, reloadOnDismiss: reloadOnDismiss})
}

// Visible reports whether an alert is showing.
func (p *ErrorPresenter) Visible() bool {
	return len(p.queue) > 0
}

// Err returns the visible error, or nil.
func (p *ErrorPresenter) Err() error {
	if len(p.queue) == 0 {
		return nil
	}
	return p.queue[0].err
}

// Message returns the text to show.
func (p *ErrorPresenter) Message() string {
	if len(p.queue) == 0 {
		return ""
	}
	return p.queue[0].err.Error()
}

// ReloadOnDismiss reports whether dismissing the visible alert will refetch the map.
func (p *ErrorPresenter) ReloadOnDismiss() bool {
	return len(p.queue) > 0 && p.queue[0].reloadOnDismiss
}

// Queued returns the number of alerts waiting behind the visible one.
func (p *ErrorPresenter) Queued() int {
	return max(len(p.queue)-1, 0)
}

// Dismiss hides the visible alert and reports whether it scheduled a reload.
func (p *ErrorPresenter) Dismiss() bool {
	if len(p.queue) == 0 {
		return false
	}
	reload := p.queue[0].reloadOnDismiss
	p.queue[0] = alert{}
	p.queue = p.queue[1:]
	if len(p.queue) == 0 {
		p.queue = nil
	}
	return reload
}
