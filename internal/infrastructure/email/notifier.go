package email

import (
	"context"
	"fmt"

	"github.com/cargotrack/identity-service/internal/infrastructure/queue"
)

// Notifier builds account email and hands it to the dispatcher. Calls
// return immediately; delivery happens on the dispatcher's workers and
// failures are logged there.
type Notifier struct {
	dispatcher *queue.Dispatcher
}

func NewNotifier(dispatcher *queue.Dispatcher) *Notifier {
	return &Notifier{dispatcher: dispatcher}
}

// SendWelcome queues the account-created greeting.
func (n *Notifier) SendWelcome(_ context.Context, to, firstName string) {
	greeting := "Hello"
	if firstName != "" {
		greeting = "Hello " + firstName
	}
	n.dispatcher.Enqueue(queue.Message{
		To:      to,
		Subject: "Welcome to CargoTrack",
		Body: fmt.Sprintf("%s,\n\nYour CargoTrack account has been created. "+
			"You can now sign in with your email address.\n", greeting),
	})
}

// SendLockoutNotice queues the account-locked notification.
func (n *Notifier) SendLockoutNotice(_ context.Context, to string, minutes int) {
	n.dispatcher.Enqueue(queue.Message{
		To:      to,
		Subject: "Your account has been locked",
		Body: fmt.Sprintf("Your account was locked for %d minutes after repeated "+
			"failed sign-in attempts.\n\nIf this was not you, please contact support.\n", minutes),
	})
}
