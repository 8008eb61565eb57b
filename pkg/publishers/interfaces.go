package publishers

import (
	"context"

	"github.com/samvad-hq/samvad-projects-client/pkg/resource"
)

// Publisher delivers change events to one downstream sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the structured logger publishers report deliveries and failures to.
type Logger = resource.Logger

type discardLogger struct{}

func (discardLogger) InfoObj(string, string, interface{})  {}
func (discardLogger) DebugObj(string, string, interface{}) {}
func (discardLogger) WarnObj(string, string, interface{})  {}
func (discardLogger) ErrorObj(string, string, interface{}) {}

func orDiscard(log Logger) Logger {
	if log == nil {
		return discardLogger{}
	}
	return log
}
