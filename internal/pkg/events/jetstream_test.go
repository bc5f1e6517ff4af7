package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prasetya/ridelink/internal/pkg/errs"
	"github.com/prasetya/ridelink/internal/pkg/models"
)

func TestSubjectFor_AppendsSanitizedKey(t *testing.T) {
	assert.Equal(t, "rides.created.r1", subjectFor("rides.created", "r1"))
	// Dots in the key would fan out into extra subject tokens.
	assert.Equal(t, "rides.created.a_b", subjectFor("rides.created", "a.b"))
}

func TestJetStreamPublish_RejectsKeylessEvent(t *testing.T) {
	// Consumers filter on "<topic>.>"; a keyless event would land on the
	// bare topic subject and never be delivered. The guard runs before any
	// broker call, so no connection is needed.
	bus := &JetStreamBus{}
	err := bus.Publish(context.Background(), "rides.created", models.Event{Type: "ride.created"})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}
