package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-engine/internal/httperr"
	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

func TestConflictStatuses(t *testing.T) {
	assert.ElementsMatch(t, []string{"scheduled", "confirmed"}, ConflictStatuses())
}

func TestLifecycleTransitions(t *testing.T) {
	now := time.Date(2026, 9, 14, 10, 0, 0, 0, time.UTC)

	ap := &models.Appointment{Status: string(InitialStatus())}

	require.NoError(t, Confirm(ap, now))
	assert.Equal(t, "confirmed", ap.Status)
	require.NotNil(t, ap.ConfirmedAt)
	assert.Equal(t, now, *ap.ConfirmedAt)

	// confirmar duas vezes é estado inválido
	err := Confirm(ap, now)
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))

	// confirmado ainda pode ser concluído
	require.NoError(t, Complete(ap, now))
	assert.Equal(t, "completed", ap.Status)
	require.NotNil(t, ap.CompletedAt)
}

func TestCancelFromScheduledAndConfirmed(t *testing.T) {
	now := time.Now()

	for _, status := range []Status{StatusScheduled, StatusConfirmed} {
		ap := &models.Appointment{Status: string(status)}
		require.NoError(t, Cancel(ap, now), string(status))
		assert.Equal(t, "cancelled", ap.Status)
		assert.NotNil(t, ap.CancelledAt)
	}
}

func TestTerminalStatesRejectEverything(t *testing.T) {
	now := time.Now()

	for _, status := range []Status{StatusCancelled, StatusCompleted} {
		ap := &models.Appointment{Status: string(status)}

		assert.Error(t, Confirm(ap, now), string(status))
		assert.Error(t, Cancel(ap, now), string(status))
		assert.Error(t, Complete(ap, now), string(status))
		assert.Equal(t, string(status), ap.Status, "status não pode mudar")
	}
}
