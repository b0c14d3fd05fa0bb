package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteElapsedQuery_ComparesInProviderTimezone(t *testing.T) {
	now := time.Date(2025, 6, 2, 21, 0, 0, 0, time.UTC)

	query, args, err := completeElapsedQuery(now)

	require.NoError(t, err)

	// booking_date и end_time - настенные часы провайдера, момент сравнения
	// переводится в его часовой пояс, а не в пояс сессии БД
	assert.Contains(t, query, "AT TIME ZONE")
	assert.Contains(t, query, "SELECT timezone FROM providers WHERE providers.id = bookings.provider_id")

	// Завершаются только подтвержденные, завершенные возвращаются целиком
	assert.Contains(t, query, "status = ")
	assert.Contains(t, query, "RETURNING "+bookingColumns)
	assert.Contains(t, args, now)
}
