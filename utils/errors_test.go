package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := map[error]int{
		ErrInvalidInput:           http.StatusBadRequest,
		ErrOutsideAvailability:    http.StatusBadRequest,
		ErrSlotConflict:           http.StatusConflict,
		ErrStaleUpdate:            http.StatusConflict,
		ErrBookingNotFound:        http.StatusNotFound,
		ErrUnauthorized:           http.StatusUnauthorized,
		ErrPersistence:            http.StatusInternalServerError,
		errors.New("socket hung"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatus(err), err.Error())
	}
}

func TestWrappedErrorsKeepTheirKind(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("%w: insert booking: %w", ErrPersistence, cause)
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "internal_error", CodeOf(err))

	conflict := fmt.Errorf("%w: 09:00-10:00 overlaps b-1", ErrSlotConflict)
	assert.Equal(t, KindConflict, KindOf(conflict))
	assert.Equal(t, "slot_conflict", CodeOf(conflict))
	assert.Equal(t, "conflict", KindOf(conflict).String())
}

func TestBookingMetrics(t *testing.T) {
	var nilMetrics *BookingMetrics
	assert.NotPanics(t, func() {
		nilMetrics.ObserveCreated()
		nilMetrics.ObserveRejected(ErrSlotConflict)
		nilMetrics.ObserveTransition("pending", "confirmed")
	})

	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)
	m.ObserveCreated()
	m.ObserveRejected(fmt.Errorf("%w: detail", ErrSlotConflict))
	m.ObserveRejected(nil)
	m.ObserveTransition("pending", "confirmed")

	families, err := reg.Gather()
	require.NoError(t, err)
	got := map[string]float64{}
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			got[mf.GetName()] += metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, got["herbimmortal_booking_created_total"])
	assert.Equal(t, 1.0, got["herbimmortal_booking_rejected_total"])
	assert.Equal(t, 1.0, got["herbimmortal_booking_transition_total"])
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	token, err := GenerateToken("doctor-9", -time.Minute)
	require.NoError(t, err)

	_, err = ExtractIDFromToken(token)
	assert.Error(t, err)

	token, err = GenerateToken("doctor-9", time.Minute)
	require.NoError(t, err)
	id, err := ExtractIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, "doctor-9", id)
	assert.Len(t, HashToken(token), 64)
}
